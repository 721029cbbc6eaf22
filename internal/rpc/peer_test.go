package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pair connects two peers with in-memory pipes
func pair(t *testing.T) (*Peer, *Peer) {
	t.Helper()
	ar, bw := io.Pipe()
	br, aw := io.Pipe()

	a := NewPeer("a", ar, aw)
	b := NewPeer("b", br, bw)
	t.Cleanup(func() {
		a.Close()
		b.Close()
		aw.Close()
		bw.Close()
	})
	return a, b
}

func TestCallRoundTrip(t *testing.T) {
	a, b := pair(t)
	b.Handle("add", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var args [2]int
		if err := json.Unmarshal(params, &args); err != nil {
			return nil, NewError(CodeInvalidParams, "bad params")
		}
		return args[0] + args[1], nil
	})
	a.Start()
	b.Start()

	var sum int
	require.NoError(t, a.Call(context.Background(), "add", []int{2, 3}, &sum))
	assert.Equal(t, 5, sum)
}

func TestCallBothDirections(t *testing.T) {
	a, b := pair(t)
	a.Handle("whoami", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return "a", nil
	})
	b.Handle("whoami", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return "b", nil
	})
	a.Start()
	b.Start()

	var name string
	require.NoError(t, a.Call(context.Background(), "whoami", nil, &name))
	assert.Equal(t, "b", name)
	require.NoError(t, b.Call(context.Background(), "whoami", nil, &name))
	assert.Equal(t, "a", name)
}

func TestHandlerCanCallBack(t *testing.T) {
	a, b := pair(t)
	a.Handle("value", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return 42, nil
	})
	b.Handle("double", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var v int
		if err := b.Call(ctx, "value", nil, &v); err != nil {
			return nil, err
		}
		return v * 2, nil
	})
	a.Start()
	b.Start()

	var got int
	require.NoError(t, a.Call(context.Background(), "double", nil, &got))
	assert.Equal(t, 84, got)
}

func TestCallErrors(t *testing.T) {
	a, b := pair(t)
	b.Handle("fail", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return nil, errors.New("boom")
	})
	b.Handle("panic", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		panic("bad handler")
	})
	a.Start()
	b.Start()

	var rpcErr *Error

	err := a.Call(context.Background(), "missing", nil, nil)
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeMethodNotFound, rpcErr.Code)

	err = a.Call(context.Background(), "fail", nil, nil)
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeInternalError, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "boom")

	err = a.Call(context.Background(), "panic", nil, nil)
	require.ErrorAs(t, err, &rpcErr)
	assert.Contains(t, rpcErr.Message, "bad handler")
}

func TestNotificationsKeepOrder(t *testing.T) {
	a, b := pair(t)
	got := make(chan int, 3)
	b.OnNotify("tick", func(params json.RawMessage) {
		var n int
		_ = json.Unmarshal(params, &n)
		got <- n
	})
	a.Start()
	b.Start()

	for i := 1; i <= 3; i++ {
		require.NoError(t, a.Notify("tick", i))
	}
	for i := 1; i <= 3; i++ {
		select {
		case n := <-got:
			assert.Equal(t, i, n)
		case <-time.After(2 * time.Second):
			t.Fatal("notification not delivered")
		}
	}
}

func TestCallContextCancelled(t *testing.T) {
	a, b := pair(t)
	release := make(chan struct{})
	b.Handle("slow", func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		<-release
		return nil, nil
	})
	a.Start()
	b.Start()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := a.Call(ctx, "slow", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStreamEndFailsPending(t *testing.T) {
	ar, bw := io.Pipe()
	a := NewPeer("a", ar, io.Discard)
	a.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Call(context.Background(), "never", nil, nil)
	}()

	time.Sleep(10 * time.Millisecond)
	bw.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("pending call not released")
	}
	<-a.Done()

	assert.ErrorIs(t, a.Call(context.Background(), "again", nil, nil), ErrClosed)
	assert.ErrorIs(t, a.Notify("again", nil), ErrClosed)
}

func TestMalformedLinesAreSkipped(t *testing.T) {
	r, w := io.Pipe()
	p := NewPeer("p", r, io.Discard)
	got := make(chan string, 1)
	p.OnNotify("hello", func(params json.RawMessage) {
		var s string
		_ = json.Unmarshal(params, &s)
		got <- s
	})
	p.Start()
	defer w.Close()

	go func() {
		_, _ = w.Write([]byte("not json\n\n"))
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","method":"hello","params":"world"}` + "\n"))
	}()

	select {
	case s := <-got:
		assert.Equal(t, "world", s)
	case <-time.After(2 * time.Second):
		t.Fatal("notification after malformed line not delivered")
	}
}
