package window

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilikebug/oTools/internal/plugin"
)

const helperEnv = "OTOOLS_WINDOW_HELPER"

func TestMain(m *testing.M) {
	if os.Getenv(helperEnv) == "1" {
		runHelper()
		return
	}
	os.Exit(m.Run())
}

// helperWindow stands in for the native window inside the test binary
type helperWindow struct {
	child  *Child
	mu     sync.Mutex
	bounds plugin.Rect
}

func (h *helperWindow) Show() error                          { return nil }
func (h *helperWindow) Hide() error                          { return nil }
func (h *helperWindow) Focus() error                         { return nil }
func (h *helperWindow) SetAlwaysOnTop(plugin.TopLevel) error { return nil }
func (h *helperWindow) Minimise() error                      { return nil }
func (h *helperWindow) ToggleMaximise() error                { return nil }

func (h *helperWindow) SetPosition(p plugin.Point) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bounds.X, h.bounds.Y = p.X, p.Y
	return nil
}

func (h *helperWindow) Bounds() (plugin.Rect, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bounds, nil
}

func (h *helperWindow) Close() error {
	go func() {
		time.Sleep(10 * time.Millisecond)
		os.Exit(0)
	}()
	return nil
}

func (h *helperWindow) Deliver(event string, payload json.RawMessage) {
	if event == "request-close" {
		_ = h.child.RequestClose()
		return
	}
	go func() {
		_, _ = h.child.Call(context.Background(), "echo", []json.RawMessage{json.RawMessage(strconv.Quote(event)), payload})
	}()
}

func flagValue(name string) string {
	for i, arg := range os.Args {
		if arg == name && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return ""
}

func runHelper() {
	width, _ := strconv.Atoi(flagValue("--width"))
	height, _ := strconv.Atoi(flagValue("--height"))
	w := &helperWindow{bounds: plugin.Rect{Width: width, Height: height}}
	w.child = NewChild("helper", os.Stdin, os.Stdout, w)
	w.child.Start()

	switch flagValue("--plugin") {
	case "fail":
		_ = w.child.Ready(errors.New("entry missing"))
	case "hang":
	case "close-early":
		_ = w.child.RequestClose()
		_ = w.child.Ready(nil)
	case "crash":
		_ = w.child.Ready(nil)
		time.Sleep(50 * time.Millisecond)
		os.Exit(3)
	default:
		_ = w.child.Ready(nil)
	}
	<-w.child.Done()
	os.Exit(0)
}

func testHost() *ProcessHost {
	h := NewProcessHost(os.Args[0])
	h.env = []string{helperEnv + "=1"}
	h.grace = time.Second
	return h
}

type recordedCall struct {
	name string
	args []json.RawMessage
}

func testSpec(name string) (plugin.WindowSpec, chan struct{}, chan struct{}, chan recordedCall) {
	closeRequested := make(chan struct{}, 1)
	closed := make(chan struct{}, 1)
	calls := make(chan recordedCall, 4)
	spec := plugin.WindowSpec{
		Plugin: name,
		Dir:    "/tmp/" + name,
		Entry:  "/tmp/" + name + "/index.html",
		Width:  300,
		Height: 200,
		Title:  name,
		Frame:  true,
		Events: plugin.WindowEvents{
			CloseRequested: func() { closeRequested <- struct{}{} },
			Closed:         func() { closed <- struct{}{} },
			Call: func(ctx context.Context, fn string, args []json.RawMessage) plugin.Result {
				calls <- recordedCall{name: fn, args: args}
				return plugin.OK("", nil)
			},
		},
	}
	return spec, closeRequested, closed, calls
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestOpenAndControl(t *testing.T) {
	spec, _, closed, _ := testSpec("demo")
	w, err := testHost().Open(context.Background(), spec)
	require.NoError(t, err)

	require.NoError(t, w.Show())
	require.NoError(t, w.SetAlwaysOnTop(plugin.TopLevelScreenSaver))
	require.NoError(t, w.SetPosition(plugin.Point{X: 10, Y: 20}))
	bounds, err := w.Bounds()
	require.NoError(t, err)
	assert.Equal(t, plugin.Rect{X: 10, Y: 20, Width: 300, Height: 200}, bounds)
	require.NoError(t, w.Minimise())
	require.NoError(t, w.Hide())

	require.NoError(t, w.Close())
	waitFor(t, closed, "closed event")

	assert.ErrorIs(t, w.Show(), plugin.ErrWindowClosed)
	assert.NoError(t, w.Close(), "close is idempotent")
}

func TestSendRoutesBridgeCalls(t *testing.T) {
	spec, _, _, calls := testSpec("demo")
	w, err := testHost().Open(context.Background(), spec)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Send(plugin.ExecuteEvent, plugin.ExecutePayload{Action: "default"}))

	select {
	case c := <-calls:
		assert.Equal(t, "echo", c.name)
		require.Len(t, c.args, 2)
		assert.JSONEq(t, `"plugin-execute"`, string(c.args[0]))
		assert.Contains(t, string(c.args[1]), `"default"`)
	case <-time.After(5 * time.Second):
		t.Fatal("bridge call not received")
	}
}

func TestCloseRequestForwarded(t *testing.T) {
	spec, closeRequested, _, _ := testSpec("demo")
	w, err := testHost().Open(context.Background(), spec)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Send("request-close", nil))
	waitFor(t, closeRequested, "close request")
}

func TestCloseRequestWhileLoadingIsReplayed(t *testing.T) {
	spec, closeRequested, _, _ := testSpec("close-early")
	w, err := testHost().Open(context.Background(), spec)
	require.NoError(t, err)
	defer w.Close()

	waitFor(t, closeRequested, "close request sent before ready")
	select {
	case <-closeRequested:
		t.Fatal("close request must be delivered once")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOpenLoadFailure(t *testing.T) {
	spec, _, closed, _ := testSpec("fail")
	_, err := testHost().Open(context.Background(), spec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry missing")

	select {
	case <-closed:
		t.Fatal("closed must not fire for a window that never opened")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestOpenHonoursContext(t *testing.T) {
	spec, _, _, _ := testSpec("hang")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := testHost().Open(ctx, spec)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcessExitFiresClosed(t *testing.T) {
	spec, _, closed, _ := testSpec("crash")
	w, err := testHost().Open(context.Background(), spec)
	require.NoError(t, err)

	waitFor(t, closed, "closed event after exit")
	assert.ErrorIs(t, w.Focus(), plugin.ErrWindowClosed)
	assert.ErrorIs(t, w.Send("anything", nil), plugin.ErrWindowClosed)
}

func TestOpenMissingBinary(t *testing.T) {
	spec, _, _, _ := testSpec("demo")
	_, err := NewProcessHost("/nonexistent/otools-window").Open(context.Background(), spec)
	assert.Error(t, err)
}

func TestOptionsArgs(t *testing.T) {
	opts := OptionsFromSpec(plugin.WindowSpec{
		Plugin:      "clock",
		Dir:         "/p/clock",
		Entry:       "/p/clock/index.html",
		Preload:     "/p/clock/preload.js",
		Width:       900,
		Height:      600,
		Title:       "Clock",
		Frame:       false,
		HideOnBlur:  true,
		AlwaysOnTop: true,
	})

	assert.Equal(t, []string{
		"--plugin", "clock",
		"--dir", "/p/clock",
		"--entry", "/p/clock/index.html",
		"--width", "900",
		"--height", "600",
		"--title", "Clock",
		"--frame=false",
		"--always-on-top=true",
		"--preload", "/p/clock/preload.js",
		"--hide-on-blur",
	}, opts.Args())

	remote := OptionsFromSpec(plugin.WindowSpec{Plugin: "web", Entry: "https://example.com", Remote: true, Debug: true})
	assert.Contains(t, remote.Args(), "--remote")
	assert.Contains(t, remote.Args(), "--debug")
	assert.NotContains(t, remote.Args(), "--preload")
}
