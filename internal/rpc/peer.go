package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ilikebug/oTools/internal/logger"
)

// ErrClosed is returned for calls on a closed peer
var ErrClosed = errors.New("rpc connection closed")

// Handler serves an incoming request
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// NotificationHandler serves an incoming notification. It runs on the read
// loop, so notifications are handled in the order they arrive.
type NotificationHandler func(params json.RawMessage)

// Peer is one end of a newline-delimited JSON-RPC 2.0 stream. Both ends
// may send requests and notifications.
type Peer struct {
	name   string
	reader *bufio.Reader
	writer io.Writer

	handlers      map[string]Handler
	notifications map[string]NotificationHandler

	requests map[int64]chan *message
	nextID   int64
	closed   bool
	mu       sync.Mutex
	writeMu  sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPeer creates a peer reading from r and writing to w. Call Start once
// handlers are registered.
func NewPeer(name string, r io.Reader, w io.Writer) *Peer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Peer{
		name:          name,
		reader:        bufio.NewReader(r),
		writer:        w,
		handlers:      make(map[string]Handler),
		notifications: make(map[string]NotificationHandler),
		requests:      make(map[int64]chan *message),
		nextID:        1,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
}

// Handle registers a request handler
func (p *Peer) Handle(method string, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[method] = h
}

// OnNotify registers a notification handler
func (p *Peer) OnNotify(method string, h NotificationHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications[method] = h
}

// Start begins reading messages
func (p *Peer) Start() {
	go p.readLoop()
}

// Done is closed when the stream ends
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// readLoop reads responses, requests and notifications from the stream
func (p *Peer) readLoop() {
	defer p.shutdown()

	for {
		line, err := p.reader.ReadBytes('\n')
		if len(line) > 0 {
			p.dispatch(line)
		}
		if err != nil {
			if err == io.EOF {
				logger.Log.Debug().Str("peer", p.name).Msg("RPC stream closed (EOF)")
			} else {
				logger.Log.Debug().Err(err).Str("peer", p.name).Msg("Error reading RPC stream")
			}
			return
		}
	}
}

func (p *Peer) dispatch(line []byte) {
	var msg message
	if err := json.Unmarshal(line, &msg); err != nil {
		if len(trimSpace(line)) > 0 {
			logger.Log.Warn().Err(err).Str("peer", p.name).Msg("Error parsing RPC message")
		}
		return
	}

	switch {
	case msg.Method != "" && msg.hasID():
		go p.serve(&msg)
	case msg.Method != "":
		p.notify(&msg)
	case msg.hasID():
		p.deliver(&msg)
	default:
		logger.Log.Warn().Str("peer", p.name).Msg("Received RPC message without method or id")
	}
}

func trimSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\n' || b[0] == '\r' || b[0] == '\t') {
		b = b[1:]
	}
	return b
}

func (p *Peer) deliver(msg *message) {
	id, ok := parseID(msg.ID)
	if !ok {
		logger.Log.Warn().Str("peer", p.name).RawJSON("id", msg.ID).Msg("Received response with invalid ID type")
		return
	}

	p.mu.Lock()
	ch, ok := p.requests[id]
	if ok {
		delete(p.requests, id)
	}
	p.mu.Unlock()

	if !ok {
		logger.Log.Warn().Str("peer", p.name).Int64("id", id).Msg("Received response with unknown ID")
		return
	}
	ch <- msg
}

func (p *Peer) notify(msg *message) {
	p.mu.Lock()
	h, ok := p.notifications[msg.Method]
	p.mu.Unlock()

	if !ok {
		logger.Log.Debug().Str("peer", p.name).Str("method", msg.Method).Msg("Unhandled notification")
		return
	}
	h(msg.Params)
}

func (p *Peer) serve(msg *message) {
	p.mu.Lock()
	h, ok := p.handlers[msg.Method]
	p.mu.Unlock()

	resp := Response{JSONRPC: Version, ID: msg.ID}
	if !ok {
		resp.Error = NewError(CodeMethodNotFound, "method %s not found", msg.Method)
	} else {
		result, err := p.call(h, msg.Params)
		if err != nil {
			var rpcErr *Error
			if errors.As(err, &rpcErr) {
				resp.Error = rpcErr
			} else {
				resp.Error = NewError(CodeInternalError, "%v", err)
			}
		} else {
			if result == nil {
				result = struct{}{}
			}
			resp.Result = result
		}
	}

	if err := p.write(resp); err != nil {
		logger.Log.Warn().Err(err).Str("peer", p.name).Str("method", msg.Method).Msg("Failed to write response")
	}
}

// call runs a handler, turning a panic into an internal error
func (p *Peer) call(h Handler, params json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().Str("peer", p.name).Interface("panic", r).Msg("RPC handler panicked")
			err = NewError(CodeInternalError, "handler panic: %v", r)
		}
	}()
	return h(p.ctx, params)
}

func (p *Peer) write(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	data = append(data, '\n')

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if _, err := p.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// Call sends a request and decodes the result into out, which may be nil
func (p *Peer) Call(ctx context.Context, method string, params interface{}, out interface{}) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	id := p.nextID
	p.nextID++
	ch := make(chan *message, 1)
	p.requests[id] = ch
	p.mu.Unlock()

	forget := func() {
		p.mu.Lock()
		delete(p.requests, id)
		p.mu.Unlock()
	}

	if err := p.write(Request{JSONRPC: Version, ID: id, Method: method, Params: params}); err != nil {
		forget()
		return err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if resp.Error != nil {
			return resp.Error
		}
		if out != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, out); err != nil {
				return fmt.Errorf("failed to decode %s result: %w", method, err)
			}
		}
		return nil
	case <-ctx.Done():
		forget()
		return ctx.Err()
	}
}

// Notify sends a notification
func (p *Peer) Notify(method string, params interface{}) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return p.write(Request{JSONRPC: Version, Method: method, Params: params})
}

// Close fails pending calls. The underlying stream is owned by the caller.
func (p *Peer) Close() error {
	p.shutdown()
	return nil
}

func (p *Peer) shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.cancel()
	for id, ch := range p.requests {
		close(ch)
		delete(p.requests, id)
	}
	close(p.done)
}
