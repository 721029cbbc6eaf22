package window

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ilikebug/oTools/internal/plugin"
	"github.com/ilikebug/oTools/internal/rpc"
)

// Controller drives the native window inside a window process
type Controller interface {
	Show() error
	Hide() error
	Focus() error
	SetAlwaysOnTop(level plugin.TopLevel) error
	SetPosition(p plugin.Point) error
	Bounds() (plugin.Rect, error)
	Minimise() error
	ToggleMaximise() error
	// Close tears the window down after the reply has been written
	Close() error
	// Deliver hands an event to the plugin's script context
	Deliver(event string, payload json.RawMessage)
}

// Child is the window-process end of the connection to the launcher
type Child struct {
	peer *rpc.Peer
	ctrl Controller
}

// NewChild wires ctrl to the launcher speaking on r and w
func NewChild(name string, r io.Reader, w io.Writer, ctrl Controller) *Child {
	c := &Child{peer: rpc.NewPeer(name, r, w), ctrl: ctrl}

	simple := map[string]func() error{
		MethodShow:           ctrl.Show,
		MethodHide:           ctrl.Hide,
		MethodFocus:          ctrl.Focus,
		MethodMinimise:       ctrl.Minimise,
		MethodToggleMaximise: ctrl.ToggleMaximise,
	}
	for method, fn := range simple {
		fn := fn
		c.peer.Handle(method, func(context.Context, json.RawMessage) (interface{}, error) {
			return nil, fn()
		})
	}

	c.peer.Handle(MethodSetAlwaysOnTop, func(_ context.Context, params json.RawMessage) (interface{}, error) {
		var p LevelParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpc.NewError(rpc.CodeInvalidParams, "invalid level: %v", err)
		}
		return nil, ctrl.SetAlwaysOnTop(p.Level)
	})
	c.peer.Handle(MethodSetPosition, func(_ context.Context, params json.RawMessage) (interface{}, error) {
		var p plugin.Point
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpc.NewError(rpc.CodeInvalidParams, "invalid position: %v", err)
		}
		return nil, ctrl.SetPosition(p)
	})
	c.peer.Handle(MethodBounds, func(context.Context, json.RawMessage) (interface{}, error) {
		return ctrl.Bounds()
	})
	c.peer.Handle(MethodClose, func(context.Context, json.RawMessage) (interface{}, error) {
		return nil, ctrl.Close()
	})
	c.peer.OnNotify(NotifyEvent, func(params json.RawMessage) {
		var p struct {
			Event   string          `json:"event"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(params, &p); err != nil || p.Event == "" {
			return
		}
		ctrl.Deliver(p.Event, p.Payload)
	})
	return c
}

// Start begins serving launcher requests
func (c *Child) Start() {
	c.peer.Start()
}

// Done is closed when the launcher connection ends
func (c *Child) Done() <-chan struct{} {
	return c.peer.Done()
}

// Ready reports that the entry finished loading, or failed with loadErr
func (c *Child) Ready(loadErr error) error {
	var p ReadyParams
	if loadErr != nil {
		p.Error = loadErr.Error()
	}
	return c.peer.Notify(NotifyReady, p)
}

// RequestClose reports a user close request
func (c *Child) RequestClose() error {
	return c.peer.Notify(NotifyCloseRequested, nil)
}

// Call invokes a launcher capability on behalf of the plugin
func (c *Child) Call(ctx context.Context, name string, args []json.RawMessage) (plugin.Result, error) {
	var res plugin.Result
	if args == nil {
		args = []json.RawMessage{}
	}
	err := c.peer.Call(ctx, MethodBridgeCall, CallParams{Name: name, Args: args}, &res)
	return res, err
}
