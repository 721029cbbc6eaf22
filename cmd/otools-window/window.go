package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/plugin"
	"github.com/ilikebug/oTools/internal/window"
)

var errNotStarted = errors.New("window not started")

// quitDelay lets the reply to window.close reach the launcher before the
// event loop stops
const quitDelay = 20 * time.Millisecond

// nativeWindow drives the Wails window of this process
type nativeWindow struct {
	ctx     context.Context
	child   *window.Child
	closing atomic.Bool
	ready   sync.Once
	mu      sync.RWMutex
}

func (n *nativeWindow) runtimeCtx() (context.Context, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.ctx == nil {
		return nil, errNotStarted
	}
	return n.ctx, nil
}

func (n *nativeWindow) with(fn func(ctx context.Context)) error {
	ctx, err := n.runtimeCtx()
	if err != nil {
		return err
	}
	fn(ctx)
	return nil
}

func (n *nativeWindow) startup(ctx context.Context) {
	n.mu.Lock()
	n.ctx = ctx
	n.mu.Unlock()

	go func() {
		<-n.child.Done()
		logger.Log.Debug().Msg("Launcher connection closed, quitting")
		n.closing.Store(true)
		runtime.Quit(ctx)
	}()
}

func (n *nativeWindow) domReady(ctx context.Context) {
	n.ready.Do(func() {
		if err := n.child.Ready(nil); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to report ready")
		}
	})
}

// beforeClose turns user close requests into launcher notifications. The
// window only really closes once the launcher asks for it.
func (n *nativeWindow) beforeClose(ctx context.Context) bool {
	if n.closing.Load() {
		return false
	}
	if err := n.child.RequestClose(); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to forward close request")
		return false
	}
	return true
}

func (n *nativeWindow) Show() error {
	return n.with(func(ctx context.Context) {
		runtime.WindowUnminimise(ctx)
		runtime.WindowShow(ctx)
	})
}

func (n *nativeWindow) Hide() error {
	return n.with(runtime.WindowHide)
}

func (n *nativeWindow) Focus() error {
	return n.with(runtime.WindowShow)
}

func (n *nativeWindow) SetAlwaysOnTop(level plugin.TopLevel) error {
	return n.with(func(ctx context.Context) {
		runtime.WindowSetAlwaysOnTop(ctx, level != plugin.TopLevelNormal)
	})
}

func (n *nativeWindow) SetPosition(p plugin.Point) error {
	return n.with(func(ctx context.Context) {
		runtime.WindowSetPosition(ctx, p.X, p.Y)
	})
}

func (n *nativeWindow) Bounds() (plugin.Rect, error) {
	var r plugin.Rect
	err := n.with(func(ctx context.Context) {
		r.X, r.Y = runtime.WindowGetPosition(ctx)
		r.Width, r.Height = runtime.WindowGetSize(ctx)
	})
	return r, err
}

func (n *nativeWindow) Minimise() error {
	return n.with(runtime.WindowMinimise)
}

func (n *nativeWindow) ToggleMaximise() error {
	return n.with(runtime.WindowToggleMaximise)
}

func (n *nativeWindow) Close() error {
	n.closing.Store(true)
	return n.with(func(ctx context.Context) {
		time.AfterFunc(quitDelay, func() { runtime.Quit(ctx) })
	})
}

func (n *nativeWindow) Deliver(event string, payload json.RawMessage) {
	ctx, err := n.runtimeCtx()
	if err != nil {
		logger.Log.Debug().Str("event", event).Msg("Dropping event before startup")
		return
	}
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	runtime.EventsEmit(ctx, eventName, map[string]interface{}{
		"event":   event,
		"payload": payload,
	})
}

// Bridge is bound into the page as window.go.main.Bridge
type Bridge struct {
	win *nativeWindow
}

// Call forwards a capability call to the launcher
func (b *Bridge) Call(name string, args []json.RawMessage) (plugin.Result, error) {
	ctx, err := b.win.runtimeCtx()
	if err != nil {
		return plugin.Result{}, err
	}
	return b.win.child.Call(ctx, name, args)
}
