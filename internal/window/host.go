package window

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ilikebug/oTools/internal/constants"
	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/plugin"
	"github.com/ilikebug/oTools/internal/rpc"
)

// ProcessHost opens every plugin window in its own otools-window process
type ProcessHost struct {
	binary string
	args   []string
	env    []string
	grace  time.Duration
}

// NewProcessHost creates a host that launches binary for each window
func NewProcessHost(binary string) *ProcessHost {
	return &ProcessHost{
		binary: binary,
		grace:  constants.WindowStopGrace,
	}
}

// minimalEnv keeps window processes away from shell and IDE variables
func minimalEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + os.Getenv("HOME"),
		"USER=" + os.Getenv("USER"),
		"TERM=dumb",
	}
	if lang := os.Getenv("LANG"); lang != "" {
		env = append(env, "LANG="+lang)
	} else {
		env = append(env, "LANG=en_US.UTF-8")
	}
	if lcAll := os.Getenv("LC_ALL"); lcAll != "" {
		env = append(env, "LC_ALL="+lcAll)
	}
	// Linux webviews need the display server
	for _, key := range []string{"DISPLAY", "WAYLAND_DISPLAY", "XDG_RUNTIME_DIR"} {
		if v := os.Getenv(key); v != "" {
			env = append(env, key+"="+v)
		}
	}
	return env
}

// Open starts the window process and waits until its entry has loaded
func (h *ProcessHost) Open(ctx context.Context, spec plugin.WindowSpec) (plugin.Window, error) {
	args := append(append([]string{}, h.args...), OptionsFromSpec(spec).Args()...)
	cmd := exec.Command(h.binary, args...)
	cmd.Env = append(minimalEnv(), h.env...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	w := &processWindow{
		plugin: spec.Plugin,
		cmd:    cmd,
		stdin:  stdin,
		events: spec.Events,
		grace:  h.grace,
		ready:  make(chan ReadyParams, 1),
		exited: make(chan struct{}),
	}
	w.peer = rpc.NewPeer(spec.Plugin, stdout, stdin)
	w.register()

	// Readers must run before the process starts or a full pipe blocks the child
	go logStderr(spec.Plugin, stderr)
	w.peer.Start()

	if err := cmd.Start(); err != nil {
		stdin.Close()
		w.peer.Close()
		return nil, fmt.Errorf("failed to start window process: %w", err)
	}
	logger.Log.Debug().
		Str("plugin", spec.Plugin).
		Int("pid", cmd.Process.Pid).
		Msg("Window process started")

	go w.wait()

	select {
	case r := <-w.ready:
		if r.Error != "" {
			w.kill()
			return nil, fmt.Errorf("failed to load %s: %s", spec.Entry, r.Error)
		}
	case <-w.exited:
		return nil, fmt.Errorf("window process for %s exited before loading", spec.Plugin)
	case <-ctx.Done():
		w.kill()
		return nil, ctx.Err()
	}

	w.opened.Store(true)
	if w.closePending.Swap(false) {
		w.requestClose()
	}
	return w, nil
}

func logStderr(name string, stderr io.Reader) {
	reader := bufio.NewReader(stderr)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSuffix(line, "\n"); line != "" {
			logger.Log.Debug().
				Str("plugin", name).
				Str("stderr", line).
				Msg("Window stderr")
		}
		if err != nil {
			return
		}
	}
}

// processWindow is a plugin.Window backed by a window process
type processWindow struct {
	plugin string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	peer   *rpc.Peer
	events plugin.WindowEvents
	grace  time.Duration

	ready     chan ReadyParams
	exited    chan struct{}
	opened    atomic.Bool
	closing   atomic.Bool
	closeOnce sync.Once

	// closePending holds a close request that arrived while loading
	closePending atomic.Bool
}

func (w *processWindow) register() {
	w.peer.OnNotify(NotifyReady, func(params json.RawMessage) {
		var r ReadyParams
		if len(params) > 0 {
			if err := json.Unmarshal(params, &r); err != nil {
				r.Error = fmt.Sprintf("invalid ready payload: %v", err)
			}
		}
		select {
		case w.ready <- r:
		default:
		}
	})

	w.peer.OnNotify(NotifyCloseRequested, func(json.RawMessage) {
		if w.opened.Load() {
			w.requestClose()
			return
		}
		// Replayed by Open once ready; whichever side swaps it out fires it
		w.closePending.Store(true)
		if w.opened.Load() && w.closePending.Swap(false) {
			w.requestClose()
		}
	})

	w.peer.Handle(MethodBridgeCall, func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		var p CallParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, rpc.NewError(rpc.CodeInvalidParams, "invalid bridge call: %v", err)
		}
		if w.events.Call == nil {
			return plugin.Failf(plugin.CodeFunctionNotFound, "Function %s not found", p.Name), nil
		}
		return w.events.Call(ctx, p.Name, p.Args), nil
	})
}

func (w *processWindow) requestClose() {
	if w.closing.Load() || w.events.CloseRequested == nil {
		return
	}
	go w.events.CloseRequested()
}

// wait reaps the process once its output stream has drained
func (w *processWindow) wait() {
	<-w.peer.Done()
	err := w.cmd.Wait()
	if err != nil && !w.closing.Load() {
		logger.Log.Debug().Err(err).Str("plugin", w.plugin).Msg("Window process exited")
	} else {
		logger.Log.Debug().Str("plugin", w.plugin).Msg("Window process exited successfully")
	}
	close(w.exited)

	if w.opened.Load() && w.events.Closed != nil {
		w.events.Closed()
	}
}

func (w *processWindow) kill() {
	if w.cmd.Process != nil {
		_ = w.cmd.Process.Kill()
	}
}

func (w *processWindow) isExited() bool {
	select {
	case <-w.exited:
		return true
	default:
		return false
	}
}

func (w *processWindow) call(method string, params, out interface{}) error {
	if w.isExited() {
		return plugin.ErrWindowClosed
	}
	ctx, cancel := context.WithTimeout(context.Background(), constants.WindowCallTimeout)
	defer cancel()

	err := w.peer.Call(ctx, method, params, out)
	if errors.Is(err, rpc.ErrClosed) {
		return plugin.ErrWindowClosed
	}
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (w *processWindow) Show() error  { return w.call(MethodShow, nil, nil) }
func (w *processWindow) Hide() error  { return w.call(MethodHide, nil, nil) }
func (w *processWindow) Focus() error { return w.call(MethodFocus, nil, nil) }

func (w *processWindow) Minimise() error       { return w.call(MethodMinimise, nil, nil) }
func (w *processWindow) ToggleMaximise() error { return w.call(MethodToggleMaximise, nil, nil) }

func (w *processWindow) SetAlwaysOnTop(level plugin.TopLevel) error {
	return w.call(MethodSetAlwaysOnTop, LevelParams{Level: level}, nil)
}

func (w *processWindow) SetPosition(p plugin.Point) error {
	return w.call(MethodSetPosition, p, nil)
}

func (w *processWindow) Bounds() (plugin.Rect, error) {
	var r plugin.Rect
	err := w.call(MethodBounds, nil, &r)
	return r, err
}

func (w *processWindow) Send(event string, payload interface{}) error {
	if w.isExited() {
		return plugin.ErrWindowClosed
	}
	err := w.peer.Notify(NotifyEvent, EventParams{Event: event, Payload: payload})
	if errors.Is(err, rpc.ErrClosed) {
		return plugin.ErrWindowClosed
	}
	return err
}

// Close asks the window process to exit and kills it after the grace period
func (w *processWindow) Close() error {
	w.closeOnce.Do(func() {
		w.closing.Store(true)
		if w.isExited() {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), w.grace)
		if err := w.peer.Call(ctx, MethodClose, nil, nil); err != nil {
			logger.Log.Debug().Err(err).Str("plugin", w.plugin).Msg("Window close request failed")
		}
		cancel()
		w.stdin.Close()

		select {
		case <-w.exited:
			return
		case <-time.After(w.grace):
		}

		logger.Log.Warn().Str("plugin", w.plugin).Msg("Window process did not exit, killing")
		w.kill()
		select {
		case <-w.exited:
		case <-time.After(w.grace):
			logger.Log.Error().Str("plugin", w.plugin).Msg("Window process still running after kill")
		}
	})
	return nil
}
