package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	spec   WindowSpec
	bounds Rect
	calls  []string
	sent   []ExecutePayload
	levels []TopLevel
	closed bool
	mu     sync.Mutex
}

func (w *fakeWindow) record(call string) {
	w.mu.Lock()
	w.calls = append(w.calls, call)
	w.mu.Unlock()
}

func (w *fakeWindow) Show() error  { w.record("show"); return nil }
func (w *fakeWindow) Hide() error  { w.record("hide"); return nil }
func (w *fakeWindow) Focus() error { w.record("focus"); return nil }

func (w *fakeWindow) SetAlwaysOnTop(level TopLevel) error {
	w.mu.Lock()
	w.levels = append(w.levels, level)
	w.mu.Unlock()
	return nil
}

func (w *fakeWindow) Bounds() (Rect, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bounds, nil
}

func (w *fakeWindow) SetPosition(p Point) error {
	w.mu.Lock()
	w.bounds.X, w.bounds.Y = p.X, p.Y
	w.calls = append(w.calls, "move")
	w.mu.Unlock()
	return nil
}

func (w *fakeWindow) Minimise() error       { w.record("minimise"); return nil }
func (w *fakeWindow) ToggleMaximise() error { w.record("maximise"); return nil }

func (w *fakeWindow) Send(event string, payload interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, "send:"+event)
	if p, ok := payload.(ExecutePayload); ok {
		w.sent = append(w.sent, p)
	}
	return nil
}

func (w *fakeWindow) Close() error {
	w.mu.Lock()
	already := w.closed
	w.closed = true
	w.calls = append(w.calls, "close")
	w.mu.Unlock()
	if !already && w.spec.Events.Closed != nil {
		go w.spec.Events.Closed()
	}
	return nil
}

func (w *fakeWindow) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

func (w *fakeWindow) IsClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

type fakeHost struct {
	// block makes Open wait for ctx cancellation
	block   atomic.Bool
	err     error
	windows map[string][]*fakeWindow
	mu      sync.Mutex
}

func newFakeHost() *fakeHost {
	return &fakeHost{windows: make(map[string][]*fakeWindow)}
}

func (h *fakeHost) Open(ctx context.Context, spec WindowSpec) (Window, error) {
	if h.block.Load() {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if h.err != nil {
		return nil, h.err
	}
	w := &fakeWindow{spec: spec, bounds: Rect{Width: spec.Width, Height: spec.Height}}
	h.mu.Lock()
	h.windows[spec.Plugin] = append(h.windows[spec.Plugin], w)
	h.mu.Unlock()
	return w, nil
}

func (h *fakeHost) opened(name string) []*fakeWindow {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*fakeWindow(nil), h.windows[name]...)
}

func (h *fakeHost) last(t *testing.T, name string) *fakeWindow {
	t.Helper()
	ws := h.opened(name)
	require.NotEmpty(t, ws, "no window opened for %s", name)
	return ws[len(ws)-1]
}

type fakeScreen struct {
	cursor   Point
	displays []Display
}

func (s *fakeScreen) Cursor() (Point, error)       { return s.cursor, nil }
func (s *fakeScreen) Displays() ([]Display, error) { return s.displays, nil }

type fakeRoots struct {
	dirs    []string
	removed []string
	mu      sync.Mutex
}

func (r *fakeRoots) PluginDirs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.dirs...)
}

func (r *fakeRoots) RemovePluginDir(dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, dir)
	kept := r.dirs[:0]
	for _, d := range r.dirs {
		if d != dir {
			kept = append(kept, d)
		}
	}
	r.dirs = kept
	return nil
}

type echoDispatcher struct{}

func (echoDispatcher) Dispatch(_ context.Context, caller, name string, args []json.RawMessage) Result {
	return OK(caller+":"+name, len(args))
}

// writePlugin creates a bundle with index.html and preload.js
func writePlugin(t *testing.T, root, dir, manifest string) string {
	t.Helper()
	path := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "plugin.json"), []byte(manifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "index.html"), []byte("<html></html>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(path, "preload.js"), []byte("// preload"), 0644))
	return path
}
