package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ilikebug/oTools/internal/logger"
)

// fullReload is the debounce key of a registry-wide rebuild
const fullReload = "\x00full"

// Reloader is what the watcher drives
type Reloader interface {
	Roots() []string
	PluginNameForDir(dir string) string
	Reload(ctx context.Context, scope string) error
}

// Watcher turns filesystem changes under the plugin roots into reloads.
// Roots are watched two levels deep: root, plugin directory, file.
type Watcher struct {
	fs        *fsnotify.Watcher
	reloader  Reloader
	debouncer *Debouncer

	roots   map[string]bool
	watched map[string]bool
	mu      sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher that debounces bursts per plugin for delay
func NewWatcher(reloader Reloader, delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fs:       fsw,
		reloader: reloader,
		roots:    make(map[string]bool),
		watched:  make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
	w.debouncer = NewDebouncer(delay, w.flush)
	return w, nil
}

// Start watches the reloader's current roots and begins the event loop
func (w *Watcher) Start() error {
	w.Sync()

	w.wg.Add(1)
	go w.loop(w.fs.Events, w.fs.Errors)

	logger.Log.Info().Strs("roots", w.reloader.Roots()).Msg("Plugin watcher started")
	return nil
}

// Sync reconciles the watch list with the reloader's roots
func (w *Watcher) Sync() {
	roots := w.reloader.Roots()

	w.mu.Lock()
	defer w.mu.Unlock()

	next := make(map[string]bool, len(roots))
	for _, root := range roots {
		next[filepath.Clean(root)] = true
	}

	for dir := range w.watched {
		if !next[dir] && !next[filepath.Dir(dir)] {
			w.unwatchLocked(dir)
		}
	}
	w.roots = next

	for root := range next {
		if err := os.MkdirAll(root, 0755); err != nil {
			logger.Log.Warn().Err(err).Str("root", root).Msg("Failed to create plugin root")
			continue
		}
		w.watchLocked(root)

		entries, err := os.ReadDir(root)
		if err != nil {
			logger.Log.Warn().Err(err).Str("root", root).Msg("Failed to read plugin root")
			continue
		}
		for _, entry := range entries {
			if hidden(entry.Name()) {
				continue
			}
			dir := filepath.Join(root, entry.Name())
			if isDir(entry, dir) {
				w.watchLocked(dir)
			}
		}
	}
}

func (w *Watcher) watchLocked(dir string) {
	if w.watched[dir] {
		return
	}
	if err := w.fs.Add(dir); err != nil {
		logger.Log.Warn().Err(err).Str("dir", dir).Msg("Failed to watch directory")
		return
	}
	w.watched[dir] = true
}

func (w *Watcher) unwatchLocked(dir string) {
	if !w.watched[dir] {
		return
	}
	// The directory may already be gone, in which case fsnotify dropped it
	_ = w.fs.Remove(dir)
	delete(w.watched, dir)
}

// Stop ends the event loop and cancels pending reloads
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fs.Close()
	w.wg.Wait()
	w.debouncer.Stop()
	logger.Log.Info().Msg("Plugin watcher stopped")
	return err
}

// loop runs until ctx is cancelled or either channel closes. Watch errors
// are logged and the loop carries on.
func (w *Watcher) loop(events <-chan fsnotify.Event, errs <-chan error) {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Log.Error().Err(err).Msg("Plugin watcher error")
		}
	}
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// locate returns the watched root containing path and the depth below it
func (w *Watcher) locate(path string) (string, int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return root, len(strings.Split(rel, string(filepath.Separator)))
	}
	return "", 0
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if hidden(filepath.Base(path)) || event.Op == fsnotify.Chmod {
		return
	}

	root, depth := w.locate(path)
	if root == "" || depth > 2 {
		return
	}

	created := event.Op&fsnotify.Create != 0
	removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0

	w.mu.Lock()
	wasDir := w.watched[path]
	w.mu.Unlock()

	isDirNow := false
	if created {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			isDirNow = true
		}
	}

	switch {
	case isDirNow:
		if depth == 1 {
			w.mu.Lock()
			w.watchLocked(path)
			w.mu.Unlock()
		}
		logger.Log.Debug().Str("dir", path).Msg("Plugin directory added")
		w.debouncer.Trigger(fullReload)

	case removed && wasDir:
		w.mu.Lock()
		w.unwatchLocked(path)
		w.mu.Unlock()
		logger.Log.Debug().Str("dir", path).Msg("Plugin directory removed")
		w.debouncer.Trigger(fullReload)

	case depth == 2:
		name := w.reloader.PluginNameForDir(filepath.Dir(path))
		logger.Log.Debug().Str("plugin", name).Str("file", path).Str("op", event.Op.String()).Msg("Plugin file changed")
		w.debouncer.Trigger(name)

	default:
		// A file directly under a root; the root may itself be a plugin
		if HasManifest(root) {
			w.debouncer.Trigger(w.reloader.PluginNameForDir(root))
			return
		}
		w.debouncer.Trigger(fullReload)
	}
}

func (w *Watcher) flush(key string) {
	scope := key
	if key == fullReload {
		scope = ""
	}

	if err := w.reloader.Reload(w.ctx, scope); err != nil {
		logger.Log.Error().Err(err).Str("plugin", scope).Msg("Plugin reload failed")
	}
	if scope == "" {
		// New or removed directories change what needs watching
		w.Sync()
	}
}
