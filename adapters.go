package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ilikebug/oTools/internal/bridge"
	"github.com/ilikebug/oTools/internal/hotkey"
	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/plugin"
	"github.com/ilikebug/oTools/internal/storage"
)

var errNoRuntime = errors.New("launcher window not started")

// runRecorder is the part of storage the pool reports executions to
type runRecorder interface {
	RecordRun(run storage.Run) error
	DeleteNamespace(namespace string) error
}

// trackedPool records plugin executions and clears plugin data on uninstall
type trackedPool struct {
	*plugin.Manager
	runs runRecorder
}

func (t *trackedPool) Execute(ctx context.Context, name, action string, args ...interface{}) plugin.Result {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	res := t.Manager.Execute(ctx, name, action, args...)

	err := t.runs.RecordRun(storage.Run{
		Plugin:     name,
		Action:     action,
		Success:    res.Success,
		Message:    res.Message,
		DurationMs: time.Since(start).Milliseconds(),
	})
	if err != nil {
		logger.Log.Warn().Err(err).Str("plugin", name).Msg("Failed to record plugin run")
	}
	return res
}

func (t *trackedPool) Toggle(ctx context.Context, name string) plugin.Result {
	if ctx == nil {
		ctx = context.Background()
	}
	return t.Manager.Toggle(ctx, name)
}

func (t *trackedPool) Uninstall(name string, removeFiles bool) plugin.Result {
	res := t.Manager.Uninstall(name, removeFiles)
	if res.Success && removeFiles {
		if err := t.runs.DeleteNamespace(name); err != nil {
			logger.Log.Warn().Err(err).Str("plugin", name).Msg("Failed to delete plugin data")
		}
	}
	return res
}

// cursorSource reports the pointer position
type cursorSource interface {
	CursorPosition(ctx context.Context) (int, int, error)
}

// wailsScreen implements plugin.Screen over the launcher runtime. Wails
// reports monitor sizes but not their offsets, so monitors are laid out
// left to right starting with the primary one.
type wailsScreen struct {
	app *App
}

func (s *wailsScreen) Displays() ([]plugin.Display, error) {
	ctx := s.app.runtimeCtx()
	if ctx == nil {
		return nil, errNoRuntime
	}
	screens, err := runtime.ScreenGetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list screens: %w", err)
	}
	return layoutScreens(screens), nil
}

func layoutScreens(screens []runtime.Screen) []plugin.Display {
	ordered := make([]runtime.Screen, 0, len(screens))
	for _, sc := range screens {
		if sc.IsPrimary {
			ordered = append(ordered, sc)
		}
	}
	for _, sc := range screens {
		if !sc.IsPrimary {
			ordered = append(ordered, sc)
		}
	}

	displays := make([]plugin.Display, 0, len(ordered))
	x := 0
	for i, sc := range ordered {
		r := plugin.Rect{X: x, Y: 0, Width: sc.Size.Width, Height: sc.Size.Height}
		displays = append(displays, plugin.Display{
			ID:       fmt.Sprintf("screen-%d", i),
			Bounds:   r,
			WorkArea: r,
			Primary:  sc.IsPrimary,
		})
		x += sc.Size.Width
	}
	return displays
}

func (s *wailsScreen) Cursor() (plugin.Point, error) {
	var src cursorSource = s.app.desktop
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	x, y, err := src.CursorPosition(ctx)
	if err == nil {
		return plugin.Point{X: x, Y: y}, nil
	}

	// Fall back to the middle of the screen showing the launcher
	displays, derr := s.Displays()
	if derr != nil || len(displays) == 0 {
		return plugin.Point{}, err
	}
	return displays[0].Bounds.Center(), nil
}

// wailsDialogs implements bridge.Dialogs with native runtime dialogs
type wailsDialogs struct {
	app *App
}

func dialogFilters(filters []bridge.FileFilter) []runtime.FileFilter {
	out := make([]runtime.FileFilter, 0, len(filters))
	for _, f := range filters {
		out = append(out, runtime.FileFilter{DisplayName: f.Name, Pattern: f.Pattern})
	}
	return out
}

func (d *wailsDialogs) OpenFile(_ context.Context, opts bridge.DialogOptions) ([]string, error) {
	ctx := d.app.runtimeCtx()
	if ctx == nil {
		return nil, errNoRuntime
	}
	dialog := runtime.OpenDialogOptions{
		Title:            opts.Title,
		DefaultDirectory: opts.DefaultPath,
		DefaultFilename:  opts.DefaultName,
		Filters:          dialogFilters(opts.Filters),
	}

	switch {
	case opts.Directory:
		dir, err := runtime.OpenDirectoryDialog(ctx, dialog)
		if err != nil || dir == "" {
			return nil, err
		}
		return []string{dir}, nil
	case opts.Multiple:
		return runtime.OpenMultipleFilesDialog(ctx, dialog)
	default:
		file, err := runtime.OpenFileDialog(ctx, dialog)
		if err != nil || file == "" {
			return nil, err
		}
		return []string{file}, nil
	}
}

func (d *wailsDialogs) SaveFile(_ context.Context, opts bridge.DialogOptions) (string, error) {
	ctx := d.app.runtimeCtx()
	if ctx == nil {
		return "", errNoRuntime
	}
	return runtime.SaveFileDialog(ctx, runtime.SaveDialogOptions{
		Title:            opts.Title,
		DefaultDirectory: opts.DefaultPath,
		DefaultFilename:  opts.DefaultName,
		Filters:          dialogFilters(opts.Filters),
	})
}

// menuRegistrar registers shortcuts as accelerators of a "Shortcuts"
// application menu
type menuRegistrar struct {
	menu *menu.Menu
	mu   sync.Mutex
}

func newMenuRegistrar() *menuRegistrar {
	return &menuRegistrar{menu: menu.NewMenu()}
}

func shortcutLabel(b hotkey.Binding) string {
	if b.Plugin == "" {
		return "Toggle oTools"
	}
	if b.Action != "" && b.Action != "default" {
		return fmt.Sprintf("%s: %s", b.Plugin, strings.TrimSpace(b.Action))
	}
	return b.Plugin
}

func (r *menuRegistrar) Register(accel *keys.Accelerator, b hotkey.Binding, fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menu.AddText(shortcutLabel(b), accel, func(_ *menu.CallbackData) {
		fn()
	})
	return nil
}

func (r *menuRegistrar) UnregisterAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menu.Items = nil
}
