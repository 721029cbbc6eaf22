package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ilikebug/oTools/internal/bridge"
	"github.com/ilikebug/oTools/internal/config"
	"github.com/ilikebug/oTools/internal/constants"
	"github.com/ilikebug/oTools/internal/desktop"
	"github.com/ilikebug/oTools/internal/events"
	"github.com/ilikebug/oTools/internal/hotkey"
	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/market"
	"github.com/ilikebug/oTools/internal/plugin"
	"github.com/ilikebug/oTools/internal/security"
	"github.com/ilikebug/oTools/internal/storage"
	"github.com/ilikebug/oTools/internal/window"
)

// Frontend event names
const (
	frontendPluginsChanged = "plugins-changed"
	frontendPluginStatus   = "plugin-status"
	frontendShortcuts      = "shortcuts-changed"
)

// App struct
type App struct {
	ctx       context.Context
	paths     config.Paths
	config    *config.Manager
	storage   *storage.Storage
	eventBus  *events.EventBus
	plugins   *plugin.Manager
	pool      *trackedPool
	watcher   *plugin.Watcher
	desktop   *desktop.Desktop
	keychain  *security.Keychain
	market    *market.Client
	hotkeys   *hotkey.Manager
	shortcuts *menuRegistrar
	started   time.Time
	visible   bool
	mu        sync.RWMutex

	watchCtx     context.Context
	watchCancel  context.CancelFunc
	watchWg      sync.WaitGroup
	shutdownOnce sync.Once
}

// NewApp creates a new App application struct
func NewApp() (*App, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, err
	}
	if err := paths.Ensure(); err != nil {
		return nil, err
	}

	// Create event bus
	eventBus := events.NewEventBus()

	cfgMgr := config.NewManager(paths.MainFile(), eventBus)
	if err := cfgMgr.Load(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := cfgMgr.Current()

	if err := logger.Configure(logger.Options{
		Level:         cfg.Logger.Level,
		EnableFile:    cfg.Logger.EnableFile,
		LogFile:       cfg.Logger.LogFile,
		Dir:           paths.Logs,
		EnableConsole: cfg.Logger.EnableConsole || cfg.App.Debug,
	}); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to configure file logging")
	}

	// Create storage
	stor, err := storage.NewStorage(filepath.Join(paths.Data, "otools.db"), 100, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	app := &App{
		paths:    paths,
		config:   cfgMgr,
		storage:  stor,
		eventBus: eventBus,
		desktop:  desktop.New(""),
		keychain: security.NewKeychain(),
		started:  time.Now(),
	}

	app.plugins = plugin.NewManager(plugin.Options{
		DefaultRoot:   paths.Plugins,
		Roots:         cfgMgr,
		MaxProcesses:  cfg.Plugins.MaxProcesses,
		CreateTimeout: cfg.Plugins.CreateTimeout(),
		Debug:         cfg.Plugins.Debug,
		Host:          window.NewProcessHost(windowBinary()),
		Screen:        &wailsScreen{app: app},
		EventBus:      eventBus,
	})
	app.pool = &trackedPool{Manager: app.plugins, runs: stor}

	app.plugins.SetBridge(bridge.New(bridge.Deps{
		Pool:    app.pool,
		Config:  cfgMgr,
		Store:   stor,
		Desktop: app.desktop,
		Dialogs: &wailsDialogs{app: app},
		Screen:  &wailsScreen{app: app},
		App:     app,
	}))

	app.watcher, err = plugin.NewWatcher(app.plugins, constants.WatchDebounceDelay)
	if err != nil {
		stor.Close()
		return nil, err
	}

	app.market = market.New(market.Options{
		Repo:   cfg.PluginMarket.Repo,
		Tokens: app.keychain,
	})

	app.shortcuts = newMenuRegistrar()
	app.hotkeys = hotkey.NewManager(app.shortcuts, app.onShortcut)

	eventBus.Subscribe(events.EventPluginsChanged, app)
	eventBus.Subscribe(events.EventPluginStarted, app)
	eventBus.Subscribe(events.EventPluginStopped, app)
	eventBus.Subscribe(events.EventPluginHidden, app)
	eventBus.Subscribe(events.EventConfigChanged, app)

	return app, nil
}

// windowBinary locates the plugin window executable, preferring the one
// installed next to the launcher
func windowBinary() string {
	if p := os.Getenv("OTOOLS_WINDOW_BINARY"); p != "" {
		return p
	}
	name := "otools-window"
	if goruntime.GOOS == "windows" {
		name += ".exe"
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	return name
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.visible = true
	a.mu.Unlock()
	a.watchCtx, a.watchCancel = context.WithCancel(context.Background())
	logger.Log.Info().Str("root", a.paths.Root).Msg("App startup function called")

	if err := a.plugins.Reload(ctx, ""); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load plugins")
	}
	if err := a.watcher.Start(); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to start plugin watcher")
	}

	a.watchWg.Add(1)
	go func() {
		defer a.watchWg.Done()
		if err := a.config.Watch(a.watchCtx); err != nil {
			logger.Log.Error().Err(err).Msg("Config watcher stopped")
		}
	}()

	if a.config.Current().Plugins.AutoLoad {
		a.watchWg.Add(1)
		go func() {
			defer a.watchWg.Done()
			defer func() {
				if r := recover(); r != nil {
					logger.Log.Error().Interface("panic", r).Msg("PANIC in auto-start goroutine")
				}
			}()
			a.plugins.AutoStartDependents(a.watchCtx)
		}()
	}
}

// shutdown is called when the app shuts down
func (a *App) shutdown(ctx context.Context) {
	a.shutdownOnce.Do(a.close)
}

func (a *App) close() {
	logger.Log.Info().Msg("App shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if a.watchCancel != nil {
		a.watchCancel()
	}
	if err := a.watcher.Stop(); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to stop plugin watcher")
	}

	// Close plugin windows (with timeout)
	pluginsDone := make(chan struct{})
	go func() {
		a.plugins.StopAll()
		a.watchWg.Wait()
		close(pluginsDone)
	}()
	select {
	case <-pluginsDone:
	case <-shutdownCtx.Done():
		logger.Log.Warn().Msg("Timeout stopping plugin windows, continuing shutdown")
	}

	if err := a.storage.Close(); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to close storage")
	}

	logger.Log.Info().Msg("App shutdown complete")
	logger.Close()
}

func (a *App) runtimeCtx() context.Context {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ctx
}

// OnEvent implements the events.Subscriber interface to forward events to frontend
func (a *App) OnEvent(event events.Event) {
	switch event.Type {
	case events.EventPluginsChanged:
		plugins, _ := event.Data["plugins"].([]plugin.Summary)
		a.applyShortcuts(plugins)
		a.emit(frontendPluginsChanged, plugins)
	case events.EventPluginStarted, events.EventPluginStopped, events.EventPluginHidden:
		a.emit(frontendPluginStatus, map[string]interface{}{
			"plugin": event.Data["plugin"],
			"event":  event.Type,
		})
	case events.EventConfigChanged:
		path, _ := event.Data["path"].(string)
		a.applyConfig(path)
	}
}

func (a *App) emit(name string, data interface{}) {
	ctx := a.runtimeCtx()
	if ctx == nil {
		logger.Log.Debug().Str("event", name).Msg("Context not yet initialized, skipping event")
		return
	}
	runtime.EventsEmit(ctx, name, data)
}

// applyConfig pushes configuration edits into the running components
func (a *App) applyConfig(path string) {
	cfg := a.config.Current()

	if err := a.plugins.SetMaxProcesses(cfg.Plugins.MaxProcesses); err != nil {
		logger.Log.Warn().Err(err).Msg("Ignoring invalid maxProcesses")
	}
	if level, err := zerolog.ParseLevel(cfg.Logger.Level); err == nil && cfg.Logger.Level != "" {
		logger.SetLevel(level)
	}

	rootsChanged := path == "" || path == "plugins" || strings.HasPrefix(path, "plugins.customDirs")
	if rootsChanged {
		ctx := a.watchCtx
		if ctx == nil {
			ctx = context.Background()
		}
		if err := a.plugins.Reload(ctx, ""); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to reload plugins after config change")
		}
		a.watcher.Sync()
		// Reload already re-applied the shortcuts
		return
	}
	a.applyShortcuts(a.plugins.List())
}

func (a *App) applyShortcuts(plugins []plugin.Summary) {
	errs := a.hotkeys.Apply(hotkey.Collect(a.config.Current(), plugins))
	if ctx := a.runtimeCtx(); ctx != nil {
		runtime.MenuUpdateApplicationMenu(ctx)
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	a.emit(frontendShortcuts, map[string]interface{}{
		"bindings": a.hotkeys.Bindings(),
		"errors":   msgs,
	})
}

func (a *App) onShortcut(b hotkey.Binding) {
	if b.Plugin == "" {
		a.ToggleLauncher()
		return
	}
	go func() {
		res := a.pool.Execute(context.Background(), b.Plugin, b.Action)
		if !res.Success {
			logger.Log.Warn().Str("plugin", b.Plugin).Str("error", res.Message).Msg("Shortcut execution failed")
		}
	}()
}

// AppStatus implements bridge.AppInfo
func (a *App) AppStatus() bridge.AppStatus {
	return bridge.AppStatus{
		Status:         "running",
		Uptime:         int64(time.Since(a.started) / time.Second),
		RunningPlugins: a.plugins.ActiveCount(),
		Version:        config.Version,
	}
}

// ToggleLauncher shows or hides the launcher window
func (a *App) ToggleLauncher() {
	ctx := a.runtimeCtx()
	if ctx == nil {
		return
	}
	a.mu.Lock()
	a.visible = !a.visible
	visible := a.visible
	a.mu.Unlock()

	if visible {
		runtime.WindowShow(ctx)
		runtime.WindowCenter(ctx)
	} else {
		runtime.WindowHide(ctx)
	}
}

// HideLauncher hides the launcher window
func (a *App) HideLauncher() {
	ctx := a.runtimeCtx()
	if ctx == nil {
		return
	}
	a.mu.Lock()
	a.visible = false
	a.mu.Unlock()
	runtime.WindowHide(ctx)
}

// GetPlugins returns the registered plugins
func (a *App) GetPlugins() []plugin.Summary {
	return a.plugins.List()
}

// ExecutePlugin runs an action of a plugin, creating its window if needed
func (a *App) ExecutePlugin(name, action string, args []interface{}) plugin.Result {
	if action == "" {
		action = "default"
	}
	return a.pool.Execute(a.runtimeCtx(), name, action, args...)
}

// TogglePlugin shows or hides a plugin window
func (a *App) TogglePlugin(name string) plugin.Result {
	return a.pool.Toggle(a.runtimeCtx(), name)
}

// ShowPlugin shows a live plugin window
func (a *App) ShowPlugin(name string) bool {
	return a.pool.Show(name)
}

// HidePlugin hides a live plugin window
func (a *App) HidePlugin(name string) bool {
	return a.pool.Hide(name)
}

// StopPlugin destroys a plugin window
func (a *App) StopPlugin(name string) plugin.Result {
	if err := a.plugins.Stop(name); err != nil {
		return plugin.Fail(err)
	}
	return plugin.OK(fmt.Sprintf("Plugin %s stopped", name), nil)
}

// GetPluginStatus returns the window status of a plugin
func (a *App) GetPluginStatus(name string) plugin.WindowStatus {
	return a.pool.Status(name)
}

// UninstallPlugin removes a plugin
func (a *App) UninstallPlugin(name string, removeFiles bool) plugin.Result {
	return a.pool.Uninstall(name, removeFiles)
}

// SetPluginConfig edits a plugin manifest
func (a *App) SetPluginConfig(name string, patch map[string]interface{}) plugin.Result {
	return a.pool.SetConfig(name, patch)
}

// ReloadPlugins rescans every plugin root
func (a *App) ReloadPlugins() plugin.Result {
	if err := a.plugins.Reload(a.runtimeCtx(), ""); err != nil {
		return plugin.Fail(err)
	}
	return plugin.OK("Plugins reloaded", nil)
}

// GetPluginDirs returns the scanned plugin roots
func (a *App) GetPluginDirs() []string {
	return a.plugins.Roots()
}

// AddPluginDir picks a directory and adds it as a custom plugin root
func (a *App) AddPluginDir() plugin.Result {
	dir, err := runtime.OpenDirectoryDialog(a.runtimeCtx(), runtime.OpenDialogOptions{
		Title: "Add plugin directory",
	})
	if err != nil {
		return plugin.Fail(err)
	}
	if dir == "" {
		return plugin.Failf(plugin.CodeInvalidArgument, "No directory selected")
	}
	if err := a.config.AddPluginDir(dir); err != nil {
		return plugin.Fail(err)
	}
	return plugin.OK("Plugin directory added", map[string]interface{}{"dir": dir})
}

// RemovePluginDir drops a custom plugin root
func (a *App) RemovePluginDir(dir string) plugin.Result {
	if err := a.config.RemovePluginDir(dir); err != nil {
		return plugin.Fail(err)
	}
	return plugin.OK("Plugin directory removed", nil)
}

// GetConfig returns the configuration at a dotted path
func (a *App) GetConfig(path string) interface{} {
	v, _ := a.config.Get(path)
	return v
}

// SetConfig writes the configuration at a dotted path
func (a *App) SetConfig(path string, value interface{}) plugin.Result {
	if err := a.config.Set(path, value); err != nil {
		return plugin.Failf(plugin.CodeInvalidArgument, "%v", err)
	}
	return plugin.OK("Configuration saved", nil)
}

// GetAppStatus returns the launcher status
func (a *App) GetAppStatus() bridge.AppStatus {
	return a.AppStatus()
}

// GetShortcuts returns the registered shortcuts
func (a *App) GetShortcuts() []hotkey.Binding {
	return a.hotkeys.Bindings()
}

// GetMarketPlugins lists the plugins offered by the market
func (a *App) GetMarketPlugins() ([]market.Listing, error) {
	return a.market.Catalog(a.runtimeCtx())
}

// DownloadPlugin installs a market plugin into the default root
func (a *App) DownloadPlugin(folder string) plugin.Result {
	dest, err := a.market.Install(a.runtimeCtx(), folder, a.plugins)
	if err != nil {
		logger.Log.Error().Err(err).Str("folder", folder).Msg("Plugin download failed")
		return plugin.Failf(plugin.CodeIO, "%v", err)
	}
	if err := a.desktop.Notify("oTools", folder+" download success"); err != nil {
		logger.Log.Debug().Err(err).Msg("Failed to show notification")
	}
	return plugin.OK("Plugin downloaded and installed successfully", map[string]interface{}{
		"folder": folder,
		"dir":    dest,
	})
}

// SetMarketToken stores the market API token in the OS keychain. An empty
// token removes it.
func (a *App) SetMarketToken(token string) plugin.Result {
	if err := a.keychain.StoreSecret(security.MarketTokenAccount, token); err != nil {
		return plugin.Fail(err)
	}
	return plugin.OK("Market token saved", nil)
}

// GetRecentRuns returns the latest plugin executions
func (a *App) GetRecentRuns(limit int) ([]storage.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	a.storage.Flush()
	return a.storage.RecentRuns(limit)
}

// GetUsage returns per-plugin execution counts
func (a *App) GetUsage() ([]storage.Usage, error) {
	a.storage.Flush()
	return a.storage.UsageCounts()
}
