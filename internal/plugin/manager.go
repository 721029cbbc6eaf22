package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ilikebug/oTools/internal/constants"
	"github.com/ilikebug/oTools/internal/events"
	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/validation"
)

// RootStore holds the user-added plugin roots
type RootStore interface {
	PluginDirs() []string
	RemovePluginDir(dir string) error
}

// Options configures a Manager
type Options struct {
	// DefaultRoot is scanned first and owns installed plugins
	DefaultRoot string
	// Roots supplies custom roots scanned after the default one
	Roots RootStore
	// MaxProcesses caps live plugin windows
	MaxProcesses int
	// CreateTimeout bounds window creation; zero disables it
	CreateTimeout time.Duration
	// Debug opens developer tools for every plugin window
	Debug    bool
	Host     WindowHost
	Screen   Screen
	EventBus *events.EventBus
}

// WindowStatus is the read-only view of a plugin's window
type WindowStatus struct {
	Exists      bool        `json:"exists"`
	Visible     bool        `json:"visible"`
	Destroyed   bool        `json:"destroyed"`
	StartupMode StartupMode `json:"startupMode"`
	Status      Status      `json:"status,omitempty"`
}

// ExecutePayload is the event delivered to a plugin on execute
type ExecutePayload struct {
	Action string        `json:"action"`
	Args   []interface{} `json:"args"`
}

// ExecuteEvent is the event name plugins subscribe to
const ExecuteEvent = "plugin-execute"

// Manager owns the plugin registry and the pool of live plugin windows
type Manager struct {
	registry      *Registry
	processes     map[string]*Process
	creating      int
	names         *nameLock
	reloadMu      sync.Mutex
	defaultRoot   string
	roots         RootStore
	maxProcesses  int
	createTimeout time.Duration
	debug         bool
	host          WindowHost
	screen        Screen
	bridge        Dispatcher
	eventBus      *events.EventBus
	restoreDelay  time.Duration
	mu            sync.RWMutex
}

// NewManager creates a new plugin manager
func NewManager(opts Options) *Manager {
	maxProcesses := opts.MaxProcesses
	if maxProcesses < 1 {
		maxProcesses = constants.DefaultMaxProcesses
	}

	return &Manager{
		registry:      NewRegistry(),
		processes:     make(map[string]*Process),
		names:         newNameLock(),
		defaultRoot:   opts.DefaultRoot,
		roots:         opts.Roots,
		maxProcesses:  maxProcesses,
		createTimeout: opts.CreateTimeout,
		debug:         opts.Debug,
		host:          opts.Host,
		screen:        opts.Screen,
		eventBus:      opts.EventBus,
		restoreDelay:  constants.TopMostRestoreDelay,
	}
}

// SetBridge sets the dispatcher serving capability calls from plugin windows
func (pm *Manager) SetBridge(d Dispatcher) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.bridge = d
}

// SetMaxProcesses changes the pool ceiling. Live windows above it are kept.
func (pm *Manager) SetMaxProcesses(n int) error {
	if err := validation.ValidateMaxProcesses(n); err != nil {
		return err
	}
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.maxProcesses = n
	return nil
}

// MaxProcesses returns the pool ceiling
func (pm *Manager) MaxProcesses() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.maxProcesses
}

// DefaultRoot returns the directory installed plugins live in
func (pm *Manager) DefaultRoot() string {
	return pm.defaultRoot
}

// Roots returns the scan order: the default root, then custom roots
func (pm *Manager) Roots() []string {
	roots := []string{}
	seen := map[string]bool{}
	add := func(dir string) {
		if dir == "" {
			return
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		seen[dir] = true
		roots = append(roots, dir)
	}

	add(pm.defaultRoot)
	if pm.roots != nil {
		for _, dir := range pm.roots.PluginDirs() {
			add(dir)
		}
	}
	return roots
}

func (pm *Manager) reg() *Registry {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.registry
}

// Get returns the record for a plugin
func (pm *Manager) Get(name string) (*Record, bool) {
	return pm.reg().Get(name)
}

// List returns the UI projection of the registry
func (pm *Manager) List() []Summary {
	return pm.reg().Summaries()
}

// PluginNameForDir maps a plugin directory to its registered name,
// falling back to the directory name
func (pm *Manager) PluginNameForDir(dir string) string {
	if rec, ok := pm.reg().FindByDir(dir); ok {
		return rec.Name
	}
	return filepath.Base(dir)
}

// Reload rebuilds the registry from every root and notifies listeners.
// When scope names a dependent plugin its live window is restarted hidden.
func (pm *Manager) Reload(ctx context.Context, scope string) error {
	pm.rebuild()
	pm.stopOrphans()
	if scope == "" {
		return nil
	}

	unlock := pm.names.Lock(scope)
	defer unlock()

	rec, ok := pm.reg().Get(scope)
	if !ok || !rec.IsDependent() {
		return nil
	}

	if err := pm.stopLocked(scope); err != nil && !errors.Is(err, ErrNotRunning) {
		logger.Log.Warn().Err(err).Str("plugin", scope).Msg("Failed to stop plugin for reload")
	}
	if !rec.Enabled {
		return nil
	}

	p, err := pm.getOrCreateLocked(ctx, scope, false)
	if err != nil {
		return fmt.Errorf("failed to restart plugin %s: %w", scope, err)
	}
	defer p.release()

	pm.hideProcess(p)
	logger.Log.Info().Str("plugin", scope).Msg("Restarted dependent plugin")
	return nil
}

func (pm *Manager) rebuild() {
	pm.reloadMu.Lock()
	reg := Scan(pm.Roots())
	pm.mu.Lock()
	pm.registry = reg
	pm.mu.Unlock()
	pm.reloadMu.Unlock()

	logger.Log.Info().Int("count", reg.Len()).Msg("Loaded plugins")
	pm.notifyChanged()
}

// stopOrphans stops live windows whose plugin left the registry, such as
// one renamed or deleted on disk
func (pm *Manager) stopOrphans() {
	for _, name := range pm.Active() {
		if _, ok := pm.reg().Get(name); ok {
			continue
		}
		unlock := pm.names.Lock(name)
		if _, ok := pm.reg().Get(name); !ok {
			if err := pm.stopLocked(name); err != nil && !errors.Is(err, ErrNotRunning) {
				logger.Log.Warn().Err(err).Str("plugin", name).Msg("Failed to stop unregistered plugin")
			} else if err == nil {
				logger.Log.Info().Str("plugin", name).Msg("Stopped plugin no longer on disk")
			}
		}
		unlock()
	}
}

func (pm *Manager) notifyChanged() {
	if pm.eventBus == nil {
		return
	}
	// Synchronous so that listeners never observe lists out of order
	pm.eventBus.EmitSync(events.Event{
		Type:   events.EventPluginsChanged,
		Source: events.EventSourceSystem,
		Data:   map[string]interface{}{"plugins": pm.List()},
	})
}

func (pm *Manager) emit(eventType, name string) {
	if pm.eventBus == nil {
		return
	}
	pm.eventBus.Emit(events.Event{
		Type:   eventType,
		Source: events.EventSourceSystem,
		Data:   map[string]interface{}{"plugin": name},
	})
}

// GetOrCreate returns the live context for name, creating it when absent.
// The returned context is marked busy; callers must Release it.
func (pm *Manager) GetOrCreate(ctx context.Context, name string, forceNew bool) (*Process, error) {
	unlock := pm.names.Lock(name)
	defer unlock()
	return pm.getOrCreateLocked(ctx, name, forceNew)
}

// Release marks a call on the context as finished
func (pm *Manager) Release(p *Process) {
	if p != nil {
		p.release()
	}
}

// getOrCreateLocked expects the name lock to be held
func (pm *Manager) getOrCreateLocked(ctx context.Context, name string, forceNew bool) (*Process, error) {
	pm.mu.Lock()
	if p, ok := pm.processes[name]; ok {
		switch {
		case p.Destroyed():
			delete(pm.processes, name)
		case !forceNew:
			p.acquire()
			pm.mu.Unlock()
			return p, nil
		default:
			pm.mu.Unlock()
			if err := pm.stopLocked(name); err != nil && !errors.Is(err, ErrNotRunning) {
				logger.Log.Warn().Err(err).Str("plugin", name).Msg("Failed to stop plugin before recreate")
			}
			pm.mu.Lock()
		}
	}

	rec, ok := pm.registry.Get(name)
	if !ok {
		pm.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}

	// Creations in flight hold a slot so that the ceiling is never exceeded
	if len(pm.processes)+pm.creating >= pm.maxProcesses {
		active, max := len(pm.processes), pm.maxProcesses
		pm.mu.Unlock()
		return nil, fmt.Errorf("%w (%d/%d)", ErrCapacity, active, max)
	}
	pm.creating++
	pm.mu.Unlock()

	p, err := pm.create(ctx, rec)

	pm.mu.Lock()
	pm.creating--
	if err == nil && p.Destroyed() {
		err = fmt.Errorf("%w: %s", ErrWindowClosed, name)
	}
	if err == nil {
		pm.processes[name] = p
	}
	pm.mu.Unlock()

	if err != nil {
		logger.Log.Error().Err(err).Str("plugin", name).Msg("Failed to create plugin window")
		return nil, err
	}

	logger.Log.Info().
		Str("plugin", name).
		Str("startup_mode", string(rec.StartupMode)).
		Msg("Plugin window created")
	pm.emit(events.EventPluginStarted, name)
	return p, nil
}

type openResult struct {
	window Window
	err    error
}

// create opens a window for rec and waits for it to load
func (pm *Manager) create(ctx context.Context, rec *Record) (*Process, error) {
	if pm.host == nil {
		return nil, fmt.Errorf("no window host configured")
	}

	entry, remote, err := rec.Entry()
	if err != nil {
		return nil, err
	}
	preload := ""
	if !remote {
		preload, err = rec.PreloadPath()
		if err != nil {
			return nil, err
		}
	}

	p := newProcess(rec)
	name := rec.Name
	spec := WindowSpec{
		Plugin:      name,
		Dir:         rec.Dir,
		Entry:       entry,
		Remote:      remote,
		Preload:     preload,
		Width:       rec.UI.Width,
		Height:      rec.UI.Height,
		Title:       rec.Title(),
		Frame:       rec.UI.Frame,
		HideOnBlur:  rec.UI.HideOnBlur,
		AlwaysOnTop: true,
		Debug:       pm.debug || rec.Debug,
		Events: WindowEvents{
			CloseRequested: func() { pm.handleCloseRequested(name, p) },
			Closed:         func() { pm.handleClosed(name, p) },
			Call: func(ctx context.Context, fn string, args []json.RawMessage) Result {
				return pm.dispatch(ctx, name, fn, args)
			},
		},
	}

	if pm.createTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pm.createTimeout)
		defer cancel()
	}

	done := make(chan openResult, 1)
	go func() {
		w, err := pm.host.Open(ctx, spec)
		done <- openResult{window: w, err: err}
	}()

	var res openResult
	select {
	case res = <-done:
	case <-ctx.Done():
		// The host may still finish; close whatever it eventually returns
		go func() {
			if late := <-done; late.window != nil {
				_ = late.window.Close()
			}
		}()
		return nil, pm.openError(name, ctx.Err())
	}
	if res.err != nil {
		return nil, pm.openError(name, res.err)
	}

	if err := p.attach(res.window); err != nil {
		_ = res.window.Close()
		return nil, fmt.Errorf("%w: %s", err, name)
	}
	return p, nil
}

func (pm *Manager) openError(name string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s", ErrTimeout, name, pm.createTimeout)
	}
	return fmt.Errorf("failed to open window for %s: %w", name, err)
}

func (pm *Manager) dispatch(ctx context.Context, caller, fn string, args []json.RawMessage) Result {
	pm.mu.RLock()
	bridge := pm.bridge
	pm.mu.RUnlock()

	if bridge == nil {
		return Failf(CodeFunctionNotFound, "Function %s not found", fn)
	}
	return bridge.Dispatch(ctx, caller, fn, args)
}

// handleCloseRequested hides dependent windows and stops independent ones
func (pm *Manager) handleCloseRequested(name string, p *Process) {
	unlock := pm.names.Lock(name)
	defer unlock()

	if !pm.isCurrent(name, p) {
		return
	}

	if p.meta.IsDependent() {
		if _, err := p.apply(TransitionCloseRequested); err != nil {
			return
		}
		if err := p.Window().Hide(); err != nil {
			logger.Log.Warn().Err(err).Str("plugin", name).Msg("Failed to hide plugin window")
		}
		logger.Log.Debug().Str("plugin", name).Msg("Close intercepted, window hidden")
		pm.emit(events.EventPluginHidden, name)
		return
	}

	if err := pm.stopLocked(name); err != nil && !errors.Is(err, ErrNotRunning) {
		logger.Log.Warn().Err(err).Str("plugin", name).Msg("Failed to close plugin window")
	}
}

// handleClosed drops a context whose window went away on its own
func (pm *Manager) handleClosed(name string, p *Process) {
	_, _ = p.apply(TransitionDestroyed)

	pm.mu.Lock()
	removed := pm.processes[name] == p
	if removed {
		delete(pm.processes, name)
	}
	pm.mu.Unlock()

	if removed {
		logger.Log.Info().Str("plugin", name).Msg("Plugin window closed")
		pm.emit(events.EventPluginStopped, name)
	}
}

func (pm *Manager) isCurrent(name string, p *Process) bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.processes[name] == p
}

// lookup returns the live context for name
func (pm *Manager) lookup(name string) (*Process, bool) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	p, ok := pm.processes[name]
	if !ok || p.Destroyed() {
		return nil, false
	}
	return p, true
}

// Execute forwards an action to the plugin, creating its window if needed,
// and brings the window up on the display under the cursor
func (pm *Manager) Execute(ctx context.Context, name, action string, args ...interface{}) Result {
	unlock := pm.names.Lock(name)
	defer unlock()

	p, err := pm.getOrCreateLocked(ctx, name, false)
	if err != nil {
		logger.Log.Error().Err(err).Str("plugin", name).Msg("Error executing plugin")
		return Fail(err)
	}
	defer p.release()

	if args == nil {
		args = []interface{}{}
	}
	if err := p.Window().Send(ExecuteEvent, ExecutePayload{Action: action, Args: args}); err != nil {
		logger.Log.Error().Err(err).Str("plugin", name).Msg("Failed to deliver action to plugin")
		return Fail(err)
	}

	pm.present(p, true)

	logger.Log.Debug().Str("plugin", name).Str("action", action).Msg("Plugin executed")
	return OK(fmt.Sprintf("Plugin %s executed successfully", name), map[string]interface{}{
		"startupMode": p.meta.StartupMode,
	})
}

// Start creates the plugin window without showing it
func (pm *Manager) Start(ctx context.Context, name string) Result {
	unlock := pm.names.Lock(name)
	defer unlock()

	p, err := pm.getOrCreateLocked(ctx, name, false)
	if err != nil {
		return Fail(err)
	}
	p.release()
	return OK(fmt.Sprintf("Plugin %s started", name), nil)
}

// present shows, focuses and briefly elevates a window
func (pm *Manager) present(p *Process, place bool) {
	w := p.Window()
	visible := p.Visible()

	if place && pm.screen != nil {
		if err := pm.place(p, w, visible); err != nil {
			logger.Log.Warn().Err(err).Str("plugin", p.name).Msg("Failed to position plugin window")
		}
	}

	if !visible {
		if err := w.Show(); err != nil {
			logger.Log.Warn().Err(err).Str("plugin", p.name).Msg("Failed to show plugin window")
		}
	}
	if _, err := p.apply(TransitionShow); err != nil {
		return
	}
	if err := w.Focus(); err != nil {
		logger.Log.Debug().Err(err).Str("plugin", p.name).Msg("Failed to focus plugin window")
	}

	pm.elevate(p, w)
}

func (pm *Manager) place(p *Process, w Window, visible bool) error {
	bounds, err := w.Bounds()
	if err != nil {
		return err
	}
	cursor, err := pm.screen.Cursor()
	if err != nil {
		return err
	}

	var plan Placement
	if p.meta.UI.PopupAtCursor {
		plan = PlanAtCursor(bounds, cursor)
	} else {
		displays, err := pm.screen.Displays()
		if err != nil {
			return err
		}
		plan = PlanCentered(bounds, visible, displays, cursor)
	}

	if !plan.Move {
		return nil
	}
	return w.SetPosition(plan.To)
}

// elevate raises the window above other top-most windows, then restores it
func (pm *Manager) elevate(p *Process, w Window) {
	if err := w.SetAlwaysOnTop(TopLevelScreenSaver); err != nil {
		logger.Log.Debug().Err(err).Str("plugin", p.name).Msg("Failed to raise plugin window")
		return
	}
	time.AfterFunc(pm.restoreDelay, func() {
		if p.Destroyed() {
			return
		}
		if err := w.SetAlwaysOnTop(TopLevelNormal); err != nil {
			logger.Log.Debug().Err(err).Str("plugin", p.name).Msg("Failed to restore plugin window level")
		}
	})
}

// Show brings up an existing window. It never creates one.
func (pm *Manager) Show(name string) bool {
	unlock := pm.names.Lock(name)
	defer unlock()

	p, ok := pm.lookup(name)
	if !ok {
		return false
	}
	pm.present(p, false)
	return true
}

// Hide hides a visible window; hiding a hidden window returns false
func (pm *Manager) Hide(name string) bool {
	unlock := pm.names.Lock(name)
	defer unlock()

	p, ok := pm.lookup(name)
	if !ok || !p.Visible() {
		return false
	}
	pm.hideProcess(p)
	return true
}

func (pm *Manager) hideProcess(p *Process) {
	if err := p.Window().Hide(); err != nil {
		logger.Log.Warn().Err(err).Str("plugin", p.name).Msg("Failed to hide plugin window")
		return
	}
	if prev, err := p.apply(TransitionHide); err == nil && prev == StateVisible {
		pm.emit(events.EventPluginHidden, p.name)
	}
}

// Toggle hides a visible window, otherwise executes the plugin's default action
func (pm *Manager) Toggle(ctx context.Context, name string) Result {
	if p, ok := pm.lookup(name); ok && p.Visible() {
		if pm.Hide(name) {
			return OK(fmt.Sprintf("Plugin %s hidden", name), map[string]interface{}{"visible": false})
		}
	}
	res := pm.Execute(ctx, name, "default")
	if res.Success {
		res.Data = map[string]interface{}{"visible": true}
	}
	return res
}

// Minimise minimises the plugin window
func (pm *Manager) Minimise(name string) error {
	p, ok := pm.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}
	return p.Window().Minimise()
}

// ToggleMaximise maximises or restores the plugin window
func (pm *Manager) ToggleMaximise(name string) error {
	p, ok := pm.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}
	return p.Window().ToggleMaximise()
}

// Stop closes the plugin window, bypassing close interception
func (pm *Manager) Stop(name string) error {
	unlock := pm.names.Lock(name)
	defer unlock()
	return pm.stopLocked(name)
}

// stopLocked expects the name lock to be held
func (pm *Manager) stopLocked(name string) error {
	pm.mu.Lock()
	p, ok := pm.processes[name]
	if ok {
		delete(pm.processes, name)
	}
	pm.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}

	wasAlive := !p.Destroyed()
	_, _ = p.apply(TransitionDestroyed)
	if !wasAlive {
		return nil
	}

	err := p.Window().Close()
	logger.Log.Info().Str("plugin", name).Msg("Plugin stopped")
	pm.emit(events.EventPluginStopped, name)
	if err != nil {
		return fmt.Errorf("failed to close window for %s: %w", name, err)
	}
	return nil
}

// StopAll stops every live window, one at a time
func (pm *Manager) StopAll() {
	for _, name := range pm.Active() {
		if err := pm.Stop(name); err != nil && !errors.Is(err, ErrNotRunning) {
			logger.Log.Warn().Err(err).Str("plugin", name).Msg("Failed to stop plugin")
		}
	}
}

// Active returns the names of live windows, sorted
func (pm *Manager) Active() []string {
	pm.mu.RLock()
	names := make([]string, 0, len(pm.processes))
	for name, p := range pm.processes {
		if !p.Destroyed() {
			names = append(names, name)
		}
	}
	pm.mu.RUnlock()

	sort.Strings(names)
	return names
}

// ActiveCount returns the number of live windows
func (pm *Manager) ActiveCount() int {
	return len(pm.Active())
}

// Status reports the window state of a plugin without changing it
func (pm *Manager) Status(name string) WindowStatus {
	mode := StartupIndependent
	if rec, ok := pm.reg().Get(name); ok {
		mode = rec.StartupMode
	}

	p, ok := pm.lookup(name)
	if !ok {
		return WindowStatus{Destroyed: true, StartupMode: mode}
	}
	return WindowStatus{
		Exists:      true,
		Visible:     p.Visible(),
		StartupMode: mode,
		Status:      p.Status(),
	}
}

// customRootFor returns the custom root a plugin directory belongs to
func (pm *Manager) customRootFor(dir string) string {
	if pm.roots == nil {
		return ""
	}
	dir = filepath.Clean(dir)
	def := filepath.Clean(pm.defaultRoot)
	for _, root := range pm.roots.PluginDirs() {
		root = filepath.Clean(root)
		if root == def {
			continue
		}
		if dir == root || filepath.Dir(dir) == root {
			return root
		}
	}
	return ""
}

// Uninstall stops a plugin and removes it. Plugins from a custom root are
// detached by dropping that root; others optionally have their files deleted.
func (pm *Manager) Uninstall(name string, removeFiles bool) Result {
	unlock := pm.names.Lock(name)
	defer unlock()

	rec, ok := pm.reg().Get(name)
	if !ok {
		return Fail(fmt.Errorf("%w: %s", ErrPluginNotFound, name))
	}

	if err := pm.stopLocked(name); err != nil && !errors.Is(err, ErrNotRunning) {
		logger.Log.Warn().Err(err).Str("plugin", name).Msg("Failed to stop plugin during uninstall")
	}

	customRoot := pm.customRootFor(rec.Dir)
	pm.reg().Remove(name)
	defer pm.notifyChanged()

	if customRoot != "" {
		if err := pm.roots.RemovePluginDir(customRoot); err != nil {
			logger.Log.Error().Err(err).Str("plugin", name).Str("root", customRoot).Msg("Failed to remove custom plugin directory")
			return Fail(fmt.Errorf("failed to remove custom directory %s: %w", customRoot, err))
		}
		logger.Log.Info().Str("plugin", name).Str("root", customRoot).Msg("Removed custom plugin directory")
		return OK(fmt.Sprintf("Plugin %s removed from custom directories", name), map[string]interface{}{"dir": customRoot})
	}

	if removeFiles {
		if filepath.Clean(rec.Dir) == filepath.Clean(pm.defaultRoot) {
			return Failf(CodeIO, "Refusing to delete plugin root %s", rec.Dir)
		}
		if err := os.RemoveAll(rec.Dir); err != nil {
			logger.Log.Error().Err(err).Str("plugin", name).Str("dir", rec.Dir).Msg("Failed to delete plugin directory")
			return Fail(fmt.Errorf("failed to delete plugin directory: %w", err))
		}
	}

	logger.Log.Info().Str("plugin", name).Bool("remove_files", removeFiles).Msg("Plugin uninstalled")
	return OK(fmt.Sprintf("Plugin %s uninstalled", name), nil)
}

// AutoStartDependents creates hidden windows for every enabled dependent
// plugin and returns how many were started
func (pm *Manager) AutoStartDependents(ctx context.Context) int {
	started := 0
	for _, rec := range pm.reg().List() {
		if !rec.Enabled || !rec.IsDependent() {
			continue
		}
		if pm.autoStart(ctx, rec.Name) {
			started++
		}
	}
	logger.Log.Info().Int("count", started).Msg("Auto-started dependent plugins")
	return started
}

func (pm *Manager) autoStart(ctx context.Context, name string) bool {
	unlock := pm.names.Lock(name)
	defer unlock()

	p, err := pm.getOrCreateLocked(ctx, name, false)
	if err != nil {
		logger.Log.Error().Err(err).Str("plugin", name).Msg("Failed to auto-start dependent plugin")
		return false
	}
	defer p.release()

	if p.Visible() {
		pm.hideProcess(p)
	}
	return true
}
