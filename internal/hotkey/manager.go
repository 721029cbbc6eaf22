package hotkey

import (
	"fmt"
	"sort"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/menu/keys"

	"github.com/ilikebug/oTools/internal/config"
	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/plugin"
)

// Binding maps an accelerator to a launcher action. An empty Plugin means
// the launcher toggle.
type Binding struct {
	Accelerator string `json:"accelerator"`
	Plugin      string `json:"plugin,omitempty"`
	Action      string `json:"action,omitempty"`
	Source      string `json:"source"`
}

// Binding sources, in registration priority order
const (
	SourceLauncher = "launcher"
	SourceCustom   = "custom"
	SourceManifest = "manifest"
)

// Registrar installs accelerators with the windowing system
type Registrar interface {
	Register(accel *keys.Accelerator, b Binding, fn func()) error
	UnregisterAll()
}

// Handler runs an activated binding
type Handler func(b Binding)

// Manager validates bindings and keeps them registered
type Manager struct {
	registrar Registrar
	handler   Handler
	active    map[string]Binding
	mu        sync.Mutex
}

// NewManager creates a hotkey manager
func NewManager(registrar Registrar, handler Handler) *Manager {
	return &Manager{
		registrar: registrar,
		handler:   handler,
		active:    make(map[string]Binding),
	}
}

// Collect gathers bindings from the configuration and plugin manifests.
// Disabled plugins contribute none.
func Collect(cfg config.Config, plugins []plugin.Summary) []Binding {
	var out []Binding
	if cfg.Shortcuts.Toggle != "" {
		out = append(out, Binding{Accelerator: cfg.Shortcuts.Toggle, Source: SourceLauncher})
	}
	for _, s := range cfg.CustomShortcuts {
		out = append(out, Binding{Accelerator: s.Accelerator, Plugin: s.Plugin, Action: s.Action, Source: SourceCustom})
	}
	for _, p := range plugins {
		if p.Shortcut != "" && p.Enabled {
			out = append(out, Binding{Accelerator: p.Shortcut, Plugin: p.Name, Source: SourceManifest})
		}
	}
	return out
}

// Apply replaces every registration with bindings. Invalid and duplicate
// accelerators are skipped and reported; the first binding for an
// accelerator wins.
func (m *Manager) Apply(bindings []Binding) []error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registrar.UnregisterAll()
	m.active = make(map[string]Binding)

	var errs []error
	for _, b := range bindings {
		accel, err := Parse(b.Accelerator)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		key := Canonical(accel)
		if existing, ok := m.active[key]; ok {
			errs = append(errs, fmt.Errorf("accelerator %s already bound to %s", b.Accelerator, describe(existing)))
			continue
		}
		if b.Action == "" && b.Plugin != "" {
			b.Action = "default"
		}

		bound := b
		if err := m.registrar.Register(accel, bound, func() { m.fire(bound) }); err != nil {
			errs = append(errs, fmt.Errorf("failed to register %s: %w", b.Accelerator, err))
			continue
		}
		m.active[key] = bound
	}

	for _, err := range errs {
		logger.Log.Warn().Err(err).Msg("Shortcut rejected")
	}
	logger.Log.Info().Int("count", len(m.active)).Msg("Shortcuts registered")
	return errs
}

func describe(b Binding) string {
	if b.Plugin == "" {
		return "the launcher toggle"
	}
	return "plugin " + b.Plugin
}

func (m *Manager) fire(b Binding) {
	logger.Log.Debug().Str("accelerator", b.Accelerator).Str("plugin", b.Plugin).Msg("Shortcut activated")
	if m.handler != nil {
		m.handler(b)
	}
}

// Trigger activates the binding registered for accelerator
func (m *Manager) Trigger(accelerator string) bool {
	accel, err := Parse(accelerator)
	if err != nil {
		return false
	}
	m.mu.Lock()
	b, ok := m.active[Canonical(accel)]
	m.mu.Unlock()
	if ok {
		m.fire(b)
	}
	return ok
}

// Bindings returns the registered bindings ordered by accelerator
func (m *Manager) Bindings() []Binding {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Binding, 0, len(m.active))
	for _, b := range m.active {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Accelerator < out[j].Accelerator })
	return out
}
