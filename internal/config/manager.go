package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/ilikebug/oTools/internal/events"
	"github.com/ilikebug/oTools/internal/logger"
)

// Manager owns main.json
type Manager struct {
	path     string
	doc      []byte
	cfg      Config
	eventBus *events.EventBus
	mu       sync.RWMutex

	// writeMu serializes read-modify-write cycles and the file replace
	writeMu sync.Mutex
}

// NewManager creates a manager for the file at path
func NewManager(path string, eventBus *events.EventBus) *Manager {
	return &Manager{path: path, eventBus: eventBus, cfg: Defaults()}
}

// Path returns the backing file
func (m *Manager) Path() string {
	return m.path
}

// Load reads the file, merging it over the defaults. A missing file is
// created with the defaults.
func (m *Manager) Load() error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.load()
}

func (m *Manager) load() error {
	defaults, err := json.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("failed to encode defaults: %w", err)
	}

	raw, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		if err := m.apply(defaults); err != nil {
			return err
		}
		logger.Log.Info().Str("path", m.path).Msg("Created default configuration")
		return m.save()
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	merged, err := mergeDocuments(defaults, raw)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", m.path, err)
	}
	return m.apply(merged)
}

// apply validates doc and makes it current
func (m *Manager) apply(doc []byte) error {
	cfg := Defaults()
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	m.mu.Lock()
	m.doc = doc
	m.cfg = cfg
	m.mu.Unlock()
	return nil
}

func (m *Manager) save() error {
	m.mu.RLock()
	out := pretty.Pretty(m.doc)
	m.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}

// Current returns the typed configuration
func (m *Manager) Current() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Get returns the value at a dotted path, or the whole document for ""
func (m *Manager) Get(path string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if path == "" {
		return gjson.ParseBytes(m.doc).Value(), true
	}
	res := gjson.GetBytes(m.doc, path)
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

// Set writes value at a dotted path, persists and notifies.
// An empty path replaces the whole document, merged over the defaults.
func (m *Manager) Set(path string, value interface{}) error {
	m.writeMu.Lock()
	if err := m.set(path, value); err != nil {
		m.writeMu.Unlock()
		return err
	}
	m.writeMu.Unlock()

	logger.Log.Info().Str("path", path).Msg("Configuration updated")
	m.notify(path)
	return nil
}

// set requires writeMu
func (m *Manager) set(path string, value interface{}) error {
	m.mu.RLock()
	current := append([]byte(nil), m.doc...)
	m.mu.RUnlock()

	var next []byte
	var err error
	if path == "" {
		raw, merr := json.Marshal(value)
		if merr != nil {
			return fmt.Errorf("failed to encode config: %w", merr)
		}
		defaults, _ := json.Marshal(Defaults())
		next, err = mergeDocuments(defaults, raw)
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	} else {
		next, err = sjson.SetBytes(current, path, value)
		if err != nil {
			return fmt.Errorf("invalid config path %q: %w", path, err)
		}
	}

	if err := m.apply(next); err != nil {
		return err
	}
	return m.save()
}

func (m *Manager) notify(path string) {
	if m.eventBus == nil {
		return
	}
	m.eventBus.EmitSync(events.Event{
		Type:   events.EventConfigChanged,
		Source: events.EventSourceUser,
		Data:   map[string]interface{}{"path": path},
	})
}

// PluginDirs returns the user-added plugin roots
func (m *Manager) PluginDirs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.cfg.Plugins.CustomDirs...)
}

// AddPluginDir appends a custom plugin root
func (m *Manager) AddPluginDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid plugin directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("plugin directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", abs)
	}

	return m.updatePluginDirs(func(dirs []string) []string {
		for _, d := range dirs {
			if filepath.Clean(d) == abs {
				return nil
			}
		}
		return append(dirs, abs)
	})
}

// RemovePluginDir drops a custom plugin root
func (m *Manager) RemovePluginDir(dir string) error {
	target := filepath.Clean(dir)
	return m.updatePluginDirs(func(dirs []string) []string {
		kept := make([]string, 0, len(dirs))
		for _, d := range dirs {
			if filepath.Clean(d) != target {
				kept = append(kept, d)
			}
		}
		if len(kept) == len(dirs) {
			return nil
		}
		return kept
	})
}

// updatePluginDirs rewrites plugins.customDirs with edit's result under
// writeMu. A nil result leaves the list alone.
func (m *Manager) updatePluginDirs(edit func(dirs []string) []string) error {
	const path = "plugins.customDirs"

	m.writeMu.Lock()
	next := edit(m.PluginDirs())
	if next == nil {
		m.writeMu.Unlock()
		return nil
	}
	if err := m.set(path, next); err != nil {
		m.writeMu.Unlock()
		return err
	}
	m.writeMu.Unlock()

	logger.Log.Info().Str("path", path).Msg("Configuration updated")
	m.notify(path)
	return nil
}

// reloadIfChanged re-reads the file after an external edit
func (m *Manager) reloadIfChanged() (bool, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	raw, err := os.ReadFile(m.path)
	if err != nil {
		return false, err
	}

	m.mu.RLock()
	same := bytes.Equal(bytes.TrimSpace(pretty.Pretty(m.doc)), bytes.TrimSpace(raw))
	m.mu.RUnlock()
	if same {
		return false, nil
	}

	if err := m.load(); err != nil {
		return false, err
	}
	return true, nil
}

// mergeDocuments overlays user JSON onto base JSON. Objects merge
// recursively; arrays and scalars replace.
func mergeDocuments(base, user []byte) ([]byte, error) {
	var b, u map[string]interface{}
	if err := json.Unmarshal(base, &b); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(user, &u); err != nil {
		return nil, err
	}
	return json.Marshal(mergeMaps(b, u))
}

func mergeMaps(base, user map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(user))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range user {
		if uv, ok := v.(map[string]interface{}); ok {
			if bv, ok := out[k].(map[string]interface{}); ok {
				out[k] = mergeMaps(bv, uv)
				continue
			}
		}
		out[k] = v
	}
	return out
}
