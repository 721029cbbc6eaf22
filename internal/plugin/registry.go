package plugin

import (
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Summary is the plugin list projection published to the UI layer
type Summary struct {
	Name        string      `json:"name"`
	ShortName   string      `json:"shortName,omitempty"`
	Description string      `json:"description,omitempty"`
	Version     string      `json:"version,omitempty"`
	Author      string      `json:"author,omitempty"`
	Icon        string      `json:"icon,omitempty"`
	Type        string      `json:"type"`
	Enabled     bool        `json:"enabled"`
	LoadedAt    time.Time   `json:"loadedAt"`
	StartupMode StartupMode `json:"startupMode"`
	Shortcut    string      `json:"shortcut,omitempty"`
	UI          UIConfig    `json:"ui"`
}

// Summary projects the record for the UI layer
func (r *Record) Summary() Summary {
	return Summary{
		Name:        r.Name,
		ShortName:   r.ShortName,
		Description: r.Description,
		Version:     r.Version,
		Author:      r.Author,
		Icon:        r.IconPath(),
		Type:        r.Type,
		Enabled:     r.Enabled,
		LoadedAt:    r.LoadedAt,
		StartupMode: r.StartupMode,
		Shortcut:    r.Shortcut,
		UI:          r.UI,
	}
}

// Registry maps plugin names to loaded records
type Registry struct {
	records map[string]*Record
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Put adds a record, replacing any previous record with the same name
func (r *Registry) Put(rec *Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.Name] = rec
}

// Get returns the record for a name
func (r *Registry) Get(name string) (*Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[name]
	return rec, ok
}

// Remove deletes a record, reporting whether it existed
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[name]; !ok {
		return false
	}
	delete(r.records, name)
	return true
}

// FindByDir returns the record loaded from dir
func (r *Registry) FindByDir(dir string) (*Record, bool) {
	dir = filepath.Clean(dir)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.Dir == dir {
			return rec, true
		}
	}
	return nil, false
}

// Len returns the number of records
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// List returns all records sorted by name
func (r *Registry) List() []*Record {
	r.mu.RLock()
	list := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		list = append(list, rec)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Summaries returns the UI projection of every record, sorted by name
func (r *Registry) Summaries() []Summary {
	list := r.List()
	out := make([]Summary, 0, len(list))
	for _, rec := range list {
		out = append(out, rec.Summary())
	}
	return out
}
