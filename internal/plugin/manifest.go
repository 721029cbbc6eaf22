package plugin

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilikebug/oTools/internal/constants"
	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/validation"
)

// StartupMode is the lifecycle policy of a plugin window
type StartupMode string

const (
	// StartupIndependent windows are destroyed when the user closes them
	StartupIndependent StartupMode = "independent"
	// StartupDependent windows are hidden on close and keep running
	StartupDependent StartupMode = "dependent"
)

// DefaultType is the type tag given to plugins that declare none
const DefaultType = "custom"

// UIConfig describes the plugin window
type UIConfig struct {
	HTML          string `json:"html"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Title         string `json:"title,omitempty"`
	Frame         bool   `json:"frame"`
	HideOnBlur    bool   `json:"hideOnBlur,omitempty"`
	PopupAtCursor bool   `json:"popupAtCursor,omitempty"`
}

// Manifest is the parsed content of plugin.json
type Manifest struct {
	Name          string      `json:"name"`
	ShortName     string      `json:"shortName,omitempty"`
	Description   string      `json:"description,omitempty"`
	Version       string      `json:"version,omitempty"`
	Author        string      `json:"author,omitempty"`
	Icon          string      `json:"icon,omitempty"`
	Type          string      `json:"type"`
	Enabled       bool        `json:"enabled"`
	StartupMode   StartupMode `json:"startupMode"`
	PopupAtCursor bool        `json:"popupAtCursor,omitempty"`
	Debug         bool        `json:"debug,omitempty"`
	Preload       string      `json:"preload,omitempty"`
	Shortcut      string      `json:"shortcut,omitempty"`
	UI            UIConfig    `json:"ui"`
}

// defaultManifest returns a manifest with every defaulted field set.
// Decoding into it keeps defaults for keys absent from the file.
func defaultManifest() Manifest {
	return Manifest{
		Type:        DefaultType,
		Enabled:     true,
		StartupMode: StartupIndependent,
		UI: UIConfig{
			HTML:   constants.DefaultHTML,
			Width:  constants.DefaultWidth,
			Height: constants.DefaultHeight,
			Frame:  true,
		},
	}
}

// applyDefaults fills fields that were present in the file but empty
func (m *Manifest) applyDefaults() {
	if m.Type == "" {
		m.Type = DefaultType
	}
	if m.StartupMode == "" {
		m.StartupMode = StartupIndependent
	}
	if m.UI.HTML == "" {
		m.UI.HTML = constants.DefaultHTML
	}
	if m.UI.Width <= 0 {
		m.UI.Width = constants.DefaultWidth
	}
	if m.UI.Height <= 0 {
		m.UI.Height = constants.DefaultHeight
	}
	if m.PopupAtCursor {
		m.UI.PopupAtCursor = true
	}
}

// Validate checks the manifest for required fields
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrMissingName
	}
	if err := validation.ValidatePluginName(m.Name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	switch m.StartupMode {
	case StartupIndependent, StartupDependent:
	default:
		return fmt.Errorf("%w: unknown startupMode %q", ErrInvalidManifest, m.StartupMode)
	}
	if err := validation.ValidateWindowSize(m.UI.Width, m.UI.Height); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return nil
}

// IsDependent reports whether the plugin keeps running when its window is closed
func (m *Manifest) IsDependent() bool {
	return m.StartupMode == StartupDependent
}

// ParseManifest decodes and validates manifest bytes
func ParseManifest(data []byte) (*Manifest, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidManifest)
	}

	m := defaultManifest()
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Record is a loaded manifest bound to the directory it came from
type Record struct {
	Manifest
	Dir      string    `json:"dir"`
	LoadedAt time.Time `json:"loadedAt"`
}

// LoadRecord reads dir/plugin.json and returns the record
func LoadRecord(dir string) (*Record, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plugin directory: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(abs, constants.ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}

	return &Record{Manifest: *m, Dir: abs, LoadedAt: time.Now()}, nil
}

// TryLoad loads a plugin directory, logging and returning nil on any failure
func TryLoad(dir string) *Record {
	rec, err := LoadRecord(dir)
	if err != nil {
		logger.Log.Warn().Err(err).Str("dir", dir).Msg("Skipping plugin directory")
		return nil
	}
	return rec
}

// HasManifest reports whether dir directly contains a plugin manifest
func HasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, constants.ManifestFile))
	return err == nil && !info.IsDir()
}

// Entry resolves the UI entry to an absolute file path or a remote URL
func (r *Record) Entry() (entry string, remote bool, err error) {
	if validation.IsRemoteEntry(r.UI.HTML) {
		return r.UI.HTML, true, nil
	}
	if err := validation.ValidateRelativePath(r.UI.HTML); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrEntryNotFound, err)
	}

	path := filepath.Join(r.Dir, r.UI.HTML)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	}
	return path, false, nil
}

// PreloadPath resolves the preload script. A missing default preload yields
// an empty path; a missing declared preload is an error.
func (r *Record) PreloadPath() (string, error) {
	name := r.Preload
	declared := name != ""
	if !declared {
		name = constants.DefaultPreload
	}
	if err := validation.ValidateRelativePath(name); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPreloadNotFound, err)
	}

	path := filepath.Join(r.Dir, name)
	if _, err := os.Stat(path); err != nil {
		if declared {
			return "", fmt.Errorf("%w: %s", ErrPreloadNotFound, path)
		}
		return "", nil
	}
	return path, nil
}

// IconPath returns the absolute icon path, or empty when none is declared
func (r *Record) IconPath() string {
	if r.Icon == "" {
		return ""
	}
	if filepath.IsAbs(r.Icon) || validation.IsRemoteEntry(r.Icon) {
		return r.Icon
	}
	return filepath.Join(r.Dir, r.Icon)
}

// Title returns the window title
func (r *Record) Title() string {
	if r.UI.Title != "" {
		return r.UI.Title
	}
	return r.Name
}
