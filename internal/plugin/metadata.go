package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/ilikebug/oTools/internal/constants"
	"github.com/ilikebug/oTools/internal/logger"
)

// SetConfig merges patch into the plugin's manifest file and rebuilds the
// registry. Keys are sjson paths, so "ui.width" edits a nested field.
// The name is the plugin identity and cannot be changed here.
func (pm *Manager) SetConfig(name string, patch map[string]interface{}) Result {
	unlock := pm.names.Lock(name)
	defer unlock()

	rec, ok := pm.reg().Get(name)
	if !ok {
		return Fail(fmt.Errorf("%w: %s", ErrPluginNotFound, name))
	}

	path := filepath.Join(rec.Dir, constants.ManifestFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fail(fmt.Errorf("failed to read manifest: %w", err))
	}
	if !gjson.ValidBytes(raw) {
		return Fail(fmt.Errorf("%w: %s", ErrInvalidManifest, path))
	}

	keys := make([]string, 0, len(patch))
	for key := range patch {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if key == "name" {
			if v, ok := patch[key].(string); ok && v == name {
				continue
			}
			return Failf(CodeInvalidArgument, "Plugin name cannot be changed")
		}
		raw, err = sjson.SetBytes(raw, key, patch[key])
		if err != nil {
			return Failf(CodeInvalidArgument, "Invalid config key %q: %v", key, err)
		}
	}

	if _, err := ParseManifest(raw); err != nil {
		return Fail(err)
	}

	info, err := os.Stat(path)
	mode := os.FileMode(0644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, pretty.Pretty(raw), mode); err != nil {
		logger.Log.Error().Err(err).Str("plugin", name).Msg("Failed to write plugin manifest")
		return Fail(fmt.Errorf("failed to write manifest: %w", err))
	}

	logger.Log.Info().Str("plugin", name).Strs("keys", keys).Msg("Updated plugin config")
	pm.rebuild()
	return OK(fmt.Sprintf("Plugin %s config updated", name), nil)
}
