package plugin

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ilikebug/oTools/internal/logger"
)

// Scan builds a fresh registry from the given roots, in order.
// A root that itself holds a manifest is a single plugin; otherwise each
// immediate subdirectory is tried. Later records win on duplicate names.
// Missing roots are created.
func Scan(roots []string) *Registry {
	reg := NewRegistry()
	for _, root := range roots {
		for _, rec := range scanRoot(root) {
			if prev, ok := reg.Get(rec.Name); ok {
				logger.Log.Warn().
					Str("plugin", rec.Name).
					Str("previous", prev.Dir).
					Str("dir", rec.Dir).
					Msg("Duplicate plugin name, later directory wins")
			}
			reg.Put(rec)
		}
	}
	return reg
}

// scanRoot loads the plugins of a single root
func scanRoot(root string) []*Record {
	if root == "" {
		return nil
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		logger.Log.Warn().Err(err).Str("root", root).Msg("Failed to create plugin root")
		return nil
	}

	if HasManifest(root) {
		if rec := TryLoad(root); rec != nil {
			return []*Record{rec}
		}
		return nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		logger.Log.Warn().Err(err).Str("root", root).Msg("Failed to read plugin root")
		return nil
	}

	var records []*Record
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if !isDir(entry, dir) {
			continue
		}
		if rec := TryLoad(dir); rec != nil {
			records = append(records, rec)
		}
	}
	return records
}

// isDir follows symlinks so that linked plugin directories are scanned
func isDir(entry os.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
