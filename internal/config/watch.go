package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ilikebug/oTools/internal/logger"
)

// Watch reloads the configuration when main.json is edited outside the
// launcher. It returns once ctx is done.
func (m *Manager) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer w.Close()

	// Editors replace files, so the directory is watched rather than the file
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("failed to watch config dir: %w", err)
	}

	name := filepath.Base(m.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			changed, err := m.reloadIfChanged()
			if err != nil {
				logger.Log.Warn().Err(err).Str("path", m.path).Msg("Failed to reload configuration")
				continue
			}
			if changed {
				logger.Log.Info().Str("path", m.path).Msg("Configuration reloaded from disk")
				m.notify("")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error().Err(err).Msg("Config watcher error")
		}
	}
}
