package validation

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// ValidatePluginName validates a plugin name used as a registry key and
// as a directory name under the default plugin root
func ValidatePluginName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("plugin name is required")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("plugin name %q is reserved", name)
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("plugin name contains invalid characters")
	}
	if len(name) > 200 {
		return fmt.Errorf("plugin name too long (max 200 characters)")
	}
	return nil
}

// ValidateMaxProcesses validates the pool ceiling
func ValidateMaxProcesses(n int) error {
	if n < 1 {
		return fmt.Errorf("maxProcesses must be at least 1")
	}
	return nil
}

// ValidateWindowSize validates plugin window dimensions
func ValidateWindowSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("window size must not be negative")
	}
	if width > 10000 || height > 10000 {
		return fmt.Errorf("window size too large (max 10000)")
	}
	return nil
}

// IsRemoteEntry reports whether a UI entry is an absolute http(s) URL
func IsRemoteEntry(entry string) bool {
	u, err := url.Parse(entry)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateRelativePath validates a bundle-relative path so that it cannot
// escape the plugin directory
func ValidateRelativePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("path is required")
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("path must be relative: %s", p)
	}
	clean := filepath.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes plugin directory: %s", p)
	}
	return nil
}
