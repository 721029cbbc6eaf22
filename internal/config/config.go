package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilikebug/oTools/internal/constants"
	"github.com/ilikebug/oTools/internal/validation"
)

// AppName names the user data directory
const AppName = "oTools"

// Version is the launcher version reported to plugins
const Version = "1.10"

// Config is the typed view of main.json
type Config struct {
	App             AppConfig        `json:"app"`
	Window          WindowConfig     `json:"window"`
	Plugins         PluginsConfig    `json:"plugins"`
	Logger          LoggerConfig     `json:"logger"`
	Shortcuts       ShortcutsConfig  `json:"shortcuts"`
	CustomShortcuts []CustomShortcut `json:"customShortcuts"`
	PluginMarket    MarketConfig     `json:"pluginMarket"`
}

// AppConfig holds launcher settings
type AppConfig struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Debug     bool   `json:"debug"`
	AutoStart bool   `json:"autoStart"`
}

// WindowConfig holds the launcher window settings
type WindowConfig struct {
	Width       int  `json:"width"`
	Height      int  `json:"height"`
	AlwaysOnTop bool `json:"alwaysOnTop"`
	SkipTaskbar bool `json:"skipTaskbar"`
}

// PluginsConfig holds plugin pool settings
type PluginsConfig struct {
	AutoLoad     bool     `json:"autoLoad"`
	MaxProcesses int      `json:"maxProcesses"`
	Timeout      int      `json:"timeout"`
	Debug        bool     `json:"debug"`
	CustomDirs   []string `json:"customDirs"`
}

// CreateTimeout returns the window creation timeout; zero disables it
func (p PluginsConfig) CreateTimeout() time.Duration {
	return time.Duration(p.Timeout) * time.Millisecond
}

// LoggerConfig holds logging settings
type LoggerConfig struct {
	Level         string `json:"level"`
	EnableFile    bool   `json:"enableFile"`
	LogFile       string `json:"logFile"`
	EnableConsole bool   `json:"enableConsole"`
}

// ShortcutsConfig holds launcher accelerators
type ShortcutsConfig struct {
	Toggle string `json:"toggle"`
}

// CustomShortcut binds an accelerator to a plugin
type CustomShortcut struct {
	Plugin      string `json:"plugin"`
	Accelerator string `json:"accelerator"`
	Action      string `json:"action,omitempty"`
}

// MarketConfig holds plugin market settings
type MarketConfig struct {
	Debug bool   `json:"debug"`
	Repo  string `json:"repo"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		App: AppConfig{
			Name:      AppName,
			Version:   Version,
			AutoStart: true,
		},
		Window: WindowConfig{
			Width:       400,
			Height:      360,
			AlwaysOnTop: true,
			SkipTaskbar: true,
		},
		Plugins: PluginsConfig{
			AutoLoad:     true,
			MaxProcesses: constants.DefaultMaxProcesses,
			Timeout:      int(constants.DefaultCreateTimeout / time.Millisecond),
			CustomDirs:   []string{},
		},
		Logger: LoggerConfig{
			Level:      "info",
			EnableFile: true,
			LogFile:    "otools.log",
		},
		Shortcuts: ShortcutsConfig{
			Toggle: "Alt+Space",
		},
		CustomShortcuts: []CustomShortcut{},
		PluginMarket: MarketConfig{
			Repo: "ilikebug/oTools-Plugins",
		},
	}
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validation.ValidateMaxProcesses(c.Plugins.MaxProcesses); err != nil {
		return fmt.Errorf("plugins: %w", err)
	}
	if c.Plugins.Timeout < 0 {
		return fmt.Errorf("plugins: timeout must not be negative")
	}
	if err := validation.ValidateWindowSize(c.Window.Width, c.Window.Height); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	for i, s := range c.CustomShortcuts {
		if s.Plugin == "" || s.Accelerator == "" {
			return fmt.Errorf("customShortcuts[%d]: plugin and accelerator are required", i)
		}
	}
	return nil
}

// Paths are the launcher's user data directories
type Paths struct {
	Root    string
	Plugins string
	Configs string
	Logs    string
	Data    string
}

// DefaultPaths returns the paths under the OS user config directory
func DefaultPaths() (Paths, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return PathsAt(filepath.Join(base, AppName)), nil
}

// PathsAt returns the paths under root
func PathsAt(root string) Paths {
	return Paths{
		Root:    root,
		Plugins: filepath.Join(root, "plugins"),
		Configs: filepath.Join(root, "configs"),
		Logs:    filepath.Join(root, "logs"),
		Data:    filepath.Join(root, "data"),
	}
}

// Ensure creates every directory
func (p Paths) Ensure() error {
	for _, dir := range []string{p.Plugins, p.Configs, p.Logs, p.Data} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// MainFile returns the main configuration file path
func (p Paths) MainFile() string {
	return filepath.Join(p.Configs, "main.json")
}
