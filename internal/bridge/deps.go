package bridge

import (
	"context"
	"encoding/json"

	"github.com/ilikebug/oTools/internal/plugin"
)

//go:generate mockgen -destination=mocks/mock_deps.go -package=mocks github.com/ilikebug/oTools/internal/bridge Pool,Config,Store,Desktop,Dialogs,AppInfo
//go:generate mockgen -destination=mocks/mock_screen.go -package=mocks github.com/ilikebug/oTools/internal/plugin Screen

// Pool is the plugin pool surface exposed to plugins
type Pool interface {
	List() []plugin.Summary
	Execute(ctx context.Context, name, action string, args ...interface{}) plugin.Result
	Show(name string) bool
	Hide(name string) bool
	Toggle(ctx context.Context, name string) plugin.Result
	Status(name string) plugin.WindowStatus
	Uninstall(name string, removeFiles bool) plugin.Result
	SetConfig(name string, patch map[string]interface{}) plugin.Result
	Minimise(name string) error
	ToggleMaximise(name string) error
}

// Config reads and writes the main configuration by dotted path
type Config interface {
	Get(path string) (interface{}, bool)
	Set(path string, value interface{}) error
}

// Store is the per-plugin key-value storage
type Store interface {
	GetValue(namespace, key string) (json.RawMessage, bool, error)
	SetValue(namespace, key string, value json.RawMessage) error
	DeleteValue(namespace, key string) (bool, error)
}

// Desktop wraps OS integrations
type Desktop interface {
	CaptureScreen(ctx context.Context) ([]byte, error)
	RecognizeText(ctx context.Context, image []byte) (string, error)
	ReadClipboard() (string, error)
	WriteClipboard(text string) error
	ReadClipboardImage(ctx context.Context) ([]byte, error)
	WriteClipboardImage(ctx context.Context, png []byte) error
	TypeText(ctx context.Context, text string) error
	PressKeys(ctx context.Context, accelerator string) error
	MoveMouse(ctx context.Context, x, y int) error
	Click(ctx context.Context, button string, double bool) error
	Notify(title, body string) error
	OpenExternal(ctx context.Context, target string) error
}

// FileFilter restricts a file dialog to matching names
type FileFilter struct {
	Name    string `json:"name"`
	Pattern string `json:"pattern"`
}

// DialogOptions configures an open or save dialog
type DialogOptions struct {
	Title       string       `json:"title"`
	DefaultPath string       `json:"defaultPath"`
	DefaultName string       `json:"defaultName"`
	Filters     []FileFilter `json:"filters"`
	Multiple    bool         `json:"multiple"`
	Directory   bool         `json:"directory"`
}

// Dialogs shows native file dialogs. A cancelled dialog returns no paths.
type Dialogs interface {
	OpenFile(ctx context.Context, opts DialogOptions) ([]string, error)
	SaveFile(ctx context.Context, opts DialogOptions) (string, error)
}

// AppStatus is the launcher status reported to plugins
type AppStatus struct {
	Status         string `json:"status"`
	Uptime         int64  `json:"uptime"`
	RunningPlugins int    `json:"runningPlugins"`
	Version        string `json:"version"`
}

// AppInfo reports launcher status
type AppInfo interface {
	AppStatus() AppStatus
}

// Deps are the collaborators a Bridge routes calls to. Nil members make
// their capabilities fail as unavailable.
type Deps struct {
	Pool    Pool
	Config  Config
	Store   Store
	Desktop Desktop
	Dialogs Dialogs
	Screen  plugin.Screen
	App     AppInfo
}
