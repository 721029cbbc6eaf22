package window

import (
	"encoding/json"
	"strconv"

	"github.com/ilikebug/oTools/internal/plugin"
)

// Host to window requests
const (
	MethodShow           = "window.show"
	MethodHide           = "window.hide"
	MethodFocus          = "window.focus"
	MethodSetAlwaysOnTop = "window.setAlwaysOnTop"
	MethodSetPosition    = "window.setPosition"
	MethodBounds         = "window.bounds"
	MethodMinimise       = "window.minimise"
	MethodToggleMaximise = "window.toggleMaximise"
	MethodClose          = "window.close"
)

// Host to window notifications
const (
	NotifyEvent = "plugin.event"
)

// Window to host messages
const (
	NotifyReady          = "window.ready"
	NotifyCloseRequested = "window.closeRequested"
	MethodBridgeCall     = "bridge.call"
)

// LevelParams is the payload of window.setAlwaysOnTop
type LevelParams struct {
	Level plugin.TopLevel `json:"level"`
}

// EventParams is the payload of plugin.event
type EventParams struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// ReadyParams is the payload of window.ready. A non-empty Error means the
// entry failed to load.
type ReadyParams struct {
	Error string `json:"error,omitempty"`
}

// CallParams is the payload of bridge.call
type CallParams struct {
	Name string            `json:"name"`
	Args []json.RawMessage `json:"args"`
}

// Options are the command line options of the window process
type Options struct {
	Plugin      string
	Dir         string
	Entry       string
	Remote      bool
	Preload     string
	Width       int
	Height      int
	Title       string
	Frame       bool
	HideOnBlur  bool
	AlwaysOnTop bool
	Debug       bool
}

// OptionsFromSpec maps a window spec onto process options
func OptionsFromSpec(spec plugin.WindowSpec) Options {
	return Options{
		Plugin:      spec.Plugin,
		Dir:         spec.Dir,
		Entry:       spec.Entry,
		Remote:      spec.Remote,
		Preload:     spec.Preload,
		Width:       spec.Width,
		Height:      spec.Height,
		Title:       spec.Title,
		Frame:       spec.Frame,
		HideOnBlur:  spec.HideOnBlur,
		AlwaysOnTop: spec.AlwaysOnTop,
		Debug:       spec.Debug,
	}
}

// Args renders the options as window process flags
func (o Options) Args() []string {
	args := []string{
		"--plugin", o.Plugin,
		"--dir", o.Dir,
		"--entry", o.Entry,
		"--width", strconv.Itoa(o.Width),
		"--height", strconv.Itoa(o.Height),
		"--title", o.Title,
		"--frame=" + strconv.FormatBool(o.Frame),
		"--always-on-top=" + strconv.FormatBool(o.AlwaysOnTop),
	}
	if o.Preload != "" {
		args = append(args, "--preload", o.Preload)
	}
	if o.Remote {
		args = append(args, "--remote")
	}
	if o.HideOnBlur {
		args = append(args, "--hide-on-blur")
	}
	if o.Debug {
		args = append(args, "--debug")
	}
	return args
}
