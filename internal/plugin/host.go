package plugin

import (
	"context"
	"encoding/json"
)

// TopLevel is a window z-order level
type TopLevel string

const (
	TopLevelNormal      TopLevel = "normal"
	TopLevelScreenSaver TopLevel = "screen-saver"
)

// Point is a screen position in pixels
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a screen rectangle in pixels
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether p lies inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Center returns the center of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Display is one monitor
type Display struct {
	ID       string `json:"id"`
	Bounds   Rect   `json:"bounds"`
	WorkArea Rect   `json:"workArea"`
	Primary  bool   `json:"primary"`
}

// Screen reports pointer position and monitor layout
type Screen interface {
	Cursor() (Point, error)
	Displays() ([]Display, error)
}

// CallHandler serves a capability call from a plugin window
type CallHandler func(ctx context.Context, name string, args []json.RawMessage) Result

// WindowEvents are the callbacks a host invokes for one window.
// Hosts invoke them on their own goroutine, never while holding a window call.
type WindowEvents struct {
	// CloseRequested fires when the user asks to close the window
	CloseRequested func()
	// Closed fires once after the window is gone
	Closed func()
	// Call serves capability calls from the window
	Call CallHandler
}

// WindowSpec is everything a host needs to open a plugin window
type WindowSpec struct {
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
	Events      WindowEvents
}

// WindowHost opens plugin windows. Open returns once the entry has loaded.
type WindowHost interface {
	Open(ctx context.Context, spec WindowSpec) (Window, error)
}

// Window is a handle to one open plugin window
type Window interface {
	Show() error
	Hide() error
	Focus() error
	SetAlwaysOnTop(level TopLevel) error
	Bounds() (Rect, error)
	SetPosition(p Point) error
	Minimise() error
	ToggleMaximise() error
	// Send delivers a one-way event to the plugin's script context
	Send(event string, payload interface{}) error
	// Close destroys the window without close interception
	Close() error
}

// Dispatcher routes capability calls made by a plugin
type Dispatcher interface {
	Dispatch(ctx context.Context, caller string, name string, args []json.RawMessage) Result
}
