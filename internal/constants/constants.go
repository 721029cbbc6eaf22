package constants

import "time"

// Plugin lifecycle timing constants
const (
	// WatchDebounceDelay is the quiet interval after which a burst of
	// filesystem events for one plugin is flushed as a single reload
	WatchDebounceDelay = 50 * time.Millisecond

	// TopMostRestoreDelay is how long a shown window stays at the elevated
	// always-on-top level before returning to the normal level
	TopMostRestoreDelay = 100 * time.Millisecond

	// DefaultCreateTimeout bounds window creation when the config has none
	DefaultCreateTimeout = 30 * time.Second

	// WindowStopGrace is how long a window process gets to exit after a close request
	WindowStopGrace = 2 * time.Second

	// WindowCallTimeout bounds one host-to-window control call
	WindowCallTimeout = 5 * time.Second

	// ShutdownTimeout bounds the launcher shutdown sequence
	ShutdownTimeout = 5 * time.Second
)

// Placement constants
const (
	// RecenterThreshold is the distance in pixels under which a window is
	// focused in place instead of being moved to the target center
	RecenterThreshold = 50
)

// Pool defaults
const (
	// DefaultMaxProcesses is the default ceiling on live plugin windows
	DefaultMaxProcesses = 10
)

// On-disk plugin bundle contract
const (
	ManifestFile   = "plugin.json"
	DefaultHTML    = "index.html"
	DefaultPreload = "preload.js"
	DefaultWidth   = 900
	DefaultHeight  = 600
)
