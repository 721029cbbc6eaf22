package plugin

import "errors"

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when an operation references an unknown plugin.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrCapacity is returned when the pool is at its maximum number of live contexts.
	ErrCapacity = errors.New("maximum plugin process number reached")

	// ErrNotRunning is returned when a plugin has no live context.
	ErrNotRunning = errors.New("plugin is not running")

	// ErrTimeout is returned when a plugin window does not finish loading in time.
	ErrTimeout = errors.New("plugin window load timed out")

	// ErrInvalidManifest is returned when plugin.json is missing, empty or unparseable.
	ErrInvalidManifest = errors.New("invalid plugin manifest")

	// ErrMissingName is returned when plugin.json has no name.
	ErrMissingName = errors.New("manifest: name is required")

	// ErrEntryNotFound is returned when the UI entry file does not exist.
	ErrEntryNotFound = errors.New("plugin main page does not exist")

	// ErrPreloadNotFound is returned when a declared preload script does not exist.
	ErrPreloadNotFound = errors.New("plugin preload script does not exist")

	// ErrWindowClosed is returned when a window goes away while it is being created.
	ErrWindowClosed = errors.New("plugin window closed during startup")

	// ErrInvalidTransition is returned for a lifecycle transition that does not apply.
	ErrInvalidTransition = errors.New("invalid window transition")

	// ErrFunctionNotFound is returned for a capability name outside the allow-list.
	ErrFunctionNotFound = errors.New("function not found")

	// ErrInvalidArgument is returned when a call carries malformed arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)
