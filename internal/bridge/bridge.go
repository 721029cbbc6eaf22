package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/plugin"
)

// errUnavailable marks a capability whose collaborator is not configured
var errUnavailable = errors.New("capability unavailable")

type handler func(ctx context.Context, call *Call) plugin.Result

// Bridge routes capability calls from plugin windows to host functions
type Bridge struct {
	deps     Deps
	handlers [capabilityCount]handler
}

// New builds the dispatch table
func New(deps Deps) *Bridge {
	b := &Bridge{deps: deps}
	b.handlers = [capabilityCount]handler{
		CapGetPlugins:          b.getPlugins,
		CapExecutePlugin:       b.executePlugin,
		CapShowPlugin:          b.showPlugin,
		CapHidePlugin:          b.hidePlugin,
		CapTogglePlugin:        b.togglePlugin,
		CapGetPluginStatus:     b.getPluginStatus,
		CapUninstallPlugin:     b.uninstallPlugin,
		CapSetPluginConfig:     b.setPluginConfig,
		CapGetConfig:           b.getConfig,
		CapSetConfig:           b.setConfig,
		CapGetAppStatus:        b.getAppStatus,
		CapGetSystemInfo:       b.getSystemInfo,
		CapCaptureScreen:       b.captureScreen,
		CapPerformOCR:          b.performOCR,
		CapCaptureAndOCR:       b.captureAndOCR,
		CapGetScreenInfo:       b.getScreenInfo,
		CapShowOpenDialog:      b.showOpenDialog,
		CapShowSaveDialog:      b.showSaveDialog,
		CapReadFile:            b.readFile,
		CapWriteFile:           b.writeFile,
		CapFileExists:          b.fileExists,
		CapCreateDirectory:     b.createDirectory,
		CapListDirectory:       b.listDirectory,
		CapGetFileInfo:         b.getFileInfo,
		CapDeleteFile:          b.deleteFile,
		CapCopyFile:            b.copyFile,
		CapMoveFile:            b.moveFile,
		CapMinimizeWindow:      b.minimizeWindow,
		CapMaximizeWindow:      b.maximizeWindow,
		CapShowWindow:          b.showWindow,
		CapHideWindow:          b.hideWindow,
		CapGetDbValue:          b.getDbValue,
		CapSetDbValue:          b.setDbValue,
		CapDeleteDbValue:       b.deleteDbValue,
		CapReadClipboard:       b.readClipboard,
		CapWriteClipboard:      b.writeClipboard,
		CapReadClipboardImage:  b.readClipboardImage,
		CapWriteClipboardImage: b.writeClipboardImage,
		CapTypeText:            b.typeText,
		CapPressKeys:           b.pressKeys,
		CapMoveMouse:           b.moveMouse,
		CapClickMouse:          b.clickMouse,
		CapShowNotification:    b.showNotification,
		CapOpenExternal:        b.openExternal,
		CapGenerateUUID:        b.generateUUID,
		CapHashString:          b.hashString,
		CapEncryptText:         b.encryptText,
		CapDecryptText:         b.decryptText,
	}
	return b
}

// Dispatch runs one capability call. It never panics.
func (b *Bridge) Dispatch(ctx context.Context, caller, name string, args []json.RawMessage) (res plugin.Result) {
	capability, ok := Lookup(name)
	if !ok || b.handlers[capability] == nil {
		logger.Log.Warn().Str("plugin", caller).Str("function", name).Msg("Unknown capability called")
		return plugin.Failf(plugin.CodeFunctionNotFound, "Function %s not found", name)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error().
				Str("plugin", caller).
				Str("function", name).
				Interface("panic", r).
				Msg("Capability handler panicked")
			res = plugin.Failf(plugin.CodeInternal, "%s failed: %v", name, r)
		}
	}()

	res = b.handlers[capability](ctx, &Call{Caller: caller, Args: args})
	if !res.Success {
		logger.Log.Debug().
			Str("plugin", caller).
			Str("function", name).
			Str("code", string(res.Code)).
			Str("message", res.Message).
			Msg("Capability call failed")
	}
	return res
}

// fail converts an error into a failed result
func fail(err error) plugin.Result {
	if errors.Is(err, errUnavailable) {
		return plugin.Failf(plugin.CodeInternal, "%s", err.Error())
	}
	return plugin.Fail(err)
}

func unavailable(what string) plugin.Result {
	return fail(fmt.Errorf("%w: %s", errUnavailable, what))
}

// Call is one capability invocation with positional arguments
type Call struct {
	Caller string
	Args   []json.RawMessage
}

func (c *Call) arg(i int) (json.RawMessage, bool) {
	if i >= len(c.Args) {
		return nil, false
	}
	raw := c.Args[i]
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	return raw, true
}

func invalidArg(i int, format string, args ...interface{}) error {
	return fmt.Errorf("%w: argument %d %s", plugin.ErrInvalidArgument, i+1, fmt.Sprintf(format, args...))
}

// Decode unmarshals a required argument into v
func (c *Call) Decode(i int, v interface{}) error {
	raw, ok := c.arg(i)
	if !ok {
		return invalidArg(i, "is required")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return invalidArg(i, "is malformed: %v", err)
	}
	return nil
}

// String returns a required string argument
func (c *Call) String(i int) (string, error) {
	var s string
	if err := c.Decode(i, &s); err != nil {
		return "", err
	}
	return s, nil
}

// OptString returns a string argument or def when absent
func (c *Call) OptString(i int, def string) (string, error) {
	if _, ok := c.arg(i); !ok {
		return def, nil
	}
	return c.String(i)
}

// OptBool returns a bool argument or def when absent
func (c *Call) OptBool(i int, def bool) (bool, error) {
	if _, ok := c.arg(i); !ok {
		return def, nil
	}
	var v bool
	if err := c.Decode(i, &v); err != nil {
		return false, err
	}
	return v, nil
}

// Int returns a required integer argument. Whole floats such as 2.0 are
// accepted; fractions and values outside the int range are not.
func (c *Call) Int(i int) (int, error) {
	var f float64
	if err := c.Decode(i, &f); err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, invalidArg(i, "must be an integer, got %v", f)
	}
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, invalidArg(i, "is out of range: %v", f)
	}
	return int(f), nil
}

// Rest returns the arguments from i on, undecoded
func (c *Call) Rest(i int) []interface{} {
	if i >= len(c.Args) {
		return nil
	}
	rest := make([]interface{}, 0, len(c.Args)-i)
	for _, raw := range c.Args[i:] {
		rest = append(rest, raw)
	}
	return rest
}
