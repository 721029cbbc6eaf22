package bridge

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/ilikebug/oTools/internal/plugin"
)

const pngDataURLPrefix = "data:image/png;base64,"

// decodeImage accepts raw base64 or a data URL
func decodeImage(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:image/") {
		if i := strings.Index(data, ";base64,"); i >= 0 {
			data = data[i+len(";base64,"):]
		}
	}
	return base64.StdEncoding.DecodeString(data)
}

func (b *Bridge) captureScreen(ctx context.Context, _ *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	image, err := b.deps.Desktop.CaptureScreen(ctx)
	if err != nil {
		return fail(err)
	}
	return plugin.OK("Screenshot captured successfully", map[string]interface{}{
		"imageData": base64.StdEncoding.EncodeToString(image),
	})
}

func (b *Bridge) performOCR(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	data, err := call.String(0)
	if err != nil || data == "" {
		return plugin.Failf(plugin.CodeInvalidArgument, "No executable image")
	}
	image, err := decodeImage(data)
	if err != nil {
		return plugin.Failf(plugin.CodeInvalidArgument, "Invalid image data: %v", err)
	}
	text, err := b.deps.Desktop.RecognizeText(ctx, image)
	if err != nil {
		return plugin.Failf(plugin.CodeInternal, "OCR failed: %v", err)
	}
	return plugin.OK("OCR performed successfully", map[string]interface{}{"text": text})
}

func (b *Bridge) captureAndOCR(ctx context.Context, _ *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	image, err := b.deps.Desktop.CaptureScreen(ctx)
	if err != nil {
		return plugin.Failf(plugin.CodeOf(err), "Screenshot and OCR failed: %v", err)
	}
	text, err := b.deps.Desktop.RecognizeText(ctx, image)
	if err != nil {
		return plugin.Failf(plugin.CodeInternal, "Screenshot and OCR failed: %v", err)
	}
	return plugin.OK("Screenshot and OCR completed successfully", map[string]interface{}{
		"imageData": base64.StdEncoding.EncodeToString(image),
		"text":      text,
	})
}

func (b *Bridge) getScreenInfo(_ context.Context, _ *Call) plugin.Result {
	if b.deps.Screen == nil {
		return unavailable("screen")
	}
	displays, err := b.deps.Screen.Displays()
	if err != nil {
		return fail(err)
	}
	data := map[string]interface{}{"displays": displays}
	for _, d := range displays {
		if d.Primary {
			data["primaryDisplay"] = d
			break
		}
	}
	if cursor, err := b.deps.Screen.Cursor(); err == nil {
		data["cursor"] = cursor
	}
	return plugin.OK("", data)
}

// Key-value storage, namespaced by the calling plugin

func (b *Bridge) getDbValue(_ context.Context, call *Call) plugin.Result {
	if b.deps.Store == nil {
		return unavailable("storage")
	}
	key, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	value, ok, err := b.deps.Store.GetValue(call.Caller, key)
	if err != nil {
		return plugin.Failf(plugin.CodeIO, "%v", err)
	}
	if !ok {
		return plugin.OK("", map[string]interface{}{"value": nil})
	}
	return plugin.OK("", map[string]interface{}{"value": value})
}

func (b *Bridge) setDbValue(_ context.Context, call *Call) plugin.Result {
	if b.deps.Store == nil {
		return unavailable("storage")
	}
	key, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	value, ok := call.arg(1)
	if !ok {
		return fail(invalidArg(1, "is required"))
	}
	if err := b.deps.Store.SetValue(call.Caller, key, value); err != nil {
		return plugin.Failf(plugin.CodeIO, "%v", err)
	}
	return plugin.OK("Value stored successfully", nil)
}

func (b *Bridge) deleteDbValue(_ context.Context, call *Call) plugin.Result {
	if b.deps.Store == nil {
		return unavailable("storage")
	}
	key, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	existed, err := b.deps.Store.DeleteValue(call.Caller, key)
	if err != nil {
		return plugin.Failf(plugin.CodeIO, "%v", err)
	}
	if !existed {
		return plugin.OK("Key not found", nil)
	}
	return plugin.OK("Value deleted successfully", nil)
}

// Clipboard

func (b *Bridge) readClipboard(_ context.Context, _ *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	text, err := b.deps.Desktop.ReadClipboard()
	if err != nil {
		return fail(err)
	}
	return plugin.OK("", map[string]interface{}{"text": text})
}

func (b *Bridge) writeClipboard(_ context.Context, call *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	text, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	if err := b.deps.Desktop.WriteClipboard(text); err != nil {
		return fail(err)
	}
	return plugin.OK("Text copied to clipboard", nil)
}

func (b *Bridge) readClipboardImage(ctx context.Context, _ *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	image, err := b.deps.Desktop.ReadClipboardImage(ctx)
	if err != nil {
		return fail(err)
	}
	if len(image) == 0 {
		return plugin.Failf(plugin.CodeNotFound, "No image in clipboard")
	}
	return plugin.OK("", map[string]interface{}{
		"imageData": pngDataURLPrefix + base64.StdEncoding.EncodeToString(image),
	})
}

func (b *Bridge) writeClipboardImage(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	data, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	image, err := decodeImage(data)
	if err != nil {
		return plugin.Failf(plugin.CodeInvalidArgument, "Invalid image data: %v", err)
	}
	if err := b.deps.Desktop.WriteClipboardImage(ctx, image); err != nil {
		return fail(err)
	}
	return plugin.OK("Image copied to clipboard", nil)
}

// Input simulation

func (b *Bridge) typeText(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	text, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	if err := b.deps.Desktop.TypeText(ctx, text); err != nil {
		return fail(err)
	}
	return plugin.OK("Text typed", nil)
}

func (b *Bridge) pressKeys(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	keys, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	if err := b.deps.Desktop.PressKeys(ctx, keys); err != nil {
		return fail(err)
	}
	return plugin.OK("Keys pressed", nil)
}

func (b *Bridge) moveMouse(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	x, err := call.Int(0)
	if err != nil {
		return fail(err)
	}
	y, err := call.Int(1)
	if err != nil {
		return fail(err)
	}
	if err := b.deps.Desktop.MoveMouse(ctx, x, y); err != nil {
		return fail(err)
	}
	return plugin.OK("Mouse moved", nil)
}

// clickMouse(button = "left", double = false)
func (b *Bridge) clickMouse(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	button, err := call.OptString(0, "left")
	if err != nil {
		return fail(err)
	}
	switch button {
	case "left", "right", "middle":
	default:
		return plugin.Failf(plugin.CodeInvalidArgument, "Unknown mouse button %s", button)
	}
	double, err := call.OptBool(1, false)
	if err != nil {
		return fail(err)
	}
	if err := b.deps.Desktop.Click(ctx, button, double); err != nil {
		return fail(err)
	}
	return plugin.OK("Mouse clicked", nil)
}

// Desktop

// showNotification(title, body = "")
func (b *Bridge) showNotification(_ context.Context, call *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	title, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	body, err := call.OptString(1, "")
	if err != nil {
		return fail(err)
	}
	if err := b.deps.Desktop.Notify(title, body); err != nil {
		return fail(err)
	}
	return plugin.OK("Notification shown", nil)
}

func (b *Bridge) openExternal(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Desktop == nil {
		return unavailable("desktop")
	}
	target, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") &&
		!strings.HasPrefix(target, "mailto:") && !strings.HasPrefix(target, "file://") {
		return plugin.Failf(plugin.CodeInvalidArgument, "Unsupported link %s", target)
	}
	if err := b.deps.Desktop.OpenExternal(ctx, target); err != nil {
		return fail(err)
	}
	return plugin.OK("Opened external link", nil)
}
