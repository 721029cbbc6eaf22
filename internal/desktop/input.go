package desktop

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/menu/keys"

	"github.com/ilikebug/oTools/internal/hotkey"
)

// xdotool key names for named accelerator keys
var xdotoolKeys = map[string]string{
	"space":     "space",
	"tab":       "Tab",
	"enter":     "Return",
	"return":    "Return",
	"escape":    "Escape",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"home":      "Home",
	"end":       "End",
	"page up":   "Page_Up",
	"page down": "Page_Down",
	"left":      "Left",
	"right":     "Right",
	"up":        "Up",
	"down":      "Down",
}

// macOS virtual key codes for keys keystroke cannot type
var macKeyCodes = map[string]int{
	"enter":     36,
	"return":    36,
	"tab":       48,
	"space":     49,
	"backspace": 51,
	"escape":    53,
	"delete":    117,
	"home":      115,
	"end":       119,
	"page up":   116,
	"page down": 121,
	"left":      123,
	"right":     124,
	"down":      125,
	"up":        126,
}

func (d *Desktop) requireTool(name string) error {
	if _, ok := d.tool(name); !ok {
		return fmt.Errorf("%w: install %s", ErrUnsupported, name)
	}
	return nil
}

// appleScriptString quotes s for AppleScript
func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// TypeText types text into the focused window
func (d *Desktop) TypeText(ctx context.Context, text string) error {
	switch d.goos {
	case "darwin":
		script := `tell application "System Events" to keystroke ` + appleScriptString(text)
		_, err := d.runner.Run(ctx, "osascript", "-e", script)
		return err
	case "linux":
		if err := d.requireTool("xdotool"); err != nil {
			return err
		}
		_, err := d.runner.Run(ctx, "xdotool", "type", "--delay", "0", "--", text)
		return err
	default:
		return fmt.Errorf("%w: input simulation on %s", ErrUnsupported, d.goos)
	}
}

// PressKeys presses an accelerator such as CmdOrCtrl+Shift+V
func (d *Desktop) PressKeys(ctx context.Context, accelerator string) error {
	accel, err := hotkey.Parse(accelerator)
	if err != nil {
		return err
	}

	switch d.goos {
	case "darwin":
		_, err = d.runner.Run(ctx, "osascript", "-e", macKeystroke(accel))
		return err
	case "linux":
		if err := d.requireTool("xdotool"); err != nil {
			return err
		}
		_, err = d.runner.Run(ctx, "xdotool", "key", "--clearmodifiers", xdotoolCombo(accel))
		return err
	default:
		return fmt.Errorf("%w: input simulation on %s", ErrUnsupported, d.goos)
	}
}

func xdotoolCombo(accel *keys.Accelerator) string {
	parts := make([]string, 0, len(accel.Modifiers)+1)
	for _, m := range accel.Modifiers {
		switch m {
		case keys.CmdOrCtrlKey, keys.ControlKey:
			parts = append(parts, "ctrl")
		case keys.OptionOrAltKey:
			parts = append(parts, "alt")
		case keys.ShiftKey:
			parts = append(parts, "shift")
		}
	}

	key := strings.ToLower(accel.Key)
	switch {
	case xdotoolKeys[key] != "":
		key = xdotoolKeys[key]
	case len(key) > 1 && key[0] == 'f':
		if _, err := strconv.Atoi(key[1:]); err == nil {
			key = strings.ToUpper(key)
		}
	}
	return strings.Join(append(parts, key), "+")
}

func macKeystroke(accel *keys.Accelerator) string {
	var using []string
	for _, m := range accel.Modifiers {
		switch m {
		case keys.CmdOrCtrlKey:
			using = append(using, "command down")
		case keys.ControlKey:
			using = append(using, "control down")
		case keys.OptionOrAltKey:
			using = append(using, "option down")
		case keys.ShiftKey:
			using = append(using, "shift down")
		}
	}

	key := strings.ToLower(accel.Key)
	var script string
	if code, ok := macKeyCodes[key]; ok {
		script = fmt.Sprintf(`tell application "System Events" to key code %d`, code)
	} else {
		script = `tell application "System Events" to keystroke ` + appleScriptString(key)
	}
	if len(using) > 0 {
		script += " using {" + strings.Join(using, ", ") + "}"
	}
	return script
}

// MoveMouse moves the pointer to screen coordinates
func (d *Desktop) MoveMouse(ctx context.Context, x, y int) error {
	switch d.goos {
	case "darwin":
		if err := d.requireTool("cliclick"); err != nil {
			return err
		}
		_, err := d.runner.Run(ctx, "cliclick", fmt.Sprintf("m:%d,%d", x, y))
		return err
	case "linux":
		if err := d.requireTool("xdotool"); err != nil {
			return err
		}
		_, err := d.runner.Run(ctx, "xdotool", "mousemove", strconv.Itoa(x), strconv.Itoa(y))
		return err
	default:
		return fmt.Errorf("%w: input simulation on %s", ErrUnsupported, d.goos)
	}
}

// Click clicks a mouse button at the current pointer position
func (d *Desktop) Click(ctx context.Context, button string, double bool) error {
	switch d.goos {
	case "darwin":
		if err := d.requireTool("cliclick"); err != nil {
			return err
		}
		var cmd string
		switch {
		case button == "left" && double:
			cmd = "dc:."
		case button == "left":
			cmd = "c:."
		case button == "right" && !double:
			cmd = "rc:."
		default:
			return fmt.Errorf("%w: %s click on darwin", ErrUnsupported, button)
		}
		_, err := d.runner.Run(ctx, "cliclick", cmd)
		return err
	case "linux":
		if err := d.requireTool("xdotool"); err != nil {
			return err
		}
		buttons := map[string]string{"left": "1", "middle": "2", "right": "3"}
		code, ok := buttons[button]
		if !ok {
			return fmt.Errorf("unknown mouse button %s", button)
		}
		repeat := "1"
		if double {
			repeat = "2"
		}
		_, err := d.runner.Run(ctx, "xdotool", "click", "--repeat", repeat, code)
		return err
	default:
		return fmt.Errorf("%w: input simulation on %s", ErrUnsupported, d.goos)
	}
}

// CursorPosition returns the pointer position in screen pixels
func (d *Desktop) CursorPosition(ctx context.Context) (x, y int, err error) {
	var out []byte
	switch d.goos {
	case "darwin":
		if err := d.requireTool("cliclick"); err != nil {
			return 0, 0, err
		}
		out, err = d.runner.Run(ctx, "cliclick", "p")
	case "linux":
		if err := d.requireTool("xdotool"); err != nil {
			return 0, 0, err
		}
		out, err = d.runner.Run(ctx, "xdotool", "getmouselocation", "--shell")
	default:
		return 0, 0, fmt.Errorf("%w: cursor position on %s", ErrUnsupported, d.goos)
	}
	if err != nil {
		return 0, 0, err
	}
	return parseCursor(string(out))
}

// parseCursor reads "X=10\nY=20\n..." from xdotool or "10,20" from cliclick
func parseCursor(out string) (int, int, error) {
	out = strings.TrimSpace(out)
	if strings.Contains(out, "=") {
		vals := map[string]int{}
		for _, line := range strings.Split(out, "\n") {
			k, v, ok := strings.Cut(strings.TrimSpace(line), "=")
			if !ok {
				continue
			}
			if n, err := strconv.Atoi(v); err == nil {
				vals[k] = n
			}
		}
		x, okX := vals["X"]
		y, okY := vals["Y"]
		if !okX || !okY {
			return 0, 0, fmt.Errorf("unexpected cursor output %q", out)
		}
		return x, y, nil
	}

	xs, ys, ok := strings.Cut(out, ",")
	if !ok {
		return 0, 0, fmt.Errorf("unexpected cursor output %q", out)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf("unexpected cursor output %q", out)
	}
	return x, y, nil
}
