package hotkey

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/menu/keys"
)

// modifierAliases maps common accelerator spellings onto Wails modifiers
var modifierAliases = map[string]string{
	"alt":              "optionoralt",
	"option":           "optionoralt",
	"cmd":              "cmdorctrl",
	"command":          "cmdorctrl",
	"commandorcontrol": "cmdorctrl",
	"control":          "ctrl",
}

// Parse parses an accelerator such as "Alt+Space" or "CmdOrCtrl+Shift+K"
func Parse(accelerator string) (*keys.Accelerator, error) {
	accelerator = strings.TrimSpace(accelerator)
	if accelerator == "" {
		return nil, fmt.Errorf("empty accelerator")
	}

	parts := strings.Split(accelerator, "+")
	for i := 0; i < len(parts)-1; i++ {
		if alias, ok := modifierAliases[strings.ToLower(strings.TrimSpace(parts[i]))]; ok {
			parts[i] = alias
		}
	}

	accel, err := keys.Parse(strings.Join(parts, "+"))
	if err != nil {
		return nil, fmt.Errorf("invalid accelerator %q: %w", accelerator, err)
	}
	return accel, nil
}

// Canonical renders an accelerator in a stable form used for duplicate
// detection: sorted modifiers, lowercase key.
func Canonical(accel *keys.Accelerator) string {
	mods := make([]string, 0, len(accel.Modifiers))
	for _, m := range accel.Modifiers {
		mods = append(mods, string(m))
	}
	sort.Strings(mods)
	return strings.Join(append(mods, strings.ToLower(accel.Key)), "+")
}
