package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"

	"github.com/ilikebug/oTools/internal/config"
	"github.com/ilikebug/oTools/internal/plugin"
)

type fakeRegistrar struct {
	registered map[string]func()
	resets     int
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{registered: make(map[string]func())}
}

func (r *fakeRegistrar) Register(accel *keys.Accelerator, b Binding, fn func()) error {
	r.registered[Canonical(accel)] = fn
	return nil
}

func (r *fakeRegistrar) UnregisterAll() {
	r.registered = make(map[string]func())
	r.resets++
}

func TestParseAliases(t *testing.T) {
	a, err := Parse("Alt+Space")
	require.NoError(t, err)
	assert.Equal(t, []keys.Modifier{keys.OptionOrAltKey}, a.Modifiers)

	b, err := Parse("Command+Shift+K")
	require.NoError(t, err)
	c, err := Parse("shift+cmdorctrl+k")
	require.NoError(t, err)
	assert.Equal(t, Canonical(b), Canonical(c), "modifier order does not matter")

	_, err = Parse("")
	assert.Error(t, err)
	_, err = Parse("Hyper+K")
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	cfg := config.Defaults()
	cfg.CustomShortcuts = []config.CustomShortcut{{Plugin: "clock", Accelerator: "CmdOrCtrl+1"}}
	plugins := []plugin.Summary{
		{Name: "notes", Enabled: true, Shortcut: "CmdOrCtrl+2"},
		{Name: "off", Enabled: false, Shortcut: "CmdOrCtrl+3"},
		{Name: "plain", Enabled: true},
	}

	got := Collect(cfg, plugins)
	assert.Equal(t, []Binding{
		{Accelerator: "Alt+Space", Source: SourceLauncher},
		{Accelerator: "CmdOrCtrl+1", Plugin: "clock", Source: SourceCustom},
		{Accelerator: "CmdOrCtrl+2", Plugin: "notes", Source: SourceManifest},
	}, got)
}

func TestApplyRejectsInvalidAndDuplicates(t *testing.T) {
	reg := newFakeRegistrar()
	var fired []Binding
	m := NewManager(reg, func(b Binding) { fired = append(fired, b) })

	errs := m.Apply([]Binding{
		{Accelerator: "Alt+Space", Source: SourceLauncher},
		{Accelerator: "CmdOrCtrl+1", Plugin: "clock", Source: SourceCustom},
		{Accelerator: "Option+Space", Plugin: "notes", Source: SourceManifest},
		{Accelerator: "Nope+", Plugin: "broken", Source: SourceCustom},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "the launcher toggle")
	assert.Len(t, reg.registered, 2)
	assert.Len(t, m.Bindings(), 2)

	require.True(t, m.Trigger("CmdOrCtrl+1"))
	require.Len(t, fired, 1)
	assert.Equal(t, "clock", fired[0].Plugin)
	assert.Equal(t, "default", fired[0].Action, "plugin bindings default to the default action")

	assert.False(t, m.Trigger("CmdOrCtrl+9"))
}

func TestApplyReplacesRegistrations(t *testing.T) {
	reg := newFakeRegistrar()
	var fired []string
	m := NewManager(reg, func(b Binding) { fired = append(fired, b.Plugin) })

	m.Apply([]Binding{{Accelerator: "CmdOrCtrl+1", Plugin: "clock"}})
	m.Apply([]Binding{{Accelerator: "CmdOrCtrl+2", Plugin: "notes"}})

	assert.Equal(t, 2, reg.resets)
	assert.False(t, m.Trigger("CmdOrCtrl+1"))

	// The registrar callback fires the binding it was registered with
	for _, fn := range reg.registered {
		fn()
	}
	assert.Equal(t, []string{"notes"}, fired)
}
