package bridge

import (
	"context"
	"os"
	"runtime"

	"github.com/ilikebug/oTools/internal/plugin"
)

func (b *Bridge) getPlugins(_ context.Context, _ *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	return plugin.OK("", map[string]interface{}{"plugins": b.deps.Pool.List()})
}

// executePlugin(name, action = "default", ...args)
func (b *Bridge) executePlugin(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	name, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	action, err := call.OptString(1, "default")
	if err != nil {
		return fail(err)
	}
	return b.deps.Pool.Execute(ctx, name, action, call.Rest(2)...)
}

func (b *Bridge) showPlugin(_ context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	name, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	if !b.deps.Pool.Show(name) {
		return plugin.Failf(plugin.CodeNotRunning, "Plugin %s is not running", name)
	}
	return plugin.OK("Plugin window shown", nil)
}

func (b *Bridge) hidePlugin(_ context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	name, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	hidden := b.deps.Pool.Hide(name)
	return plugin.OK("", map[string]interface{}{"hidden": hidden})
}

func (b *Bridge) togglePlugin(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	name, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	return b.deps.Pool.Toggle(ctx, name)
}

func (b *Bridge) getPluginStatus(_ context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	name, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	return plugin.OK("", b.deps.Pool.Status(name))
}

// uninstallPlugin(name, removeFiles = true)
func (b *Bridge) uninstallPlugin(_ context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	name, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	removeFiles, err := call.OptBool(1, true)
	if err != nil {
		return fail(err)
	}
	return b.deps.Pool.Uninstall(name, removeFiles)
}

func (b *Bridge) setPluginConfig(_ context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	name, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	var patch map[string]interface{}
	if err := call.Decode(1, &patch); err != nil {
		return fail(err)
	}
	return b.deps.Pool.SetConfig(name, patch)
}

// The caller's own window

func (b *Bridge) minimizeWindow(_ context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	if err := b.deps.Pool.Minimise(call.Caller); err != nil {
		return fail(err)
	}
	return plugin.OK("Window minimized", nil)
}

func (b *Bridge) maximizeWindow(_ context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	if err := b.deps.Pool.ToggleMaximise(call.Caller); err != nil {
		return fail(err)
	}
	return plugin.OK("Window maximize toggled", nil)
}

func (b *Bridge) showWindow(_ context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	if !b.deps.Pool.Show(call.Caller) {
		return plugin.Failf(plugin.CodeNotRunning, "Window not found")
	}
	return plugin.OK("Window shown", nil)
}

func (b *Bridge) hideWindow(_ context.Context, call *Call) plugin.Result {
	if b.deps.Pool == nil {
		return unavailable("plugin pool")
	}
	b.deps.Pool.Hide(call.Caller)
	return plugin.OK("Window hidden", nil)
}

// Configuration and application

// getConfig(path = "")
func (b *Bridge) getConfig(_ context.Context, call *Call) plugin.Result {
	if b.deps.Config == nil {
		return unavailable("configuration")
	}
	path, err := call.OptString(0, "")
	if err != nil {
		return fail(err)
	}
	value, ok := b.deps.Config.Get(path)
	if !ok {
		return plugin.Failf(plugin.CodeNotFound, "Config %s not found", path)
	}
	return plugin.OK("", map[string]interface{}{"value": value})
}

// setConfig(path, value)
func (b *Bridge) setConfig(_ context.Context, call *Call) plugin.Result {
	if b.deps.Config == nil {
		return unavailable("configuration")
	}
	path, err := call.String(0)
	if err != nil {
		return fail(err)
	}
	var value interface{}
	if err := call.Decode(1, &value); err != nil {
		return fail(err)
	}
	if err := b.deps.Config.Set(path, value); err != nil {
		return plugin.Failf(plugin.CodeInvalidArgument, "%v", err)
	}
	return plugin.OK("Configuration updated successfully", nil)
}

func (b *Bridge) getAppStatus(_ context.Context, _ *Call) plugin.Result {
	if b.deps.App == nil {
		return unavailable("application status")
	}
	return plugin.OK("", b.deps.App.AppStatus())
}

func (b *Bridge) getSystemInfo(_ context.Context, _ *Call) plugin.Result {
	hostname, _ := os.Hostname()
	home, _ := os.UserHomeDir()
	return plugin.OK("", map[string]interface{}{
		"platform":  runtime.GOOS,
		"arch":      runtime.GOARCH,
		"hostname":  hostname,
		"homedir":   home,
		"tmpdir":    os.TempDir(),
		"cpus":      runtime.NumCPU(),
		"goVersion": runtime.Version(),
		"pid":       os.Getpid(),
	})
}
