package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ilikebug/oTools/internal/events"
)

type testManager struct {
	*Manager
	host  *fakeHost
	root  string
	roots *fakeRoots
	bus   *events.EventBus
}

func newTestManager(t *testing.T, maxProcesses int) *testManager {
	t.Helper()
	root := t.TempDir()
	host := newFakeHost()
	roots := &fakeRoots{}
	bus := events.NewEventBus()

	pm := NewManager(Options{
		DefaultRoot:   root,
		Roots:         roots,
		MaxProcesses:  maxProcesses,
		CreateTimeout: time.Second,
		Host:          host,
		Screen: &fakeScreen{displays: []Display{
			{ID: "main", Primary: true, Bounds: Rect{0, 0, 1920, 1080}, WorkArea: Rect{0, 0, 1920, 1080}},
		}},
		EventBus: bus,
	})
	pm.restoreDelay = time.Millisecond
	return &testManager{Manager: pm, host: host, root: root, roots: roots, bus: bus}
}

func (tm *testManager) add(t *testing.T, name, extra string) string {
	t.Helper()
	manifest := fmt.Sprintf(`{"name":%q%s}`, name, extra)
	return writePlugin(t, tm.root, name, manifest)
}

func (tm *testManager) reload(t *testing.T) {
	t.Helper()
	require.NoError(t, tm.Reload(context.Background(), ""))
}

func TestCapacityScenario(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "A", "")
	tm.add(t, "B", "")
	tm.reload(t)
	ctx := context.Background()

	a, err := tm.GetOrCreate(ctx, "A", false)
	require.NoError(t, err)
	tm.Release(a)

	_, err = tm.GetOrCreate(ctx, "B", false)
	require.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, 1, tm.ActiveCount())

	require.NoError(t, tm.Stop("A"))
	assert.True(t, tm.host.last(t, "A").IsClosed())

	b, err := tm.GetOrCreate(ctx, "B", false)
	require.NoError(t, err)
	tm.Release(b)
	assert.Equal(t, []string{"B"}, tm.Active())
}

func TestCapacityInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		max := rapid.IntRange(1, 5).Draw(rt, "max")
		tm := newTestManager(t, max)
		for i := 0; i <= max; i++ {
			tm.add(t, fmt.Sprintf("p%d", i), "")
		}
		tm.reload(t)
		ctx := context.Background()

		for i := 0; i < max; i++ {
			p, err := tm.GetOrCreate(ctx, fmt.Sprintf("p%d", i), false)
			if err != nil {
				rt.Fatalf("create p%d: %v", i, err)
			}
			tm.Release(p)
			if got := tm.ActiveCount(); got != i+1 {
				rt.Fatalf("active = %d, want %d", got, i+1)
			}

			// Reusing a live context does not take a slot
			again := rapid.IntRange(0, i).Draw(rt, "reuse")
			p, err = tm.GetOrCreate(ctx, fmt.Sprintf("p%d", again), false)
			if err != nil {
				rt.Fatalf("reuse p%d: %v", again, err)
			}
			tm.Release(p)
		}

		_, err := tm.GetOrCreate(ctx, fmt.Sprintf("p%d", max), false)
		if !errors.Is(err, ErrCapacity) {
			rt.Fatalf("expected capacity error, got %v", err)
		}
		if got := tm.ActiveCount(); got != max {
			rt.Fatalf("active = %d after rejection, want %d", got, max)
		}
		tm.StopAll()
	})
}

func TestGetOrCreateReusesBusyContext(t *testing.T) {
	tm := newTestManager(t, 5)
	tm.add(t, "clock", "")
	tm.reload(t)
	ctx := context.Background()

	first, err := tm.GetOrCreate(ctx, "clock", false)
	require.NoError(t, err)
	assert.Equal(t, StatusBusy, first.Status())

	second, err := tm.GetOrCreate(ctx, "clock", false)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, tm.host.opened("clock"), 1)

	tm.Release(first)
	assert.Equal(t, StatusBusy, first.Status())
	tm.Release(second)
	assert.Equal(t, StatusIdle, first.Status())
}

func TestGetOrCreateSerializesPerName(t *testing.T) {
	tm := newTestManager(t, 5)
	tm.add(t, "clock", "")
	tm.reload(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := tm.GetOrCreate(context.Background(), "clock", false)
			if err == nil {
				tm.Release(p)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, tm.host.opened("clock"), 1)
	assert.Equal(t, 1, tm.ActiveCount())
}

func TestGetOrCreateForceNew(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "clock", "")
	tm.reload(t)
	ctx := context.Background()

	p, err := tm.GetOrCreate(ctx, "clock", false)
	require.NoError(t, err)
	tm.Release(p)

	fresh, err := tm.GetOrCreate(ctx, "clock", true)
	require.NoError(t, err)
	tm.Release(fresh)

	assert.NotSame(t, p, fresh)
	windows := tm.host.opened("clock")
	require.Len(t, windows, 2)
	assert.True(t, windows[0].IsClosed())
	assert.False(t, windows[1].IsClosed())
	assert.Equal(t, 1, tm.ActiveCount())
}

func TestGetOrCreateUnknownPlugin(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.reload(t)

	_, err := tm.GetOrCreate(context.Background(), "nope", false)
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

func TestGetOrCreateMissingEntry(t *testing.T) {
	tm := newTestManager(t, 1)
	dir := tm.add(t, "clock", "")
	require.NoError(t, os.Remove(filepath.Join(dir, "index.html")))
	tm.reload(t)

	res := tm.Execute(context.Background(), "clock", "default")
	assert.False(t, res.Success)
	assert.Equal(t, CodeLoad, res.Code)
	assert.Equal(t, 0, tm.ActiveCount())
}

func TestCreateTimeout(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.createTimeout = 20 * time.Millisecond
	tm.add(t, "slow", "")
	tm.reload(t)

	tm.host.block.Store(true)
	res := tm.Execute(context.Background(), "slow", "default")
	assert.False(t, res.Success)
	assert.Equal(t, CodeTimeout, res.Code)
	assert.Equal(t, 0, tm.ActiveCount())

	// The reserved slot is released after the timeout
	tm.host.block.Store(false)
	res = tm.Execute(context.Background(), "slow", "default")
	assert.True(t, res.Success, res.Message)
}

func TestHostOpenError(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "clock", "")
	tm.reload(t)
	tm.host.err = errors.New("spawn failed")

	_, err := tm.GetOrCreate(context.Background(), "clock", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spawn failed")
	assert.Equal(t, 0, tm.ActiveCount())
}

func TestExecuteSendsActionAndShows(t *testing.T) {
	tm := newTestManager(t, 2)
	tm.add(t, "clock", "")
	tm.reload(t)

	res := tm.Execute(context.Background(), "clock", "open", "a", 1)
	require.True(t, res.Success, res.Message)

	w := tm.host.last(t, "clock")
	require.Len(t, w.sent, 1)
	assert.Equal(t, ExecutePayload{Action: "open", Args: []interface{}{"a", 1}}, w.sent[0])
	assert.Contains(t, w.Calls(), "show")
	assert.Contains(t, w.Calls(), "focus")

	status := tm.Status("clock")
	assert.True(t, status.Exists)
	assert.True(t, status.Visible)
	assert.Equal(t, StatusIdle, status.Status)

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return len(w.levels) == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, []TopLevel{TopLevelScreenSaver, TopLevelNormal}, w.levels)
}

func TestExecuteMovesToCursorDisplay(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.screen = &fakeScreen{cursor: Point{2000, 100}, displays: twoDisplays}
	tm.add(t, "clock", `,"ui":{"width":400,"height":300}`)
	tm.reload(t)

	res := tm.Execute(context.Background(), "clock", "default")
	require.True(t, res.Success, res.Message)

	w := tm.host.last(t, "clock")
	bounds, _ := w.Bounds()
	assert.Equal(t, 2360, bounds.X)
	assert.Equal(t, 250, bounds.Y)
}

func TestExecuteUnknownPlugin(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.reload(t)

	res := tm.Execute(context.Background(), "ghost", "default")
	assert.False(t, res.Success)
	assert.Equal(t, CodeNotFound, res.Code)
	assert.Contains(t, res.Message, "ghost")
}

func TestShowHideIdempotence(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "clock", "")
	tm.reload(t)

	assert.False(t, tm.Show("clock"), "show does not create")
	assert.False(t, tm.Hide("clock"))

	require.True(t, tm.Execute(context.Background(), "clock", "default").Success)
	w := tm.host.last(t, "clock")

	assert.True(t, tm.Hide("clock"))
	assert.False(t, tm.Hide("clock"), "second hide is a no-op")
	assert.False(t, tm.Status("clock").Visible)

	assert.True(t, tm.Show("clock"))
	focuses := countCalls(w.Calls(), "focus")
	assert.True(t, tm.Show("clock"), "show on a visible window still succeeds")
	assert.Equal(t, focuses+1, countCalls(w.Calls(), "focus"))
	assert.True(t, tm.Status("clock").Visible)
}

func countCalls(calls []string, name string) int {
	n := 0
	for _, c := range calls {
		if c == name {
			n++
		}
	}
	return n
}

func TestShowHideTrackVisibility(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tm := newTestManager(t, 1)
		tm.add(t, "clock", "")
		tm.reload(t)
		p, err := tm.GetOrCreate(context.Background(), "clock", false)
		if err != nil {
			rt.Fatalf("create: %v", err)
		}
		tm.Release(p)

		visible := false
		ops := rapid.SliceOfN(rapid.Bool(), 1, 20).Draw(rt, "ops")
		for _, show := range ops {
			if show {
				if !tm.Show("clock") {
					rt.Fatalf("show failed on live window")
				}
				visible = true
			} else {
				if got := tm.Hide("clock"); got != visible {
					rt.Fatalf("hide returned %v with visible=%v", got, visible)
				}
				visible = false
			}
			if tm.Status("clock").Visible != visible {
				rt.Fatalf("status visible mismatch")
			}
		}
		tm.StopAll()
	})
}

func TestCloseRequestDependentHides(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "notes", `,"startupMode":"dependent"`)
	tm.reload(t)

	require.True(t, tm.Execute(context.Background(), "notes", "default").Success)
	w := tm.host.last(t, "notes")

	w.spec.Events.CloseRequested()

	status := tm.Status("notes")
	assert.True(t, status.Exists)
	assert.False(t, status.Visible)
	assert.False(t, status.Destroyed)
	assert.Equal(t, StartupDependent, status.StartupMode)
	assert.False(t, w.IsClosed())
	assert.Contains(t, w.Calls(), "hide")
}

func TestCloseRequestIndependentDestroys(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "clock", "")
	tm.reload(t)

	require.True(t, tm.Execute(context.Background(), "clock", "default").Success)
	w := tm.host.last(t, "clock")

	w.spec.Events.CloseRequested()

	status := tm.Status("clock")
	assert.False(t, status.Exists)
	assert.False(t, status.Visible)
	assert.True(t, w.IsClosed())
	assert.Equal(t, 0, tm.ActiveCount())
}

func TestStopBypassesDependentInterception(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "notes", `,"startupMode":"dependent"`)
	tm.reload(t)

	p, err := tm.GetOrCreate(context.Background(), "notes", false)
	require.NoError(t, err)
	tm.Release(p)

	require.NoError(t, tm.Stop("notes"))
	assert.True(t, p.Destroyed())
	assert.False(t, tm.Status("notes").Exists)
	assert.ErrorIs(t, tm.Stop("notes"), ErrNotRunning)
}

func TestWindowClosedExternally(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "clock", "")
	tm.reload(t)

	p, err := tm.GetOrCreate(context.Background(), "clock", false)
	require.NoError(t, err)
	tm.Release(p)

	tm.host.last(t, "clock").spec.Events.Closed()
	assert.Equal(t, 0, tm.ActiveCount())
	assert.True(t, tm.Status("clock").Destroyed)

	// A new context can be created afterwards
	p, err = tm.GetOrCreate(context.Background(), "clock", false)
	require.NoError(t, err)
	tm.Release(p)
}

func TestUninstallRemoveFiles(t *testing.T) {
	tm := newTestManager(t, 1)
	dir := tm.add(t, "clock", "")
	tm.reload(t)
	require.True(t, tm.Execute(context.Background(), "clock", "default").Success)

	res := tm.Uninstall("clock", true)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 0, tm.ActiveCount())
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	tm.reload(t)
	_, ok := tm.Get("clock")
	assert.False(t, ok, "uninstalled plugin must not come back")
}

func TestUninstallKeepFiles(t *testing.T) {
	tm := newTestManager(t, 1)
	dir := tm.add(t, "clock", "")
	tm.reload(t)

	res := tm.Uninstall("clock", false)
	require.True(t, res.Success, res.Message)
	_, ok := tm.Get("clock")
	assert.False(t, ok)
	_, err := os.Stat(dir)
	require.NoError(t, err)

	tm.reload(t)
	_, ok = tm.Get("clock")
	assert.True(t, ok, "a rescan resurrects a plugin whose files remain")
}

func TestUninstallCustomRoot(t *testing.T) {
	tm := newTestManager(t, 1)
	custom := t.TempDir()
	dir := writePlugin(t, custom, "ext", `{"name":"ext"}`)
	tm.roots.dirs = []string{custom}
	tm.reload(t)
	_, ok := tm.Get("ext")
	require.True(t, ok)

	res := tm.Uninstall("ext", true)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, []string{custom}, tm.roots.removed)
	_, err := os.Stat(dir)
	require.NoError(t, err, "files under a custom root are not deleted")

	tm.reload(t)
	_, ok = tm.Get("ext")
	assert.False(t, ok)
}

func TestUninstallUnknown(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.reload(t)

	res := tm.Uninstall("ghost", true)
	assert.False(t, res.Success)
	assert.Equal(t, CodeNotFound, res.Code)
}

func TestAutoStartDependents(t *testing.T) {
	tm := newTestManager(t, 5)
	tm.add(t, "bg", `,"startupMode":"dependent"`)
	tm.add(t, "off", `,"startupMode":"dependent","enabled":false`)
	tm.add(t, "fg", "")
	tm.reload(t)

	assert.Equal(t, 1, tm.AutoStartDependents(context.Background()))
	assert.Equal(t, []string{"bg"}, tm.Active())

	status := tm.Status("bg")
	assert.True(t, status.Exists)
	assert.False(t, status.Visible)
	assert.Equal(t, StatusIdle, status.Status)
}

func TestAutoStartRespectsCapacity(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "a", `,"startupMode":"dependent"`)
	tm.add(t, "b", `,"startupMode":"dependent"`)
	tm.reload(t)

	assert.Equal(t, 1, tm.AutoStartDependents(context.Background()))
	assert.Equal(t, 1, tm.ActiveCount())
}

func TestScopedReloadRestartsDependent(t *testing.T) {
	tm := newTestManager(t, 2)
	tm.add(t, "bg", `,"startupMode":"dependent"`)
	tm.add(t, "fg", "")
	tm.reload(t)
	ctx := context.Background()

	require.Equal(t, 1, tm.AutoStartDependents(ctx))
	require.True(t, tm.Execute(ctx, "fg", "default").Success)

	require.NoError(t, tm.Reload(ctx, "bg"))
	bg := tm.host.opened("bg")
	require.Len(t, bg, 2)
	assert.True(t, bg[0].IsClosed())
	assert.False(t, bg[1].IsClosed())
	assert.False(t, tm.Status("bg").Visible)

	require.NoError(t, tm.Reload(ctx, "fg"))
	assert.Len(t, tm.host.opened("fg"), 1, "independent plugins are not restarted")
}

func TestReloadStopsRenamedPlugin(t *testing.T) {
	tm := newTestManager(t, 2)
	dir := tm.add(t, "bg", `,"startupMode":"dependent"`)
	tm.add(t, "fg", "")
	tm.reload(t)
	ctx := context.Background()

	require.Equal(t, 1, tm.AutoStartDependents(ctx))
	require.True(t, tm.Execute(ctx, "fg", "default").Success)

	// The manifest edit renames the plugin while its directory keeps the old name
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.json"), []byte(`{"name":"bg2","startupMode":"dependent"}`), 0644))
	require.NoError(t, tm.Reload(ctx, "bg"))

	bg := tm.host.opened("bg")
	require.Len(t, bg, 1)
	assert.True(t, bg[0].IsClosed(), "the old context does not outlive its registry entry")
	assert.Equal(t, []string{"fg"}, tm.Active())

	_, ok := tm.Get("bg2")
	assert.True(t, ok)
}

func TestReloadNotifiesPluginList(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "clock", "")

	var got []Summary
	tm.bus.Subscribe(events.EventPluginsChanged, events.SubscriberFunc(func(e events.Event) {
		got = e.Data["plugins"].([]Summary)
	}))

	tm.reload(t)
	require.Len(t, got, 1)
	assert.Equal(t, "clock", got[0].Name)
}

func TestSetConfig(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "clock", `,"description":"old"`)
	tm.reload(t)

	res := tm.SetConfig("clock", map[string]interface{}{
		"description": "new",
		"ui.width":    500,
		"name":        "clock",
	})
	require.True(t, res.Success, res.Message)

	rec, ok := tm.Get("clock")
	require.True(t, ok)
	assert.Equal(t, "new", rec.Description)
	assert.Equal(t, 500, rec.UI.Width)
	assert.Equal(t, 600, rec.UI.Height)

	res = tm.SetConfig("clock", map[string]interface{}{"name": "other"})
	assert.Equal(t, CodeInvalidArgument, res.Code)

	res = tm.SetConfig("clock", map[string]interface{}{"startupMode": "bogus"})
	assert.Equal(t, CodeLoad, res.Code)
	rec, _ = tm.Get("clock")
	assert.Equal(t, StartupIndependent, rec.StartupMode, "invalid edits are not written")

	res = tm.SetConfig("ghost", map[string]interface{}{"description": "x"})
	assert.Equal(t, CodeNotFound, res.Code)
}

func TestToggle(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "clock", "")
	tm.reload(t)
	ctx := context.Background()

	res := tm.Toggle(ctx, "clock")
	require.True(t, res.Success, res.Message)
	assert.True(t, tm.Status("clock").Visible)

	res = tm.Toggle(ctx, "clock")
	require.True(t, res.Success, res.Message)
	assert.False(t, tm.Status("clock").Visible)
	assert.True(t, tm.Status("clock").Exists)
}

func TestWindowCallsRouteThroughBridge(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.add(t, "clock", "")
	tm.reload(t)
	p, err := tm.GetOrCreate(context.Background(), "clock", false)
	require.NoError(t, err)
	tm.Release(p)
	call := tm.host.last(t, "clock").spec.Events.Call

	res := call(context.Background(), "getPlugins", nil)
	assert.Equal(t, CodeFunctionNotFound, res.Code)

	tm.SetBridge(echoDispatcher{})
	res = call(context.Background(), "getPlugins", nil)
	assert.True(t, res.Success)
	assert.Equal(t, "clock:getPlugins", res.Message)
}

func TestWindowSpecFromManifest(t *testing.T) {
	tm := newTestManager(t, 1)
	dir := tm.add(t, "clock", `,"debug":true,"ui":{"width":320,"height":200,"title":"Clock","frame":false}`)
	tm.reload(t)

	res := tm.Start(context.Background(), "clock")
	require.True(t, res.Success, res.Message)

	spec := tm.host.last(t, "clock").spec
	assert.Equal(t, filepath.Join(dir, "index.html"), spec.Entry)
	assert.Equal(t, filepath.Join(dir, "preload.js"), spec.Preload)
	assert.Equal(t, 320, spec.Width)
	assert.Equal(t, 200, spec.Height)
	assert.Equal(t, "Clock", spec.Title)
	assert.False(t, spec.Frame)
	assert.True(t, spec.Debug)
	assert.False(t, tm.Status("clock").Visible, "start keeps the window hidden")
}

func TestRootsIncludeCustomDirs(t *testing.T) {
	tm := newTestManager(t, 1)
	tm.roots.dirs = []string{"/opt/a", tm.root, "/opt/a/"}

	assert.Equal(t, []string{tm.root, "/opt/a"}, tm.Roots())
}

func TestSetMaxProcesses(t *testing.T) {
	tm := newTestManager(t, 1)
	assert.Error(t, tm.SetMaxProcesses(0))
	require.NoError(t, tm.SetMaxProcesses(3))
	assert.Equal(t, 3, tm.MaxProcesses())
}
