package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanClockBundle(t *testing.T) {
	root := t.TempDir()
	dir := writePlugin(t, root, "clock", `{"name":"clock","ui":{"html":"index.html"}}`)

	reg := Scan([]string{root})
	require.Equal(t, 1, reg.Len())

	rec, ok := reg.Get("clock")
	require.True(t, ok)
	assert.Equal(t, dir, rec.Dir)
	assert.Equal(t, StartupIndependent, rec.StartupMode)
	assert.Equal(t, 900, rec.UI.Width)
	assert.False(t, rec.LoadedAt.IsZero())
}

func TestScanSkipsBrokenPlugins(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "a-noname", `{"description":"no name"}`)
	writePlugin(t, root, "b-broken", `{"name":`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c-empty"), 0755))
	writePlugin(t, root, "d-good", `{"name":"good"}`)
	writePlugin(t, root, ".hidden", `{"name":"hidden"}`)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0644))

	reg := Scan([]string{root})
	assert.Equal(t, 1, reg.Len())
	_, ok := reg.Get("good")
	assert.True(t, ok)
}

func TestScanDuplicateNameLastWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writePlugin(t, first, "one", `{"name":"dup","version":"1"}`)
	dir := writePlugin(t, second, "two", `{"name":"dup","version":"2"}`)

	reg := Scan([]string{first, second})
	require.Equal(t, 1, reg.Len())

	rec, _ := reg.Get("dup")
	assert.Equal(t, dir, rec.Dir)
	assert.Equal(t, "2", rec.Version)
}

func TestScanRootThatIsAPlugin(t *testing.T) {
	parent := t.TempDir()
	root := writePlugin(t, parent, "solo", `{"name":"solo"}`)
	writePlugin(t, root, "nested", `{"name":"nested"}`)

	reg := Scan([]string{root})
	require.Equal(t, 1, reg.Len())
	rec, ok := reg.Get("solo")
	require.True(t, ok)
	assert.Equal(t, root, rec.Dir)
}

func TestScanCreatesMissingRoots(t *testing.T) {
	root := filepath.Join(t.TempDir(), "plugins")

	reg := Scan([]string{root, ""})
	assert.Equal(t, 0, reg.Len())

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRegistryFindByDirAndSummaries(t *testing.T) {
	root := t.TempDir()
	writePlugin(t, root, "b", `{"name":"beta"}`)
	dir := writePlugin(t, root, "a", `{"name":"alpha"}`)

	reg := Scan([]string{root})
	rec, ok := reg.FindByDir(dir + string(filepath.Separator))
	require.True(t, ok)
	assert.Equal(t, "alpha", rec.Name)

	summaries := reg.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, "alpha", summaries[0].Name)
	assert.Equal(t, "beta", summaries[1].Name)

	assert.True(t, reg.Remove("alpha"))
	assert.False(t, reg.Remove("alpha"))
}
