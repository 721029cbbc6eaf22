package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilikebug/oTools/internal/window"
)

func TestFlagsMatchHostArgs(t *testing.T) {
	want := window.Options{
		Plugin:      "clock",
		Dir:         "/plugins/clock",
		Entry:       "/plugins/clock/index.html",
		Preload:     "/plugins/clock/preload.js",
		Width:       320,
		Height:      240,
		Title:       "Clock",
		Frame:       false,
		HideOnBlur:  true,
		AlwaysOnTop: true,
		Debug:       true,
	}

	var got window.Options
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags(want.Args()))

	f := cmd.Flags()
	got.Plugin, _ = f.GetString("plugin")
	got.Dir, _ = f.GetString("dir")
	got.Entry, _ = f.GetString("entry")
	got.Preload, _ = f.GetString("preload")
	got.Width, _ = f.GetInt("width")
	got.Height, _ = f.GetInt("height")
	got.Title, _ = f.GetString("title")
	got.Frame, _ = f.GetBool("frame")
	got.Remote, _ = f.GetBool("remote")
	got.HideOnBlur, _ = f.GetBool("hide-on-blur")
	got.AlwaysOnTop, _ = f.GetBool("always-on-top")
	got.Debug, _ = f.GetBool("debug")
	assert.Equal(t, want, got)
}
