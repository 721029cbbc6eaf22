// Command otools-window hosts one plugin window. It is spawned by the
// launcher and speaks JSON-RPC with it over stdin and stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/ilikebug/oTools/internal/constants"
	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/window"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts window.Options
	cmd := &cobra.Command{
		Use:           "otools-window",
		Short:         "oTools plugin window process",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Plugin, "plugin", "", "plugin name")
	f.StringVar(&opts.Dir, "dir", "", "plugin bundle directory")
	f.StringVar(&opts.Entry, "entry", "", "entry page path or URL")
	f.StringVar(&opts.Preload, "preload", "", "preload script path")
	f.IntVar(&opts.Width, "width", constants.DefaultWidth, "window width")
	f.IntVar(&opts.Height, "height", constants.DefaultHeight, "window height")
	f.StringVar(&opts.Title, "title", "", "window title")
	f.BoolVar(&opts.Frame, "frame", true, "draw the native window frame")
	f.BoolVar(&opts.AlwaysOnTop, "always-on-top", false, "keep the window above others")
	f.BoolVar(&opts.Remote, "remote", false, "entry is a remote URL")
	f.BoolVar(&opts.HideOnBlur, "hide-on-blur", false, "hide the window when it loses focus")
	f.BoolVar(&opts.Debug, "debug", false, "open the inspector on startup")
	cmd.MarkFlagRequired("plugin")
	cmd.MarkFlagRequired("entry")
	return cmd
}

func run(opts window.Options) error {
	log := logger.Log.With().Str("plugin", opts.Plugin).Logger()

	win := &nativeWindow{}
	win.child = window.NewChild(opts.Plugin, os.Stdin, os.Stdout, win)
	win.child.Start()

	assets, err := newAssetHandler(opts)
	if err != nil {
		return err
	}
	if err := assets.checkEntry(); err != nil {
		log.Error().Err(err).Msg("Plugin entry failed to load")
		if notifyErr := win.child.Ready(err); notifyErr != nil {
			log.Warn().Err(notifyErr).Msg("Failed to report load failure")
		}
		return err
	}

	title := opts.Title
	if title == "" {
		title = opts.Plugin
	}

	log.Info().Str("entry", opts.Entry).Bool("remote", opts.Remote).Msg("Opening plugin window")
	err = wails.Run(&options.App{
		Title:         title,
		Width:         opts.Width,
		Height:        opts.Height,
		Frameless:     !opts.Frame,
		AlwaysOnTop:   opts.AlwaysOnTop,
		StartHidden:   true,
		Logger:        logger.Wails("window"),
		AssetServer:   &assetserver.Options{Handler: assets},
		OnStartup:     win.startup,
		OnDomReady:    win.domReady,
		OnBeforeClose: win.beforeClose,
		Debug: options.Debug{
			OpenInspectorOnStartup: opts.Debug,
		},
		Bind: []interface{}{
			&Bridge{win: win},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("Window process failed")
		win.child.Ready(err)
		return err
	}
	return nil
}
