package main

import (
	"context"
	"embed"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/ilikebug/oTools/internal/logger"
)

//go:embed all:frontend/dist
var assets embed.FS

// exitOnSignal stops plugin processes when the launcher is killed before
// wails gets to run OnShutdown
func exitOnSignal(app *App) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Log.Info().Str("signal", sig.String()).Msg("Signal received, shutting down")
		app.shutdown(context.Background())
		os.Exit(0)
	}()
}

func launcherMenu(app *App) *menu.Menu {
	root := menu.NewMenu()
	if runtime.GOOS == "darwin" {
		root.Append(menu.AppMenu())
	}

	file := menu.NewMenu()
	file.AddText("Reload Plugins", keys.CmdOrCtrl("R"), func(_ *menu.CallbackData) {
		app.ReloadPlugins()
	})
	file.AddText("Add Plugin Directory...", keys.CmdOrCtrl("O"), func(_ *menu.CallbackData) {
		app.AddPluginDir()
	})
	file.AddSeparator()
	file.AddText("Hide", keys.Key("escape"), func(_ *menu.CallbackData) {
		app.HideLauncher()
	})

	root.Append(menu.SubMenu("File", file))
	root.Append(menu.EditMenu())
	root.Append(menu.SubMenu("Shortcuts", app.shortcuts.menu))
	root.Append(menu.WindowMenu())
	return root
}

func main() {
	app, err := NewApp()
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to initialize oTools")
		os.Exit(1)
	}
	exitOnSignal(app)

	cfg := app.config.Current()
	err = wails.Run(&options.App{
		Title:       "oTools",
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		AlwaysOnTop: cfg.Window.AlwaysOnTop,
		Frameless:   true,
		Menu:        launcherMenu(app),
		Logger:      logger.Wails("launcher"),
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Debug: options.Debug{
			OpenInspectorOnStartup: cfg.App.Debug,
		},
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Launcher exited with error")
		os.Exit(1)
	}
}
