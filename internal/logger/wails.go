package logger

import (
	"github.com/rs/zerolog"
	wailslogger "github.com/wailsapp/wails/v2/pkg/logger"
)

// wailsAdapter routes Wails runtime logs into zerolog
type wailsAdapter struct {
	component string
}

// Wails returns a Wails logger that writes through Log
func Wails(component string) wailslogger.Logger {
	return &wailsAdapter{component: component}
}

func (w *wailsAdapter) log(ev *zerolog.Event, message string) {
	ev.Str("component", w.component).Msg(message)
}

func (w *wailsAdapter) Print(message string)   { w.log(Log.Info(), message) }
func (w *wailsAdapter) Trace(message string)   { w.log(Log.Trace(), message) }
func (w *wailsAdapter) Debug(message string)   { w.log(Log.Debug(), message) }
func (w *wailsAdapter) Info(message string)    { w.log(Log.Info(), message) }
func (w *wailsAdapter) Warning(message string) { w.log(Log.Warn(), message) }
func (w *wailsAdapter) Error(message string)   { w.log(Log.Error(), message) }

func (w *wailsAdapter) Fatal(message string) {
	// Wails expects Fatal to terminate
	w.log(Log.Fatal(), message)
}
