package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ilikebug/oTools/internal/bridge"
	"github.com/ilikebug/oTools/internal/window"
)

// Paths served by the window process itself
const (
	bridgeScriptPath  = "/__otools/bridge.js"
	preloadScriptPath = "/__otools/preload.js"
)

// eventName is the runtime event carrying launcher events into the page
const eventName = "otools:event"

const bridgeScript = `(function () {
  const names = __NAMES__;
  const listeners = {};
  const api = {};
  names.forEach(function (name) {
    api[name] = function () {
      return window.go.main.Bridge.Call(name, Array.prototype.slice.call(arguments));
    };
  });
  api.on = function (event, fn) {
    (listeners[event] = listeners[event] || []).push(fn);
  };
  api.off = function (event, fn) {
    listeners[event] = (listeners[event] || []).filter(function (f) { return f !== fn; });
  };
  function subscribe() {
    window.runtime.EventsOn("__EVENT__", function (msg) {
      (listeners[msg.event] || []).slice().forEach(function (fn) { fn(msg.payload); });
    });
  }
  if (window.runtime) {
    subscribe();
  } else {
    window.addEventListener("DOMContentLoaded", subscribe);
  }
  if (__HIDE_ON_BLUR__) {
    window.addEventListener("blur", function () { api.hideWindow(); });
  }
  window.otools = api;
})();
`

const remoteShim = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>%s</title></head>
<body><script>window.location.replace(%s);</script></body></html>
`

// assetHandler serves a plugin bundle with the launcher bridge injected
// into its entry page
type assetHandler struct {
	opts   window.Options
	files  http.Handler
	script []byte
}

func newAssetHandler(opts window.Options) (*assetHandler, error) {
	names, err := json.Marshal(bridge.Names())
	if err != nil {
		return nil, err
	}
	script := strings.NewReplacer(
		"__NAMES__", string(names),
		"__EVENT__", eventName,
		"__HIDE_ON_BLUR__", fmt.Sprint(opts.HideOnBlur),
	).Replace(bridgeScript)

	return &assetHandler{
		opts:   opts,
		files:  http.FileServer(http.Dir(opts.Dir)),
		script: []byte(script),
	}, nil
}

// checkEntry reports whether the entry page can be loaded
func (h *assetHandler) checkEntry() error {
	if h.opts.Remote {
		return nil
	}
	info, err := os.Stat(h.opts.Entry)
	if err != nil {
		return fmt.Errorf("entry not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("entry is a directory: %s", h.opts.Entry)
	}
	return nil
}

func (h *assetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "", "/", "/index.html":
		h.serveEntry(w)
	case bridgeScriptPath:
		w.Header().Set("Content-Type", "text/javascript")
		w.Write(h.script)
	case preloadScriptPath:
		if h.opts.Preload == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/javascript")
		http.ServeFile(w, r, h.opts.Preload)
	default:
		h.files.ServeHTTP(w, r)
	}
}

func (h *assetHandler) serveEntry(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if h.opts.Remote {
		target, _ := json.Marshal(h.opts.Entry)
		fmt.Fprintf(w, remoteShim, html.EscapeString(h.opts.Title), target)
		return
	}

	page, err := os.ReadFile(h.opts.Entry)
	if err != nil {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	w.Write(injectHead(page, h.headTags()))
}

func (h *assetHandler) headTags() string {
	var tags strings.Builder
	if rel, err := filepath.Rel(h.opts.Dir, filepath.Dir(h.opts.Entry)); err == nil && rel != "." {
		base := path.Clean("/"+filepath.ToSlash(rel)) + "/"
		fmt.Fprintf(&tags, `<base href="%s">`, html.EscapeString(base))
	}
	fmt.Fprintf(&tags, `<script src="%s"></script>`, bridgeScriptPath)
	if h.opts.Preload != "" {
		fmt.Fprintf(&tags, `<script src="%s"></script>`, preloadScriptPath)
	}
	return tags.String()
}

// injectHead inserts tags right after the opening head tag, or at the top
// of the document when there is none
func injectHead(page []byte, tags string) []byte {
	i := openingHead(bytes.ToLower(page))
	if i < 0 {
		return append([]byte(tags), page...)
	}
	end := bytes.IndexByte(page[i:], '>')
	if end < 0 {
		return append([]byte(tags), page...)
	}
	at := i + end + 1

	out := make([]byte, 0, len(page)+len(tags))
	out = append(out, page[:at]...)
	out = append(out, tags...)
	return append(out, page[at:]...)
}

// openingHead finds "<head" followed by ">" or whitespace, so <header> is
// skipped
func openingHead(lower []byte) int {
	tag := []byte("<head")
	for from := 0; ; {
		i := bytes.Index(lower[from:], tag)
		if i < 0 {
			return -1
		}
		at := from + i
		next := at + len(tag)
		if next < len(lower) {
			switch lower[next] {
			case '>', ' ', '\t', '\n', '\r', '\f':
				return at
			}
		}
		from = next
	}
}
