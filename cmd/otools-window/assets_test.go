package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilikebug/oTools/internal/bridge"
	"github.com/ilikebug/oTools/internal/window"
)

func writeBundle(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	}
	return dir
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestEntryGetsBridgeInjected(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"index.html": "<html><HEAD lang=\"en\"><title>x</title></HEAD><body></body></html>",
		"preload.js": "window.ready = true",
		"app.js":     "console.log(1)",
	})
	h, err := newAssetHandler(window.Options{
		Plugin:  "clock",
		Dir:     dir,
		Entry:   filepath.Join(dir, "index.html"),
		Preload: filepath.Join(dir, "preload.js"),
	})
	require.NoError(t, err)
	require.NoError(t, h.checkEntry())

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		`<html><HEAD lang="en"><script src="/__otools/bridge.js"></script><script src="/__otools/preload.js"></script><title>x</title></HEAD><body></body></html>`,
		rec.Body.String())

	assert.Equal(t, "window.ready = true", get(t, h, preloadScriptPath).Body.String())
	assert.Equal(t, "console.log(1)", get(t, h, "/app.js").Body.String())
}

func TestInjectHeadSkipsHeaderElements(t *testing.T) {
	tags := `<script src="/__otools/bridge.js"></script>`

	got := injectHead([]byte("<body><header class=\"top\">x</header></body>"), tags)
	assert.Equal(t, tags+`<body><header class="top">x</header></body>`, string(got))

	got = injectHead([]byte("<html><header>x</header><head>\n<title>t</title></head></html>"), tags)
	assert.Equal(t, "<html><header>x</header><head>"+tags+"\n<title>t</title></head></html>", string(got))

	got = injectHead([]byte("<head\n  data-x=\"1\"><title>t</title></head>"), tags)
	assert.Equal(t, "<head\n  data-x=\"1\">"+tags+"<title>t</title></head>", string(got))
}

func TestEntryInSubdirectoryGetsBase(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"ui/main.html": "<p>no head</p>",
	})
	h, err := newAssetHandler(window.Options{Dir: dir, Entry: filepath.Join(dir, "ui", "main.html")})
	require.NoError(t, err)

	body := get(t, h, "/").Body.String()
	assert.Equal(t, `<base href="/ui/"><script src="/__otools/bridge.js"></script><p>no head</p>`, body)
	assert.Equal(t, http.StatusNotFound, get(t, h, preloadScriptPath).Code)
}

func TestBridgeScriptExposesCapabilities(t *testing.T) {
	dir := writeBundle(t, map[string]string{"index.html": "<html></html>"})
	h, err := newAssetHandler(window.Options{Dir: dir, Entry: filepath.Join(dir, "index.html"), HideOnBlur: true})
	require.NoError(t, err)

	script := get(t, h, bridgeScriptPath).Body.String()
	for _, name := range bridge.Names() {
		assert.Contains(t, script, `"`+name+`"`)
	}
	assert.Contains(t, script, `EventsOn("otools:event"`)
	assert.Contains(t, script, "if (true)")
	assert.NotContains(t, script, "__")
}

func TestRemoteEntryRedirects(t *testing.T) {
	h, err := newAssetHandler(window.Options{
		Title:  "Docs <beta>",
		Entry:  "https://example.com/app?x=1",
		Remote: true,
	})
	require.NoError(t, err)
	require.NoError(t, h.checkEntry())

	body := get(t, h, "/").Body.String()
	assert.Contains(t, body, `window.location.replace("https://example.com/app?x=1")`)
	assert.Contains(t, body, "Docs &lt;beta&gt;")
}

func TestMissingEntry(t *testing.T) {
	dir := t.TempDir()
	h, err := newAssetHandler(window.Options{Dir: dir, Entry: filepath.Join(dir, "index.html")})
	require.NoError(t, err)

	assert.Error(t, h.checkEntry())
	assert.Equal(t, http.StatusNotFound, get(t, h, "/").Code)
}

func TestFilesStayInsideBundle(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0644))
	dir := filepath.Join(parent, "bundle")
	require.NoError(t, os.MkdirAll(dir, 0755))

	h, err := newAssetHandler(window.Options{Dir: dir, Entry: filepath.Join(dir, "index.html")})
	require.NoError(t, err)

	rec := get(t, h, "/../secret.txt")
	assert.False(t, strings.Contains(rec.Body.String(), "secret"))
}
