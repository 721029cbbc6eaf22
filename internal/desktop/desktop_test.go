package desktop

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	output []byte
	err    error
	// onRun runs before the result is returned
	onRun func(args []string)
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	call := append([]string{name}, args...)
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	if r.onRun != nil {
		r.onRun(call)
	}
	return r.output, r.err
}

func (r *fakeRunner) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func newTestDesktop(t *testing.T, goos string, installed ...string) (*Desktop, *fakeRunner) {
	t.Helper()
	runner := &fakeRunner{}
	have := make(map[string]bool)
	for _, tool := range installed {
		have[tool] = true
	}
	d := &Desktop{
		goos:    goos,
		tempDir: t.TempDir(),
		runner:  runner,
		lookPath: func(name string) (string, error) {
			if have[name] {
				return "/usr/bin/" + name, nil
			}
			return "", errors.New("not found")
		},
	}
	return d, runner
}

// writeLastArg simulates a tool that writes its output to the final argument
func writeLastArg(content string) func([]string) {
	return func(args []string) {
		_ = os.WriteFile(args[len(args)-1], []byte(content), 0o600)
	}
}

func TestCaptureScreenDarwin(t *testing.T) {
	d, runner := newTestDesktop(t, "darwin")
	runner.onRun = writeLastArg("png-bytes")

	image, err := d.CaptureScreen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), image)

	call := runner.last()
	assert.Equal(t, []string{"screencapture", "-i", "-x"}, call[:3])
	assert.NoFileExists(t, call[3], "temp file is removed")
}

func TestCaptureScreenCancelled(t *testing.T) {
	d, _ := newTestDesktop(t, "darwin")
	_, err := d.CaptureScreen(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestCaptureScreenLinuxPicksInstalledTool(t *testing.T) {
	d, runner := newTestDesktop(t, "linux", "scrot")
	runner.onRun = writeLastArg("png")

	_, err := d.CaptureScreen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "scrot", runner.last()[0])
	assert.Equal(t, "-s", runner.last()[1])

	d, _ = newTestDesktop(t, "linux")
	_, err = d.CaptureScreen(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)

	d, _ = newTestDesktop(t, "plan9")
	_, err = d.CaptureScreen(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRecognizeText(t *testing.T) {
	d, runner := newTestDesktop(t, "linux", "tesseract")
	runner.output = []byte("  hello world \n")

	text, err := d.RecognizeText(context.Background(), []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	call := runner.last()
	assert.Equal(t, "tesseract", call[0])
	assert.Equal(t, []string{"stdout", "-l", "chi_sim+eng"}, call[2:])

	d, _ = newTestDesktop(t, "linux")
	_, err = d.RecognizeText(context.Background(), []byte("png"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestClipboardImage(t *testing.T) {
	d, runner := newTestDesktop(t, "linux", "xclip")
	runner.output = []byte("png")
	image, err := d.ReadClipboardImage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), image)
	assert.Equal(t, []string{"xclip", "-selection", "clipboard", "-t", "image/png", "-o"}, runner.last())

	runner.err = errors.New("target image/png not available")
	image, err = d.ReadClipboardImage(context.Background())
	require.NoError(t, err)
	assert.Nil(t, image)

	runner.err = nil
	require.NoError(t, d.WriteClipboardImage(context.Background(), []byte("png")))
	assert.Equal(t, "-i", runner.last()[5])
}

func TestClipboardText(t *testing.T) {
	var stored string
	d, _ := newTestDesktop(t, "linux")
	d.writeClipboard = func(s string) error { stored = s; return nil }
	d.readClipboard = func() (string, error) { return stored, nil }

	require.NoError(t, d.WriteClipboard("copied"))
	got, err := d.ReadClipboard()
	require.NoError(t, err)
	assert.Equal(t, "copied", got)
}

func TestPressKeysLinux(t *testing.T) {
	d, runner := newTestDesktop(t, "linux", "xdotool")

	require.NoError(t, d.PressKeys(context.Background(), "CmdOrCtrl+Shift+V"))
	assert.Equal(t, []string{"xdotool", "key", "--clearmodifiers", "ctrl+shift+v"}, runner.last())

	require.NoError(t, d.PressKeys(context.Background(), "OptionOrAlt+Space"))
	assert.Equal(t, "alt+space", runner.last()[3])

	require.NoError(t, d.PressKeys(context.Background(), "F5"))
	assert.Equal(t, "F5", runner.last()[3])

	assert.Error(t, d.PressKeys(context.Background(), "Hyper+Nope+"))
}

func TestPressKeysDarwin(t *testing.T) {
	d, runner := newTestDesktop(t, "darwin")

	require.NoError(t, d.PressKeys(context.Background(), "CmdOrCtrl+C"))
	assert.Equal(t, `tell application "System Events" to keystroke "c" using {command down}`, runner.last()[2])

	require.NoError(t, d.PressKeys(context.Background(), "Return"))
	assert.Equal(t, `tell application "System Events" to key code 36`, runner.last()[2])
}

func TestTypeText(t *testing.T) {
	d, runner := newTestDesktop(t, "darwin")
	require.NoError(t, d.TypeText(context.Background(), `say "hi"`))
	assert.True(t, strings.HasSuffix(runner.last()[2], `keystroke "say \"hi\""`))

	d, runner = newTestDesktop(t, "linux", "xdotool")
	require.NoError(t, d.TypeText(context.Background(), "-dash"))
	assert.Equal(t, []string{"xdotool", "type", "--delay", "0", "--", "-dash"}, runner.last())

	d, _ = newTestDesktop(t, "linux")
	assert.ErrorIs(t, d.TypeText(context.Background(), "x"), ErrUnsupported)
}

func TestMouse(t *testing.T) {
	d, runner := newTestDesktop(t, "linux", "xdotool")
	require.NoError(t, d.MoveMouse(context.Background(), 10, 20))
	assert.Equal(t, []string{"xdotool", "mousemove", "10", "20"}, runner.last())
	require.NoError(t, d.Click(context.Background(), "right", true))
	assert.Equal(t, []string{"xdotool", "click", "--repeat", "2", "3"}, runner.last())

	d, runner = newTestDesktop(t, "darwin", "cliclick")
	require.NoError(t, d.Click(context.Background(), "left", true))
	assert.Equal(t, []string{"cliclick", "dc:."}, runner.last())
	assert.ErrorIs(t, d.Click(context.Background(), "middle", false), ErrUnsupported)
}

func TestNotify(t *testing.T) {
	d, _ := newTestDesktop(t, "linux")
	d.icon = "/icons/app.png"
	var got []string
	d.notify = func(title, body, icon string) error {
		got = []string{title, body, icon}
		return nil
	}
	require.NoError(t, d.Notify("Done", "Export finished"))
	assert.Equal(t, []string{"Done", "Export finished", "/icons/app.png"}, got)

	d.notify = func(string, string, string) error { return errors.New("no dbus") }
	assert.Error(t, d.Notify("Done", ""))
}

func TestOpenExternal(t *testing.T) {
	d, runner := newTestDesktop(t, "linux")
	require.NoError(t, d.OpenExternal(context.Background(), "https://example.com"))
	assert.Equal(t, []string{"xdg-open", "https://example.com"}, runner.last())

	d, runner = newTestDesktop(t, "darwin")
	require.NoError(t, d.OpenExternal(context.Background(), "https://example.com"))
	assert.Equal(t, "open", runner.last()[0])
}

func TestCursorPosition(t *testing.T) {
	d, runner := newTestDesktop(t, "linux", "xdotool")
	runner.output = []byte("X=640\nY=480\nSCREEN=0\nWINDOW=123\n")

	x, y, err := d.CursorPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 640, x)
	assert.Equal(t, 480, y)
	assert.Equal(t, []string{"xdotool", "getmouselocation", "--shell"}, runner.last())

	mac, runner := newTestDesktop(t, "darwin", "cliclick")
	runner.output = []byte("-1280,300\n")
	x, y, err = mac.CursorPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, -1280, x)
	assert.Equal(t, 300, y)

	bare, _ := newTestDesktop(t, "linux")
	_, _, err = bare.CursorPosition(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)

	_, _, err = parseCursor("garbage")
	assert.Error(t, err)
}
