package desktop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gen2brain/beeep"

	"github.com/ilikebug/oTools/internal/logger"
)

// ErrUnsupported is returned when no tool for an operation exists on this OS
var ErrUnsupported = errors.New("not supported on this system")

// ErrCancelled is returned when the user dismisses an interactive capture
var ErrCancelled = errors.New("screenshot failed: user may have canceled the screenshot operation")

// Runner executes external commands and returns their stdout
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// Desktop implements OS integrations by shelling out to platform tools
type Desktop struct {
	goos     string
	tempDir  string
	icon     string
	runner   Runner
	lookPath func(string) (string, error)

	notify         func(title, body, icon string) error
	readClipboard  func() (string, error)
	writeClipboard func(string) error
}

// New creates a Desktop using the current OS and real commands. icon is
// the notification icon path and may be empty.
func New(icon string) *Desktop {
	return &Desktop{
		goos:           runtime.GOOS,
		tempDir:        filepath.Join(os.TempDir(), "otools-screenshots"),
		icon:           icon,
		runner:         execRunner{},
		lookPath:       exec.LookPath,
		notify:         notifyBeeep,
		readClipboard:  clipboard.ReadAll,
		writeClipboard: clipboard.WriteAll,
	}
}

func notifyBeeep(title, body, icon string) error {
	return beeep.Notify(title, body, icon)
}

// tool returns the first candidate command that is installed
func (d *Desktop) tool(candidates ...string) (string, bool) {
	for _, c := range candidates {
		if _, err := d.lookPath(c); err == nil {
			return c, true
		}
	}
	return "", false
}

func (d *Desktop) tempFile(prefix string) (string, error) {
	if err := os.MkdirAll(d.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	return filepath.Join(d.tempDir, fmt.Sprintf("%s-%d.png", prefix, time.Now().UnixNano())), nil
}

// CaptureScreen runs the interactive region screenshot tool and returns a PNG
func (d *Desktop) CaptureScreen(ctx context.Context) ([]byte, error) {
	file, err := d.tempFile("screenshot")
	if err != nil {
		return nil, err
	}
	defer os.Remove(file)

	switch d.goos {
	case "darwin":
		// -i interactive region, -x no shutter sound
		_, err = d.runner.Run(ctx, "screencapture", "-i", "-x", file)
	case "linux":
		tool, ok := d.tool("gnome-screenshot", "spectacle", "scrot")
		if !ok {
			return nil, fmt.Errorf("%w: install gnome-screenshot, spectacle or scrot", ErrUnsupported)
		}
		switch tool {
		case "gnome-screenshot":
			_, err = d.runner.Run(ctx, tool, "-a", "-f", file)
		case "spectacle":
			_, err = d.runner.Run(ctx, tool, "-r", "-b", "-n", "-o", file)
		default:
			_, err = d.runner.Run(ctx, tool, "-s", file)
		}
	default:
		return nil, fmt.Errorf("%w: screenshot on %s", ErrUnsupported, d.goos)
	}
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	image, err := os.ReadFile(file)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(image) == 0) {
		return nil, ErrCancelled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot: %w", err)
	}
	return image, nil
}

// RecognizeText runs tesseract over an image
func (d *Desktop) RecognizeText(ctx context.Context, image []byte) (string, error) {
	if _, ok := d.tool("tesseract"); !ok {
		return "", fmt.Errorf("%w: OCR service is unavailable, please ensure tesseract is installed", ErrUnsupported)
	}
	file, err := d.tempFile("ocr")
	if err != nil {
		return "", err
	}
	defer os.Remove(file)
	if err := os.WriteFile(file, image, 0o600); err != nil {
		return "", fmt.Errorf("failed to write OCR input: %w", err)
	}

	out, err := d.runner.Run(ctx, "tesseract", file, "stdout", "-l", "chi_sim+eng")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ReadClipboard returns the clipboard text
func (d *Desktop) ReadClipboard() (string, error) {
	return d.readClipboard()
}

// WriteClipboard replaces the clipboard text
func (d *Desktop) WriteClipboard(text string) error {
	return d.writeClipboard(text)
}

// ReadClipboardImage returns the clipboard image as PNG, or nil when the
// clipboard holds no image
func (d *Desktop) ReadClipboardImage(ctx context.Context) ([]byte, error) {
	switch d.goos {
	case "darwin":
		if _, ok := d.tool("pngpaste"); !ok {
			return nil, fmt.Errorf("%w: install pngpaste", ErrUnsupported)
		}
		out, err := d.runner.Run(ctx, "pngpaste", "-")
		if err != nil {
			// pngpaste fails when there is no image
			return nil, nil
		}
		return out, nil
	case "linux":
		if tool, ok := d.tool("wl-paste", "xclip"); ok {
			var out []byte
			var err error
			if tool == "wl-paste" {
				out, err = d.runner.Run(ctx, tool, "--type", "image/png")
			} else {
				out, err = d.runner.Run(ctx, tool, "-selection", "clipboard", "-t", "image/png", "-o")
			}
			if err != nil {
				return nil, nil
			}
			return out, nil
		}
		return nil, fmt.Errorf("%w: install wl-clipboard or xclip", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: clipboard images on %s", ErrUnsupported, d.goos)
	}
}

// WriteClipboardImage puts a PNG on the clipboard
func (d *Desktop) WriteClipboardImage(ctx context.Context, png []byte) error {
	file, err := d.tempFile("clipboard")
	if err != nil {
		return err
	}
	defer os.Remove(file)
	if err := os.WriteFile(file, png, 0o600); err != nil {
		return fmt.Errorf("failed to write clipboard image: %w", err)
	}

	switch d.goos {
	case "darwin":
		script := fmt.Sprintf(`set the clipboard to (read (POSIX file %q) as «class PNGf»)`, file)
		_, err = d.runner.Run(ctx, "osascript", "-e", script)
	case "linux":
		tool, ok := d.tool("xclip")
		if !ok {
			return fmt.Errorf("%w: install xclip", ErrUnsupported)
		}
		_, err = d.runner.Run(ctx, tool, "-selection", "clipboard", "-t", "image/png", "-i", file)
	default:
		return fmt.Errorf("%w: clipboard images on %s", ErrUnsupported, d.goos)
	}
	return err
}

// Notify shows a system notification
func (d *Desktop) Notify(title, body string) error {
	if err := d.notify(title, body, d.icon); err != nil {
		logger.Log.Warn().Err(err).Str("title", title).Msg("Failed to show notification")
		return fmt.Errorf("failed to show notification: %w", err)
	}
	return nil
}

// OpenExternal opens a link with the default handler
func (d *Desktop) OpenExternal(ctx context.Context, target string) error {
	var err error
	switch d.goos {
	case "darwin":
		_, err = d.runner.Run(ctx, "open", target)
	case "linux":
		_, err = d.runner.Run(ctx, "xdg-open", target)
	case "windows":
		_, err = d.runner.Run(ctx, "rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("%w: open links on %s", ErrUnsupported, d.goos)
	}
	return err
}
