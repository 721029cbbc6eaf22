package bridge

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ilikebug/oTools/internal/plugin"
)

// Path returns a required absolute path argument
func (c *Call) Path(i int) (string, error) {
	p, err := c.String(i)
	if err != nil {
		return "", err
	}
	if p == "" || !filepath.IsAbs(p) {
		return "", invalidArg(i, "must be an absolute path")
	}
	return filepath.Clean(p), nil
}

func (c *Call) dialogOptions(i int) (DialogOptions, error) {
	var opts DialogOptions
	if _, ok := c.arg(i); !ok {
		return opts, nil
	}
	err := c.Decode(i, &opts)
	return opts, err
}

func (b *Bridge) showOpenDialog(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Dialogs == nil {
		return unavailable("dialogs")
	}
	opts, err := call.dialogOptions(0)
	if err != nil {
		return fail(err)
	}
	paths, err := b.deps.Dialogs.OpenFile(ctx, opts)
	if err != nil {
		return fail(err)
	}
	if paths == nil {
		paths = []string{}
	}
	return plugin.OK("", map[string]interface{}{
		"canceled":  len(paths) == 0,
		"filePaths": paths,
	})
}

func (b *Bridge) showSaveDialog(ctx context.Context, call *Call) plugin.Result {
	if b.deps.Dialogs == nil {
		return unavailable("dialogs")
	}
	opts, err := call.dialogOptions(0)
	if err != nil {
		return fail(err)
	}
	path, err := b.deps.Dialogs.SaveFile(ctx, opts)
	if err != nil {
		return fail(err)
	}
	return plugin.OK("", map[string]interface{}{
		"canceled": path == "",
		"filePath": path,
	})
}

func (b *Bridge) readFile(_ context.Context, call *Call) plugin.Result {
	path, err := call.Path(0)
	if err != nil {
		return fail(err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	return plugin.OK("", map[string]interface{}{"content": string(content)})
}

func (b *Bridge) writeFile(_ context.Context, call *Call) plugin.Result {
	path, err := call.Path(0)
	if err != nil {
		return fail(err)
	}
	content, err := call.String(1)
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fail(err)
	}
	return plugin.OK("File written successfully", nil)
}

func (b *Bridge) fileExists(_ context.Context, call *Call) plugin.Result {
	path, err := call.Path(0)
	if err != nil {
		return fail(err)
	}
	_, statErr := os.Stat(path)
	return plugin.OK("", map[string]interface{}{"exists": statErr == nil})
}

func (b *Bridge) createDirectory(_ context.Context, call *Call) plugin.Result {
	path, err := call.Path(0)
	if err != nil {
		return fail(err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fail(err)
	}
	return plugin.OK("Directory created successfully", nil)
}

// DirItem is one listDirectory entry
type DirItem struct {
	Name           string `json:"name"`
	IsDirectory    bool   `json:"isDirectory"`
	IsFile         bool   `json:"isFile"`
	IsSymbolicLink bool   `json:"isSymbolicLink"`
}

func (b *Bridge) listDirectory(_ context.Context, call *Call) plugin.Result {
	path, err := call.Path(0)
	if err != nil {
		return fail(err)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return fail(err)
	}
	items := make([]DirItem, 0, len(entries))
	for _, e := range entries {
		mode := e.Type()
		items = append(items, DirItem{
			Name:           e.Name(),
			IsDirectory:    e.IsDir(),
			IsFile:         mode.IsRegular(),
			IsSymbolicLink: mode&os.ModeSymlink != 0,
		})
	}
	return plugin.OK("", map[string]interface{}{"items": items})
}

func (b *Bridge) getFileInfo(_ context.Context, call *Call) plugin.Result {
	path, err := call.Path(0)
	if err != nil {
		return fail(err)
	}
	info, err := os.Lstat(path)
	if err != nil {
		return fail(err)
	}
	isLink := info.Mode()&os.ModeSymlink != 0
	if isLink {
		if target, err := os.Stat(path); err == nil {
			info = target
		}
	}
	return plugin.OK("", map[string]interface{}{
		"size":           info.Size(),
		"isDirectory":    info.IsDir(),
		"isFile":         info.Mode().IsRegular(),
		"isSymbolicLink": isLink,
		"modified":       info.ModTime(),
		"mode":           info.Mode().Perm().String(),
	})
}

func (b *Bridge) deleteFile(_ context.Context, call *Call) plugin.Result {
	path, err := call.Path(0)
	if err != nil {
		return fail(err)
	}
	info, err := os.Lstat(path)
	if err != nil {
		return fail(err)
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return fail(err)
	}
	return plugin.OK("File deleted successfully", nil)
}

func (b *Bridge) copyFile(_ context.Context, call *Call) plugin.Result {
	src, err := call.Path(0)
	if err != nil {
		return fail(err)
	}
	dst, err := call.Path(1)
	if err != nil {
		return fail(err)
	}
	if err := copyRegular(src, dst); err != nil {
		return fail(err)
	}
	return plugin.OK("File copied successfully", nil)
}

func copyRegular(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", plugin.ErrInvalidArgument, src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (b *Bridge) moveFile(_ context.Context, call *Call) plugin.Result {
	src, err := call.Path(0)
	if err != nil {
		return fail(err)
	}
	dst, err := call.Path(1)
	if err != nil {
		return fail(err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fail(err)
	}
	return plugin.OK("File moved successfully", nil)
}
