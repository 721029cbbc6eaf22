package market

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ilikebug/oTools/internal/constants"
	"github.com/ilikebug/oTools/internal/logger"
	"github.com/ilikebug/oTools/internal/validation"
)

// DefaultAPIBase is the GitHub REST endpoint
const DefaultAPIBase = "https://api.github.com"

// ErrNotFound is returned when the repository has no such folder
var ErrNotFound = errors.New("plugin not found in market")

// TokenSource supplies an optional API token
type TokenSource interface {
	MarketToken() (string, error)
}

// Target receives installed plugins
type Target interface {
	DefaultRoot() string
	Reload(ctx context.Context, scope string) error
}

// Listing describes a plugin offered by the market
type Listing struct {
	Folder      string `json:"folder"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
	Author      string `json:"author,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Options configures a Client
type Options struct {
	Repo       string
	APIBase    string
	Tokens     TokenSource
	HTTPClient *http.Client
}

// Client downloads plugin bundles from a GitHub repository
type Client struct {
	repo    string
	apiBase string
	tokens  TokenSource
	http    *http.Client
}

// New creates a market client
func New(opts Options) *Client {
	if opts.APIBase == "" {
		opts.APIBase = DefaultAPIBase
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		repo:    opts.Repo,
		apiBase: strings.TrimRight(opts.APIBase, "/"),
		tokens:  opts.Tokens,
		http:    opts.HTTPClient,
	}
}

func (c *Client) contentsURL(p string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.apiBase, c.repo, strings.TrimLeft(p, "/"))
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "oTools")
	req.Header.Set("Accept", "application/vnd.github+json")

	if c.tokens != nil {
		token, err := c.tokens.MarketToken()
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to read market token, continuing anonymously")
		} else if token != "" {
			req.Header.Set("Authorization", "token "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, url string) (gjson.Result, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON from %s", url)
	}
	return gjson.ParseBytes(body), nil
}

// Catalog lists every plugin folder of the repository that carries a
// readable manifest. Folders without one are skipped.
func (c *Client) Catalog(ctx context.Context) ([]Listing, error) {
	root, err := c.getJSON(ctx, c.contentsURL(""))
	if err != nil {
		return nil, err
	}

	var out []Listing
	for _, item := range root.Array() {
		if item.Get("type").String() != "dir" {
			continue
		}
		folder := item.Get("name").String()
		listing, err := c.listing(ctx, folder)
		if err != nil {
			logger.Log.Debug().Err(err).Str("folder", folder).Msg("Skipping market folder")
			continue
		}
		out = append(out, listing)
	}
	return out, nil
}

func (c *Client) listing(ctx context.Context, folder string) (Listing, error) {
	file, err := c.getJSON(ctx, c.contentsURL(path.Join(folder, constants.ManifestFile)))
	if err != nil {
		return Listing{}, err
	}
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Get("content").String(), "\n", ""))
	if err != nil {
		return Listing{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return Listing{}, fmt.Errorf("manifest of %s is not valid JSON", folder)
	}

	m := gjson.ParseBytes(raw)
	l := Listing{
		Folder:      folder,
		Name:        m.Get("name").String(),
		Description: m.Get("description").String(),
		Version:     m.Get("version").String(),
		Author:      m.Get("author").String(),
		Icon:        m.Get("icon").String(),
	}
	if l.Name == "" {
		l.Name = folder
	}
	return l, nil
}

// Download fetches folder into root, replacing any existing directory of
// the same name. Files are staged in a hidden sibling directory so that a
// failed download leaves the installed copy untouched.
func (c *Client) Download(ctx context.Context, folder, root string) (string, error) {
	if err := validation.ValidatePluginName(folder); err != nil {
		return "", err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("failed to create plugin root: %w", err)
	}

	staging, err := os.MkdirTemp(root, "."+folder+".download-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := c.downloadDir(ctx, c.contentsURL(folder), staging); err != nil {
		return "", fmt.Errorf("failed to download %s: %w", folder, err)
	}

	dest := filepath.Join(root, folder)
	if err := os.RemoveAll(dest); err != nil {
		return "", fmt.Errorf("failed to remove existing plugin: %w", err)
	}
	if err := os.Rename(staging, dest); err != nil {
		return "", fmt.Errorf("failed to install plugin: %w", err)
	}

	logger.Log.Info().Str("folder", folder).Str("path", dest).Msg("Plugin downloaded")
	return dest, nil
}

func (c *Client) downloadDir(ctx context.Context, url, dir string) error {
	listing, err := c.getJSON(ctx, url)
	if err != nil {
		return err
	}
	if !listing.IsArray() {
		return fmt.Errorf("%s is not a directory", url)
	}

	for _, item := range listing.Array() {
		name := item.Get("name").String()
		if err := validation.ValidatePluginName(name); err != nil {
			return fmt.Errorf("invalid entry name %q: %w", name, err)
		}
		target := filepath.Join(dir, name)

		switch item.Get("type").String() {
		case "file":
			if err := c.downloadFile(ctx, item.Get("download_url").String(), target); err != nil {
				return err
			}
		case "dir":
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			if err := c.downloadDir(ctx, item.Get("url").String(), target); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Client) downloadFile(ctx context.Context, url, dest string) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return f.Close()
}

// Install downloads folder into the target's default root and reloads the
// registry
func (c *Client) Install(ctx context.Context, folder string, target Target) (string, error) {
	dest, err := c.Download(ctx, folder, target.DefaultRoot())
	if err != nil {
		return "", err
	}
	if err := target.Reload(ctx, ""); err != nil {
		return dest, fmt.Errorf("plugin installed but reload failed: %w", err)
	}
	return dest, nil
}
