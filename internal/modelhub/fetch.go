// Package modelhub downloads the stylization network once and keeps it in a
// local cache directory.
package modelhub

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"neural-stylizer/internal/logger"
)

const component = "ModelHub"

// Fetcher resolves a remote model reference to a file on disk.
type Fetcher struct {
	client   *http.Client
	cacheDir string
	logger   logger.Logger
}

func NewFetcher(cacheDir string, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 10 * time.Minute},
		cacheDir: cacheDir,
		logger:   log,
	}
}

// WithClient replaces the HTTP client.
func (f *Fetcher) WithClient(client *http.Client) *Fetcher {
	f.client = client
	return f
}

// CachePath returns where rawURL is stored once downloaded. Each distinct URL
// gets its own directory, so models that share a host and file name do not
// collide.
func (f *Fetcher) CachePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid model url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported model url scheme %q", u.Scheme)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "model.onnx"
	}
	sum := sha256.Sum256([]byte(u.String()))
	return filepath.Join(f.cacheDir, u.Host, hex.EncodeToString(sum[:8]), name), nil
}

// Evict removes the cached copy of rawURL so the next Ensure downloads it
// again. A missing entry is not an error.
func (f *Fetcher) Evict(rawURL string) error {
	dst, err := f.CachePath(rawURL)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("evict cached model: %w", err)
	}
	f.logger.Warning(component, "cached model evicted", map[string]interface{}{"path": dst})
	return nil
}

// Ensure returns the local path of rawURL, downloading it when it is not
// cached yet or when refresh is set.
func (f *Fetcher) Ensure(ctx context.Context, rawURL string, refresh bool) (string, error) {
	dst, err := f.CachePath(rawURL)
	if err != nil {
		return "", err
	}

	if !refresh {
		if info, err := os.Stat(dst); err == nil && info.Size() > 0 {
			f.logger.Info(component, "using cached model", map[string]interface{}{
				"path": dst,
				"size": info.Size(),
			})
			return dst, nil
		}
	}

	if err := f.download(ctx, rawURL, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, dst string) error {
	start := time.Now()
	f.logger.Info(component, "downloading model", map[string]interface{}{"url": rawURL})

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create model cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build model request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch model: unexpected status %s", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		return fmt.Errorf("fetch model: server returned a web page (%s), not a model", ct)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp model file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	written, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if written == 0 {
		return errors.New("fetch model: empty response body")
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return fmt.Errorf("fetch model: truncated download (%d of %d bytes)", written, resp.ContentLength)
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("store model: %w", err)
	}

	f.logger.Info(component, "model downloaded", map[string]interface{}{
		"path":        dst,
		"size":        written,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}
