// Package pypi implements the release index against a PyPI-compatible JSON
// API, with a local file cache for repeated lookups.
package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/preflight/internal/core/domain"
	"go.trai.ch/preflight/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// cacheTTL bounds how stale a cached latest-version answer may be.
	cacheTTL = time.Hour

	requestTimeout = 30 * time.Second
)

// Client implements ports.ReleaseIndex against a PyPI-compatible endpoint.
type Client struct {
	baseURL   string
	http      *http.Client
	logger    ports.Logger
	cachePath string

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	Version   string    `json:"version"`
	FetchedAt time.Time `json:"fetched_at"`
}

// New creates a Client against baseURL (e.g. https://pypi.org), caching
// answers in the file at cachePath. The cache is loaded best-effort: a
// missing or corrupt cache file means a cold start, never a failure.
func New(baseURL string, cachePath string, logger ports.Logger) *Client {
	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		http:      &http.Client{Timeout: requestTimeout},
		logger:    logger,
		cachePath: filepath.Clean(cachePath),
		cache:     make(map[string]cacheEntry),
	}
	c.loadCache()
	return c
}

// Latest returns the newest published version of the named package.
func (c *Client) Latest(ctx context.Context, name string) (*semver.Version, error) {
	if version, ok := c.cached(name); ok {
		return version, nil
	}

	version, err := c.fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	c.updateCache(name, version)
	return version, nil
}

func (c *Client) cached(name string) (*semver.Version, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.cache[name]
	if !ok || time.Since(entry.FetchedAt) > cacheTTL {
		return nil, false
	}
	version, err := semver.NewVersion(entry.Version)
	if err != nil {
		delete(c.cache, name)
		return nil, false
	}
	return version, true
}

// releaseInfo is the slice of the index response we care about.
type releaseInfo struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
}

func (c *Client) fetch(ctx context.Context, name string) (*semver.Version, error) {
	url := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, zerr.With(domain.ErrIndexRequestFailed, "cause", err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Network trouble on the index is as transient as it is on install.
		reqErr := zerr.With(domain.ErrTransientInstall, "package", name)
		return nil, zerr.With(reqErr, "cause", err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, zerr.With(domain.ErrPackageNotFound, "package", name)
	case resp.StatusCode >= 500:
		reqErr := zerr.With(domain.ErrTransientInstall, "package", name)
		return nil, zerr.With(reqErr, "status", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		reqErr := zerr.With(domain.ErrIndexRequestFailed, "package", name)
		return nil, zerr.With(reqErr, "status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, zerr.With(domain.ErrIndexRequestFailed, "cause", err.Error())
	}

	var info releaseInfo
	if err := json.Unmarshal(body, &info); err != nil {
		parseErr := zerr.With(domain.ErrIndexParseFailed, "package", name)
		return nil, zerr.With(parseErr, "cause", err.Error())
	}
	version, err := semver.NewVersion(info.Info.Version)
	if err != nil {
		parseErr := zerr.With(domain.ErrIndexParseFailed, "package", name)
		return nil, zerr.With(parseErr, "version", info.Info.Version)
	}
	return version, nil
}

func (c *Client) loadCache() {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("release index cache unreadable, starting cold: " + err.Error())
		}
		return
	}
	if len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, &c.cache); err != nil {
		c.logger.Warn("release index cache corrupt, starting cold: " + err.Error())
		c.cache = make(map[string]cacheEntry)
	}
}

// updateCache records the answer in memory and persists best-effort: a
// failed write costs one extra network round trip next run, nothing more.
func (c *Client) updateCache(name string, version *semver.Version) {
	c.mu.Lock()
	c.cache[name] = cacheEntry{Version: version.String(), FetchedAt: time.Now()}
	data, err := json.MarshalIndent(c.cache, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o750); err != nil {
		c.logger.Warn("failed to create release index cache dir: " + err.Error())
		return
	}
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(c.cachePath, data, 0o644); err != nil {
		c.logger.Warn("failed to write release index cache: " + err.Error())
	}
}
