package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/darvid/reqwire/pkg/httputil"
	"github.com/darvid/reqwire/pkg/requirements"
)

const (
	// DefaultIndexURL is the JSON API root of the public package index.
	DefaultIndexURL = "https://pypi.org/pypi"

	httpTimeout = 10 * time.Second

	// DefaultCacheTTL is how long package metadata stays fresh.
	DefaultCacheTTL = time.Hour
)

var (
	// ErrNotFound is returned when no index knows the requested package.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection
	// errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when an index throttles requests even
	// after retries.
	ErrRateLimited = errors.New("rate limited")
)

// Resolver resolves a package name to its canonical spelling and latest
// version. Implementations must be safe for sequential reuse; reqwire never
// calls Resolve concurrently.
type Resolver interface {
	Resolve(ctx context.Context, name string, prereleases bool) (canonical, version string, err error)
}

// Client resolves package names against one or more package index JSON APIs.
//
// The zero value is not usable; construct with [NewClient].
type Client struct {
	http      *http.Client
	cache     *httputil.Cache // may be nil to disable caching
	indexURLs []string
	refresh   bool
}

// NewClient creates a Client querying the given index API roots in order.
// With no indexURLs, [DefaultIndexURL] is used. cache may be nil, in which
// case every lookup goes to the network.
func NewClient(cache *httputil.Cache, indexURLs ...string) *Client {
	if len(indexURLs) == 0 {
		indexURLs = []string{DefaultIndexURL}
	}
	var c *httputil.Cache
	if cache != nil {
		c = cache.Namespace("pypi:")
	}
	return &Client{
		http:      &http.Client{Timeout: httpTimeout},
		cache:     c,
		indexURLs: indexURLs,
	}
}

// SetRefresh makes subsequent lookups bypass the cache (responses are still
// stored for later runs).
func (c *Client) SetRefresh(refresh bool) { c.refresh = refresh }

// packageInfo is the cached subset of a package index response. Releases
// maps each version to whether it has been fully yanked.
type packageInfo struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Releases map[string]bool `json:"releases"`
}

// Resolve returns the canonical name and latest version of a package.
//
// The name is matched case- and separator-insensitively (PEP 503). Versions
// are ordered per PEP 440; prereleases are skipped unless requested. All
// configured indexes are consulted in order and the first hit wins;
// [ErrNotFound] is returned only when every index misses.
func (c *Client) Resolve(ctx context.Context, name string, prereleases bool) (string, string, error) {
	normalized := requirements.NormalizeName(name)
	if normalized == "" {
		return "", "", fmt.Errorf("%w: empty package name", ErrNotFound)
	}

	var lastErr error
	for _, index := range c.indexURLs {
		info, err := c.fetch(ctx, index, normalized)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				lastErr = err
				continue
			}
			return "", "", err
		}
		return info.Name, latestVersion(info, prereleases), nil
	}
	if lastErr == nil {
		lastErr = ErrNotFound
	}
	return "", "", fmt.Errorf("%w: %s", lastErr, normalized)
}

func (c *Client) fetch(ctx context.Context, index, pkg string) (*packageInfo, error) {
	key := index + "#" + pkg
	var info packageInfo

	if c.cache != nil && !c.refresh {
		if ok, _ := c.cache.Get(key, &info); ok {
			return &info, nil
		}
	}

	err := httputil.RetryWithBackoff(ctx, func() error {
		return c.get(ctx, fmt.Sprintf("%s/%s/json", strings.TrimRight(index, "/"), pkg), &info)
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(key, &info)
	}
	return &info, nil
}

func (c *Client) get(ctx context.Context, url string, info *packageInfo) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: rate limited", ErrRateLimited)}
	case resp.StatusCode >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return err
	}
	*info = packageInfo{
		Name:     data.Info.Name,
		Version:  data.Info.Version,
		Releases: make(map[string]bool, len(data.Releases)),
	}
	for ver, files := range data.Releases {
		info.Releases[ver] = fullyYanked(files)
	}
	return nil
}

// fullyYanked reports whether a release should be skipped because every
// one of its files has been yanked. Releases with no files at all are kept;
// some indexes list source-only metadata that way.
func fullyYanked(files []releaseFile) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if !f.Yanked {
			return false
		}
	}
	return true
}

// latestVersion picks the highest PEP 440 version from the release list,
// skipping prereleases unless allowed. Falls back to the index's own notion
// of the current version when no release qualifies.
func latestVersion(info *packageInfo, prereleases bool) string {
	var (
		best    Version
		bestRaw string
	)
	for raw, yanked := range info.Releases {
		if yanked {
			continue
		}
		v, ok := ParseVersion(raw)
		if !ok {
			continue
		}
		if v.IsPrerelease() && !prereleases {
			continue
		}
		if bestRaw == "" || v.Compare(best) > 0 {
			best, bestRaw = v, raw
		}
	}
	if bestRaw == "" {
		return info.Version
	}
	return bestRaw
}

// SimpleToJSON rewrites a PEP 503 "simple" index URL to its JSON API root,
// so index URLs found in requirement source files can be used for lookups.
// URLs that do not end in /simple are returned unchanged.
func SimpleToJSON(indexURL string) string {
	trimmed := strings.TrimRight(indexURL, "/")
	if rest, ok := strings.CutSuffix(trimmed, "/simple"); ok {
		return rest + "/pypi"
	}
	return trimmed
}

type apiResponse struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"info"`
	Releases map[string][]releaseFile `json:"releases"`
}

type releaseFile struct {
	Yanked bool `json:"yanked"`
}
