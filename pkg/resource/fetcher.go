package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const userAgent = "louis14tables/1.0 (compatible; Go)"

// ErrStatus is returned for a non-2xx HTTP response.
var ErrStatus = errors.New("unexpected HTTP status")

// Fetcher retrieves resources by URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (body []byte, contentType string, err error)
}

// DefaultFetcher fetches resources over HTTP/HTTPS, resolving relative URIs
// against a base URL.
type DefaultFetcher struct {
	baseURL string
	client  *http.Client
}

// NewFetcher creates a DefaultFetcher with the given base URL.
// Relative URIs passed to Fetch will be resolved against this base.
func NewFetcher(baseURL string) *DefaultFetcher {
	return &DefaultFetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves the resource at the given URI.
func (f *DefaultFetcher) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	resolved := uri
	if !IsNetworkURL(uri) && f.baseURL != "" {
		resolved = ResolveURL(f.baseURL, uri)
	}
	if !IsNetworkURL(resolved) {
		return nil, "", fmt.Errorf("cannot fetch non-network URI: %s", resolved)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", resolved, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("%w: %d fetching %s", ErrStatus, resp.StatusCode, resolved)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// Load returns the HTML at src, which is an http(s) URL or a file path.
// A file:// URL is read from disk.
func Load(ctx context.Context, f Fetcher, src string) (string, error) {
	if IsNetworkURL(src) {
		body, contentType, err := f.Fetch(ctx, src)
		if err != nil {
			return "", err
		}
		ct := strings.ToLower(contentType)
		if ct != "" && !strings.HasPrefix(ct, "text/") {
			return "", fmt.Errorf("unexpected content type for HTML: %s", contentType)
		}
		return string(body), nil
	}

	path := src
	if strings.HasPrefix(src, "file://") {
		u, err := url.Parse(src)
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", src, err)
		}
		path = u.Path
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(body), nil
}

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL returns true if the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
