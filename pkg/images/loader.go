package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrUnsupported is returned for image sources that are neither a local
// path nor a data URI.
var ErrUnsupported = errors.New("unsupported image source")

// DefaultCacheSize is the number of image sizes a SizeCache remembers.
const DefaultCacheSize = 512

type size struct{ width, height int }

// SizeCache reads the intrinsic size of images referenced by <img src>,
// decoding only the image header. The most recently used sizes are cached
// per source. It is safe for concurrent use.
type SizeCache struct {
	baseDir string
	sizes   *lru.Cache[string, size]
}

// NewSizeCache resolves relative paths against baseDir.
func NewSizeCache(baseDir string) *SizeCache {
	return NewSizeCacheWithLimit(baseDir, DefaultCacheSize)
}

// NewSizeCacheWithLimit is NewSizeCache with room for limit entries. A
// non-positive limit means DefaultCacheSize.
func NewSizeCacheWithLimit(baseDir string, limit int) *SizeCache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	sizes, _ := lru.New[string, size](limit)
	return &SizeCache{baseDir: baseDir, sizes: sizes}
}

// Size returns the width and height of the image at src.
func (c *SizeCache) Size(src string) (width, height int, err error) {
	if s, ok := c.sizes.Get(src); ok {
		return s.width, s.height, nil
	}

	s, err := c.decode(src)
	if err != nil {
		return 0, 0, err
	}
	c.sizes.Add(src, s)
	return s.width, s.height, nil
}

// Len returns the number of cached sizes.
func (c *SizeCache) Len() int { return c.sizes.Len() }

// Lookup adapts Size to the table builder's image hook.
func (c *SizeCache) Lookup(src string) (width, height int, ok bool) {
	w, h, err := c.Size(src)
	return w, h, err == nil
}

func (c *SizeCache) decode(src string) (size, error) {
	var r io.Reader
	switch {
	case IsDataURI(src):
		data, err := decodeDataURI(src)
		if err != nil {
			return size{}, err
		}
		r = bytes.NewReader(data)
	case strings.Contains(src, "://") && !strings.HasPrefix(src, "file://"):
		return size{}, fmt.Errorf("%w: %s", ErrUnsupported, src)
	default:
		path := src
		if strings.HasPrefix(src, "file://") {
			u, err := url.Parse(src)
			if err != nil {
				return size{}, err
			}
			path = u.Path
		} else if !filepath.IsAbs(path) {
			path = filepath.Join(c.baseDir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return size{}, err
		}
		defer f.Close()
		r = f
	}

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return size{}, fmt.Errorf("decoding %s: %w", abbreviate(src), err)
	}
	return size{cfg.Width, cfg.Height}, nil
}

// IsDataURI reports whether s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	return []byte(s), err
}

func abbreviate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
