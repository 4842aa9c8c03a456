package images

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("data:image/png;base64,abc"))
	assert.False(t, IsDataURI("/path/to/file.png"))
	assert.False(t, IsDataURI(""))
}

func TestSize_DataURI(t *testing.T) {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, 3, 2))

	w, h, err := NewSizeCache("").Size(uri)
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
}

func TestSize_RelativePathAndCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 7, 5), 0o644))

	c := NewSizeCache(dir)
	w, h, err := c.Size("pic.png")
	require.NoError(t, err)
	assert.Equal(t, [2]int{7, 5}, [2]int{w, h})

	// Served from the cache once the file is gone.
	require.NoError(t, os.Remove(path))
	w, h, ok := c.Lookup("pic.png")
	assert.True(t, ok)
	assert.Equal(t, [2]int{7, 5}, [2]int{w, h})
}

func TestSize_Errors(t *testing.T) {
	c := NewSizeCache(t.TempDir())

	_, _, err := c.Size("https://example.com/a.png")
	assert.True(t, errors.Is(err, ErrUnsupported))

	_, _, err = c.Size("missing.png")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, _, err = c.Size("data:image/png;base64,bm90IGFuIGltYWdl")
	assert.ErrorContains(t, err, "decoding")

	_, _, ok := c.Lookup("missing.png")
	assert.False(t, ok)
}

func TestSizeCache_EvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), encodePNG(t, 2, 2), 0o644))
	}

	c := NewSizeCacheWithLimit(dir, 2)
	for _, name := range []string{"a.png", "b.png", "a.png", "c.png"} {
		_, _, err := c.Size(name)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	// b.png was evicted, so it is decoded again and fails once removed.
	require.NoError(t, os.Remove(filepath.Join(dir, "b.png")))
	require.NoError(t, os.Remove(filepath.Join(dir, "a.png")))
	_, _, ok := c.Lookup("a.png")
	assert.True(t, ok)
	_, _, ok = c.Lookup("b.png")
	assert.False(t, ok)
}
