package visualtest

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

var white = color.RGBA{255, 255, 255, 255}

func TestCompare_Identical(t *testing.T) {
	res, err := Compare(solid(4, 4, white), solid(4, 4, white), DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.Match)
	assert.Equal(t, 16, res.TotalPixels)
	assert.Zero(t, res.MaxDifference)
}

func TestCompare_Tolerance(t *testing.T) {
	actual := solid(4, 4, white)
	actual.SetRGBA(1, 1, color.RGBA{254, 255, 255, 255})
	actual.SetRGBA(2, 2, color.RGBA{0, 0, 0, 255})

	res, err := Compare(actual, solid(4, 4, white), DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.Equal(t, 1, res.DifferentPixels)
	assert.Equal(t, 255, res.MaxDifference)

	res, err = Compare(actual, solid(4, 4, white), CompareOptions{Tolerance: 2, MaxDifferentPercent: 10})
	require.NoError(t, err)
	assert.True(t, res.Match, "one of 16 pixels differs")
}

func TestCompare_FuzzyRadius(t *testing.T) {
	actual := solid(5, 5, white)
	expected := solid(5, 5, white)
	black := color.RGBA{0, 0, 0, 255}
	actual.SetRGBA(2, 2, black)
	expected.SetRGBA(3, 2, black)

	res, err := Compare(actual, expected, CompareOptions{FuzzyRadius: 1})
	require.NoError(t, err)
	assert.True(t, res.Match)
}

func TestCompare_DimensionMismatch(t *testing.T) {
	res, err := Compare(solid(4, 4, white), solid(5, 4, white), DefaultOptions())
	assert.ErrorContains(t, err, "dimensions differ")
	assert.False(t, res.Match)
}

func TestCompareFile_WritesDiff(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.png")
	f, err := os.Create(ref)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solid(3, 3, white)))
	require.NoError(t, f.Close())

	actual := solid(3, 3, white)
	actual.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	diff := filepath.Join(dir, "diff.png")

	res, err := CompareFile(actual, ref, CompareOptions{DiffImagePath: diff})
	require.NoError(t, err)
	assert.False(t, res.Match)
	assert.FileExists(t, diff)

	_, err = CompareFile(actual, filepath.Join(dir, "missing.png"), DefaultOptions())
	assert.ErrorContains(t, err, "failed to open")
}
