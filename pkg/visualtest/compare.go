// Package visualtest compares rendered tables against reference PNGs.
package visualtest

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// CompareResult contains the results of an image comparison
type CompareResult struct {
	Match           bool
	DifferentPixels int
	TotalPixels     int
	MaxDifference   int // largest channel difference found
}

// CompareOptions configures the image comparison
type CompareOptions struct {
	// Tolerance is the largest per-channel difference (0-255) that still
	// counts as equal.
	Tolerance int

	// FuzzyRadius lets a pixel match any reference pixel within this many
	// pixels, absorbing 1-2px text shifts between font rasterizers.
	FuzzyRadius int

	// MaxDifferentPercent passes the comparison when at most this share of
	// pixels differ.
	MaxDifferentPercent float64

	// DiffImagePath, when set, receives an image of the differences if the
	// comparison fails.
	DiffImagePath string
}

func DefaultOptions() CompareOptions {
	return CompareOptions{Tolerance: 2}
}

// CompareFile compares actual against the PNG at expectedPath.
func CompareFile(actual image.Image, expectedPath string, opts CompareOptions) (*CompareResult, error) {
	f, err := os.Open(expectedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open expected image: %w", err)
	}
	defer f.Close()

	expected, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode expected image: %w", err)
	}
	return Compare(actual, expected, opts)
}

// Compare compares two images pixel by pixel.
func Compare(actual, expected image.Image, opts CompareOptions) (*CompareResult, error) {
	bounds := actual.Bounds()
	if bounds != expected.Bounds() {
		return &CompareResult{}, fmt.Errorf("image dimensions differ: actual=%v, expected=%v", bounds, expected.Bounds())
	}

	result := &CompareResult{
		Match:       true,
		TotalPixels: bounds.Dx() * bounds.Dy(),
	}

	var diffImg *image.RGBA
	if opts.DiffImagePath != "" {
		diffImg = image.NewRGBA(bounds)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			diff := pixelDiff(actual.At(x, y), expected.At(x, y))
			result.MaxDifference = max(result.MaxDifference, diff)

			matched := diff <= opts.Tolerance ||
				(opts.FuzzyRadius > 0 && fuzzyMatch(actual, expected, x, y, opts.FuzzyRadius, opts.Tolerance))
			if !matched {
				result.Match = false
				result.DifferentPixels++
			}
			if diffImg != nil {
				if matched {
					gray := toGray(actual.At(x, y))
					diffImg.Set(x, y, color.RGBA{gray, gray, gray, 255})
				} else {
					diffImg.Set(x, y, color.RGBA{255, 0, 0, 255})
				}
			}
		}
	}

	if !result.Match && opts.MaxDifferentPercent > 0 {
		pct := float64(result.DifferentPixels) / float64(result.TotalPixels) * 100
		if pct <= opts.MaxDifferentPercent {
			result.Match = true
		}
	}

	if diffImg != nil && !result.Match {
		if err := savePNG(diffImg, opts.DiffImagePath); err != nil {
			return result, fmt.Errorf("failed to save diff image: %w", err)
		}
	}
	return result, nil
}

// pixelDiff is the largest 8-bit channel difference between a and b.
func pixelDiff(a, b color.Color) int {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return max(
		absDiff(ar, br),
		absDiff(ag, bg),
		absDiff(ab, bb),
		absDiff(aa, ba),
	)
}

func absDiff(a, b uint32) int {
	d := int(a>>8) - int(b>>8)
	if d < 0 {
		return -d
	}
	return d
}

func toGray(c color.Color) uint8 {
	r, _, _, _ := c.RGBA()
	return uint8(r >> 8)
}

// fuzzyMatch checks if the actual pixel at (x, y) matches any expected pixel within radius
func fuzzyMatch(actual, expected image.Image, x, y, radius, tolerance int) bool {
	bounds := actual.Bounds()
	a := actual.At(x, y)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := image.Pt(x+dx, y+dy)
			if !p.In(bounds) {
				continue
			}
			if pixelDiff(a, expected.At(p.X, p.Y)) <= tolerance {
				return true
			}
		}
	}
	return false
}

func savePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
