package text

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Measurer measures the advance width of a run of text.
type Measurer interface {
	Measure(text string, fontSize float64) float64
	LineHeight(fontSize float64) float64
}

// defaultFontsDir returns the fonts directory relative to this source file.
func defaultFontsDir() string {
	// Try relative to executable first
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Join(filepath.Dir(exe), "..", "fonts")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	// Fall back to compile-time source location
	_, thisFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "fonts")
}

// DefaultFontPath is the bundled regular face used when no font is configured.
func DefaultFontPath() string {
	return filepath.Join(defaultFontsDir(), "AtkinsonHyperlegible-Regular.ttf")
}

// FontMeasurer measures with a TrueType face loaded through gg. Faces are
// cached per size. If the font cannot be loaded, widths are estimated at
// 0.6em per character.
type FontMeasurer struct {
	path string

	mu    sync.Mutex
	faces map[float64]font.Face
	bad   bool
}

func NewFontMeasurer(path string) *FontMeasurer {
	if path == "" {
		path = DefaultFontPath()
	}
	return &FontMeasurer{path: path, faces: make(map[float64]font.Face)}
}

func (m *FontMeasurer) face(fontSize float64) font.Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bad {
		return nil
	}
	if f, ok := m.faces[fontSize]; ok {
		return f
	}
	f, err := gg.LoadFontFace(m.path, fontSize)
	if err != nil {
		m.bad = true
		return nil
	}
	m.faces[fontSize] = f
	return f
}

func (m *FontMeasurer) Measure(text string, fontSize float64) float64 {
	f := m.face(fontSize)
	if f == nil {
		return float64(utf8.RuneCountInString(text)) * fontSize * 0.6
	}
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(f)
	w, _ := dc.MeasureString(text)
	return w
}

func (m *FontMeasurer) LineHeight(fontSize float64) float64 {
	return fontSize * 1.2
}

// FixedAdvance gives every character the same advance of Advance em, like
// the Ahem test font. Layout tests use it to get exact pixel widths.
type FixedAdvance struct {
	Advance float64
}

func (m FixedAdvance) Measure(text string, fontSize float64) float64 {
	adv := m.Advance
	if adv == 0 {
		adv = 1
	}
	return float64(utf8.RuneCountInString(text)) * fontSize * adv
}

func (m FixedAdvance) LineHeight(fontSize float64) float64 {
	return fontSize
}

// MinMaxWidths returns the min-content width (widest word) and the
// max-content width (the whole run on one line) of whitespace-collapsed text.
func MinMaxWidths(m Measurer, text string, fontSize float64) (minW, maxW float64) {
	words := splitIntoWords(text)
	if len(words) == 0 {
		return 0, 0
	}
	for _, w := range words {
		if ww := m.Measure(w, fontSize); ww > minW {
			minW = ww
		}
	}
	maxW = m.Measure(joinWords(words), fontSize)
	if maxW < minW {
		maxW = minW
	}
	return minW, maxW
}

// BreakTextIntoLines breaks text into lines that fit within maxWidth. A word
// wider than maxWidth gets a line of its own.
func BreakTextIntoLines(m Measurer, text string, fontSize, maxWidth float64) []string {
	words := splitIntoWords(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0)
	currentLine := ""
	for _, word := range words {
		testLine := word
		if currentLine != "" {
			testLine = currentLine + " " + word
		}
		if currentLine == "" || m.Measure(testLine, fontSize) <= maxWidth {
			currentLine = testLine
			continue
		}
		lines = append(lines, currentLine)
		currentLine = word
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}
	return lines
}

// splitIntoWords splits text on whitespace
func splitIntoWords(text string) []string {
	words := make([]string, 0)
	start := -1
	for i, ch := range text {
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if start >= 0 {
				words = append(words, text[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, text[start:])
	}
	return words
}

func joinWords(words []string) string {
	n := len(words) - 1
	for _, w := range words {
		n += len(w)
	}
	b := make([]byte, 0, n)
	for i, w := range words {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, w...)
	}
	return string(b)
}
