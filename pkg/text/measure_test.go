package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMaxWidths(t *testing.T) {
	m := FixedAdvance{Advance: 1}

	minW, maxW := MinMaxWidths(m, "  Hello big   World ", 10)
	assert.Equal(t, 50.0, minW) // "Hello" and "World"
	assert.Equal(t, 150.0, maxW) // "Hello big World"

	minW, maxW = MinMaxWidths(m, "   ", 10)
	assert.Zero(t, minW)
	assert.Zero(t, maxW)
}

func TestBreakTextIntoLines(t *testing.T) {
	m := FixedAdvance{Advance: 1}

	lines := BreakTextIntoLines(m, "aa bb cc dd", 1, 5)
	assert.Equal(t, []string{"aa bb", "cc dd"}, lines)

	// An overlong word still gets its own line.
	lines = BreakTextIntoLines(m, "a verylongword b", 1, 4)
	assert.Equal(t, []string{"a", "verylongword", "b"}, lines)

	assert.Nil(t, BreakTextIntoLines(m, "", 1, 10))
}

func TestFontMeasurer_FallbackEstimate(t *testing.T) {
	m := NewFontMeasurer("/nonexistent/font.ttf")
	assert.InDelta(t, 4*10*0.6, m.Measure("abcd", 10), 1e-9)
	assert.InDelta(t, 12.0, m.LineHeight(10), 1e-9)
}

func TestSplitIntoWords(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitIntoWords("\ta  b\nc "))
	assert.Empty(t, splitIntoWords(" "))
}
