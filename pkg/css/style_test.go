package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"louis14tables/pkg/html"
	"louis14tables/pkg/length"
)

func TestParseInlineStyle_Shorthands(t *testing.T) {
	style := ParseInlineStyle("padding: 1px 2px; border: 3px solid red; WIDTH: 50%")

	assert.Equal(t, BoxEdge{Top: 1, Right: 2, Bottom: 1, Left: 2}, style.GetPadding())
	assert.Equal(t, BoxEdge{Top: 3, Right: 3, Bottom: 3, Left: 3}, style.GetBorderWidth())
	assert.Equal(t, length.Pct(50), style.GetWidth())
}

func TestGetBorderWidth_StyleNone(t *testing.T) {
	style := ParseInlineStyle("border: 4px none")
	assert.True(t, style.GetBorderWidth().IsZero())
}

func TestGetWidth_Invalid(t *testing.T) {
	style := ParseInlineStyle("width: banana")
	assert.True(t, style.GetWidth().IsAuto())

	style = ParseInlineStyle("width: 2em; font-size: 10px")
	assert.Equal(t, length.FixedPx(20), style.GetWidth())
}

func TestBorderSpacingAndCollapse(t *testing.T) {
	style := ParseInlineStyle("border-spacing: 4px 8px; border-collapse: collapse; box-sizing: border-box")
	assert.Equal(t, 4.0, style.GetBorderSpacing())
	assert.Equal(t, BorderCollapseCollapse, style.GetBorderCollapse())
	assert.Equal(t, BoxSizingBorderBox, style.GetBoxSizing())
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#f00")
	require.True(t, ok)
	assert.Equal(t, Color{255, 0, 0}, c)

	c, ok = ParseColor("#102030")
	require.True(t, ok)
	assert.Equal(t, Color{0x10, 0x20, 0x30}, c)

	_, ok = ParseColor("nope")
	assert.False(t, ok)
}

func parseFirst(t *testing.T, src, tag string) *html.Node {
	t.Helper()
	doc, err := html.Parse(src)
	require.NoError(t, err)
	nodes := doc.Root.FindAll(tag)
	require.NotEmpty(t, nodes)
	return nodes[0]
}

func TestTableStyle_Presentational(t *testing.T) {
	table := parseFirst(t, `<table cellspacing="5" border="2"></table>`, "table")
	style := TableStyle(table, DefaultBorderSpacing)
	assert.Equal(t, 5.0, style.GetBorderSpacing())
	assert.Equal(t, 2.0, style.GetBorderWidth().Left)

	// Inline style wins over presentational attributes.
	table = parseFirst(t, `<table cellspacing="5" style="border-spacing: 0"></table>`, "table")
	assert.Equal(t, 0.0, TableStyle(table, DefaultBorderSpacing).GetBorderSpacing())

	// User agent default.
	table = parseFirst(t, `<table></table>`, "table")
	assert.Equal(t, 2.0, TableStyle(table, DefaultBorderSpacing).GetBorderSpacing())
}

func TestCellStyle_Presentational(t *testing.T) {
	src := `<table cellpadding="4" border><tr><td style="padding-left: 0">x</td></tr></table>`
	table := parseFirst(t, src, "table")
	td := parseFirst(t, src, "td")

	style := CellStyle(td, table)
	assert.Equal(t, BoxEdge{Top: 4, Right: 4, Bottom: 4, Left: 0}, style.GetPadding())
	assert.Equal(t, 1.0, style.GetBorderWidth().Right)

	// Default cell padding without cellpadding.
	plain := parseFirst(t, `<table><tr><td>x</td></tr></table>`, "table")
	plainTd := parseFirst(t, `<table><tr><td>x</td></tr></table>`, "td")
	assert.Equal(t, 1.0, CellStyle(plainTd, plain).GetPadding().Top)
}

func TestParsePixels(t *testing.T) {
	n, ok := parsePixels("12px")
	assert.True(t, ok)
	assert.Equal(t, 12, n)
	_, ok = parsePixels("px")
	assert.False(t, ok)
}
