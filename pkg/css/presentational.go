package css

import (
	"strconv"
	"strings"

	"louis14tables/pkg/html"
)

// User agent defaults for tables (HTML Living Standard §15.3.8).
const (
	DefaultBorderSpacing = 2
	defaultCellPadding   = "1px"
)

// TableStyle computes the style of a <table> element: inline style first,
// then presentational attributes, then defaultSpacing as border-spacing.
func TableStyle(table *html.Node, defaultSpacing int) *Style {
	style := inlineStyle(table)

	if v, ok := table.GetAttribute("cellspacing"); ok {
		if n, ok := parsePixels(v); ok {
			style.SetDefault("border-spacing", strconv.Itoa(n)+"px")
		}
	}
	if n, ok := tableBorderAttr(table); ok && n > 0 {
		for _, side := range []string{"top", "right", "bottom", "left"} {
			style.SetDefault("border-"+side+"-width", strconv.Itoa(n)+"px")
		}
	}
	if v, ok := table.GetAttribute("bgcolor"); ok {
		style.SetDefault("background-color", v)
	}
	style.SetDefault("border-spacing", strconv.Itoa(defaultSpacing)+"px")
	return style
}

// CellStyle computes the style of a <td>/<th>. table is the owning <table>
// element, whose cellpadding and border attributes apply to its cells.
func CellStyle(cell, table *html.Node) *Style {
	style := inlineStyle(cell)

	if table != nil {
		if v, ok := table.GetAttribute("cellpadding"); ok {
			if n, ok := parsePixels(v); ok {
				expandBoxPropertyDefault(style, "padding", strconv.Itoa(n)+"px")
			}
		}
		if n, ok := tableBorderAttr(table); ok && n > 0 {
			for _, side := range []string{"top", "right", "bottom", "left"} {
				style.SetDefault("border-"+side+"-width", "1px")
			}
		}
	}
	if v, ok := cell.GetAttribute("bgcolor"); ok {
		style.SetDefault("background-color", v)
	}
	expandBoxPropertyDefault(style, "padding", defaultCellPadding)
	return style
}

// ColumnStyle computes the style of a <col> or <colgroup>.
func ColumnStyle(col *html.Node) *Style {
	return inlineStyle(col)
}

func inlineStyle(n *html.Node) *Style {
	if v, ok := n.GetAttribute("style"); ok {
		return ParseInlineStyle(v)
	}
	return NewStyle()
}

func expandBoxPropertyDefault(style *Style, prefix, value string) {
	for _, side := range []string{"top", "right", "bottom", "left"} {
		style.SetDefault(prefix+"-"+side, value)
	}
}

// tableBorderAttr reads <table border>. A present but empty or
// unparseable attribute means a 1px border.
func tableBorderAttr(table *html.Node) (int, bool) {
	v, ok := table.GetAttribute("border")
	if !ok {
		return 0, false
	}
	if n, ok := parsePixels(v); ok {
		return n, true
	}
	return 1, true
}

// parsePixels parses a non-negative integer attribute, ignoring a trailing
// "px" and anything after the leading digits, as browsers do.
func parsePixels(v string) (int, bool) {
	v = strings.TrimSpace(v)
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
