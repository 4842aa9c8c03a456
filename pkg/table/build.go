package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"louis14tables/pkg/css"
	"louis14tables/pkg/html"
	"louis14tables/pkg/length"
)

// ErrNotTable is returned by Build when the node is not a <table> element.
var ErrNotTable = errors.New("not a table element")

// Attribute clamps applied by HTML parsers.
const (
	maxColSpan = 1000
	maxRowSpan = 65534
)

type BuildOptions struct {
	Quirks bool
	// DefaultSpacing is the border-spacing of tables that declare none.
	// Browsers use css.DefaultBorderSpacing.
	DefaultSpacing int
	// ImageSize looks up the intrinsic size of an <img src>. When nil, or
	// when it fails, images without dimension attributes are 0x0.
	ImageSize func(src string) (width, height int, ok bool)
	// DefaultFontSize applies to cells that declare no font-size. Zero
	// means css.DefaultFontSize.
	DefaultFontSize float64
}

// Build constructs the table model for a <table> element. Nested tables are
// built recursively and attached to the cell that contains them.
func Build(node *html.Node, opts BuildOptions) (*Table, error) {
	if !node.IsElement("table") {
		return nil, fmt.Errorf("build %q: %w", describe(node), ErrNotTable)
	}
	return build(node, opts, nil), nil
}

func describe(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	if n.Type == html.TextNode {
		return "#text"
	}
	return n.TagName
}

func build(node *html.Node, opts BuildOptions, containingCell *Cell) *Table {
	t := New()
	t.Node = node
	t.Quirks = opts.Quirks
	t.ContainingCell = containingCell
	t.Style = css.TableStyle(node, opts.DefaultSpacing)
	t.Width = declaredWidth(node, t.Style, false)

	border := t.Style.GetBorderWidth()
	if t.Style.GetBorderCollapse() == css.BorderCollapseCollapse {
		// Collapsed borders have no spacing and no table padding.
		t.BorderPadding = int(border.Horizontal())
	} else {
		spacing := int(t.Style.GetBorderSpacing())
		t.HSpacing = spacing
		t.VSpacing = spacing
		t.BorderPadding = int(border.Horizontal() + t.Style.GetPadding().Horizontal())
	}
	if pos, ok := t.Style.Get("position"); ok && (pos == "absolute" || pos == "fixed") {
		t.OutOfFlow = true
	}
	if f, ok := t.Style.Get("float"); ok && f != "none" {
		t.OutOfFlow = true
	}

	// CSS 2.1 §17.2.1: consecutive cells or rows outside a row group get an
	// anonymous row group, and cells outside a row get an anonymous row.
	var anonSection *Section
	anonRow := false
	for _, child := range node.ChildElements() {
		switch child.TagName {
		case "col":
			t.AddColumnElement(buildColumn(child))
		case "colgroup":
			group := buildColumn(child)
			group.Group = true
			for _, col := range child.ChildElements() {
				if col.IsElement("col") {
					group.Children = append(group.Children, buildColumn(col))
				}
			}
			t.AddColumnElement(group)
		case "thead", "tbody", "tfoot":
			anonSection = nil
			section := t.AddSection(sectionKind(child.TagName))
			for _, row := range child.ChildElements() {
				if row.IsElement("tr") {
					buildRow(t, section, row, opts)
				}
			}
		case "tr":
			if anonSection == nil {
				anonSection = t.AddSection(SectionBody)
			}
			anonRow = false
			buildRow(t, anonSection, child, opts)
		case "td", "th":
			if anonSection == nil {
				anonSection = t.AddSection(SectionBody)
			}
			if !anonRow {
				anonSection.AddRow()
				anonRow = true
			}
			anonSection.AddCell(buildCell(t, child, opts))
		}
	}
	return t
}

func sectionKind(tag string) SectionKind {
	switch tag {
	case "thead":
		return SectionHead
	case "tfoot":
		return SectionFoot
	default:
		return SectionBody
	}
}

func buildRow(t *Table, section *Section, row *html.Node, opts BuildOptions) {
	section.AddRow()
	for _, child := range row.ChildElements() {
		if child.IsElement("td", "th") {
			section.AddCell(buildCell(t, child, opts))
		}
	}
}

func buildColumn(node *html.Node) *ColumnElement {
	style := css.ColumnStyle(node)
	return &ColumnElement{
		Width: declaredWidth(node, style, true),
		Span:  spanAttr(node, "span", 1, maxColSpan),
	}
}

func buildCell(t *Table, node *html.Node, opts BuildOptions) *Cell {
	c := NewCell()
	c.Node = node
	c.Style = css.CellStyle(node, t.Node)
	c.Width = declaredWidth(node, c.Style, false)
	c.ColSpan = spanAttr(node, "colspan", 1, maxColSpan)
	c.RowSpan = spanAttr(node, "rowspan", 1, maxRowSpan)
	c.FontSize = c.Style.GetFontSize()
	if _, ok := c.Style.GetLength("font-size"); !ok && opts.DefaultFontSize > 0 {
		c.FontSize = opts.DefaultFontSize
	}

	border := c.Style.GetBorderWidth()
	padding := c.Style.GetPadding()
	c.HasBorder = !border.IsZero()
	c.HasPadding = !padding.IsZero()
	c.BorderPadding = int(border.Horizontal() + padding.Horizontal())
	c.VBorderPadding = int(border.Vertical() + padding.Vertical())
	c.BorderBox = c.Style.GetBoxSizing() == css.BoxSizingBorderBox

	var sb strings.Builder
	collectContent(c, node, opts, &sb, true)
	c.Text = sb.String()
	c.HasChildren = c.HasChildren || strings.TrimSpace(c.Text) != ""
	return c
}

// collectContent gathers the text, image widths and nested tables of a
// cell. A nested table only sees c as its containing cell when nothing
// with a declared width sits between them.
func collectContent(c *Cell, n *html.Node, opts BuildOptions, sb *strings.Builder, autoPath bool) {
	for _, child := range n.Children {
		if child.Type == html.TextNode {
			sb.WriteString(child.Text)
			continue
		}
		c.HasChildren = true
		switch child.TagName {
		case "table":
			var cc *Cell
			if autoPath {
				cc = c
			}
			c.Tables = append(c.Tables, build(child, opts, cc))
		case "img":
			c.Images = append(c.Images, imageBox(child, opts))
			sb.WriteByte(' ')
		case "br":
			sb.WriteByte(' ')
		default:
			childAuto := autoPath
			if v, ok := child.GetAttribute("style"); ok && !css.ParseInlineStyle(v).GetWidth().IsAuto() {
				childAuto = false
			}
			collectContent(c, child, opts, sb, childAuto)
		}
	}
}

// imageBox sizes an <img> from its attributes. A missing dimension comes
// from the intrinsic size, scaled to keep the aspect ratio when the other
// dimension is given.
func imageBox(n *html.Node, opts BuildOptions) Image {
	w, hasW := pixelAttr(n, "width")
	h, hasH := pixelAttr(n, "height")
	if (hasW && hasH) || opts.ImageSize == nil {
		return Image{Width: w, Height: h}
	}
	src, _ := n.GetAttribute("src")
	iw, ih, ok := opts.ImageSize(src)
	if !ok {
		return Image{Width: w, Height: h}
	}
	switch {
	case hasW && iw > 0:
		h = w * ih / iw
	case hasH && ih > 0:
		w = h * iw / ih
	case !hasW && !hasH:
		w, h = iw, ih
	}
	return Image{Width: w, Height: h}
}

func pixelAttr(n *html.Node, name string) (int, bool) {
	v, ok := n.GetAttribute(name)
	if !ok {
		return 0, false
	}
	l, err := length.ParseAttribute(v)
	if err != nil || !l.IsFixed() || l.IsNegative() {
		return 0, false
	}
	return l.Int(), true
}

// declaredWidth reads the width of a table, cell or column: inline style
// first, then the width attribute. Relative widths are only meaningful
// on columns.
func declaredWidth(node *html.Node, style *css.Style, allowRelative bool) length.Length {
	if w := style.GetWidth(); !w.IsAuto() {
		return w
	}
	v, ok := node.GetAttribute("width")
	if !ok {
		return length.AutoLength()
	}
	l, err := length.ParseAttribute(v)
	if err != nil || (l.IsRelative() && !allowRelative) || l.IsNegative() {
		return length.AutoLength()
	}
	return l
}

// spanAttr parses colspan, rowspan or span. Zero, negative and unparseable
// values fall back to def; large values are clamped to limit.
func spanAttr(node *html.Node, name string, def, limit int) int {
	v, ok := node.GetAttribute(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return def
	}
	return min(n, limit)
}
