package table

import (
	"louis14tables/pkg/css"
	"louis14tables/pkg/html"
	"louis14tables/pkg/length"
)

// Cell is a <td> or <th>. Width, spans and box metrics are inputs; the
// preferred widths are filled in by content measurement before column
// layout runs.
type Cell struct {
	Width   length.Length
	ColSpan int
	RowSpan int

	// Position, set by Section.AddCell. Row is relative to the section and
	// Col is the absolute column.
	Row int
	Col int

	MinPreferred int
	MaxPreferred int

	BorderPadding  int // horizontal borders + padding
	VBorderPadding int
	HasBorder      bool
	HasPadding     bool
	BorderBox      bool
	HasChildren    bool

	// Content, as measured by the layout engine.
	Text     string
	FontSize float64
	Images   []Image
	Tables   []*Table

	Node  *html.Node
	Style *css.Style

	section *Section
	table   *Table
}

func NewCell() *Cell {
	return &Cell{ColSpan: 1, RowSpan: 1, FontSize: css.DefaultFontSize, Style: css.NewStyle()}
}

func (c *Cell) Section() *Section { return c.section }

func (c *Cell) Table() *Table { return c.table }

// Image is an <img> inside a cell, sized by its width and height
// attributes.
type Image struct {
	Width  int
	Height int
}

// HasContent reports whether the cell counts as non-empty for the purpose
// of collapsing columns that hold only empty cells.
func (c *Cell) HasContent() bool {
	return c.HasChildren || c.HasBorder || c.HasPadding
}

// BorderBoxWidth converts a declared fixed width to a border-box width.
func (c *Cell) BorderBoxWidth(w int) int {
	if !c.BorderBox {
		return w + c.BorderPadding
	}
	return max(w, c.BorderPadding)
}
