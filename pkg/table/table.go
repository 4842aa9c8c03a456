// Package table holds the structural model of a table that column-width
// layout reads from and writes column positions back into.
//
// Columns exist at two granularities. Absolute columns are the ones HTML
// authors count with colspan. Effective columns are the coarsest split of the
// absolute columns such that every cell starts and ends on an effective
// column boundary: a table whose only row is <td colspan=3> has one
// effective column of span 3 until a later row splits it.
package table

import (
	"louis14tables/pkg/css"
	"louis14tables/pkg/html"
	"louis14tables/pkg/length"
)

type Table struct {
	Width          length.Length
	Quirks         bool
	HSpacing       int // horizontal border-spacing, 0 when borders collapse
	VSpacing       int
	BorderPadding  int // table borders + padding in the row direction
	OutOfFlow      bool
	ContainingCell *Cell // nearest enclosing cell, for nested tables

	Node  *html.Node
	Style *css.Style

	cols      []*ColumnElement
	sections  []*Section
	columns   []int // span of each effective column
	positions []int
}

func New() *Table {
	return &Table{Style: css.NewStyle()}
}

func (t *Table) InQuirksMode() bool { return t.Quirks }

func (t *Table) HBorderSpacing() int { return t.HSpacing }

// ColumnElement is a <col> or a <colgroup>.
type ColumnElement struct {
	Width    length.Length
	Span     int
	Group    bool
	Children []*ColumnElement

	parent *ColumnElement
}

// HasColumnChildren reports whether e is a <colgroup> with <col> children;
// such a group contributes only a default width for its children.
func (e *ColumnElement) HasColumnChildren() bool {
	return e.Group && len(e.Children) > 0
}

// IsLastInGroup reports whether e is the last <col> of its <colgroup>.
func (e *ColumnElement) IsLastInGroup() bool {
	if e.Group || e.parent == nil {
		return false
	}
	siblings := e.parent.Children
	return siblings[len(siblings)-1] == e
}

// AddColumnElement appends a top-level <col> or <colgroup>.
func (t *Table) AddColumnElement(e *ColumnElement) {
	if e.Span < 1 {
		e.Span = 1
	}
	for _, c := range e.Children {
		c.parent = e
		if c.Span < 1 {
			c.Span = 1
		}
	}
	t.cols = append(t.cols, e)
}

// ColumnElements returns column elements in traversal order: a group is
// visited before its children.
func (t *Table) ColumnElements() []*ColumnElement {
	var out []*ColumnElement
	for _, e := range t.cols {
		out = append(out, e)
		out = append(out, e.Children...)
	}
	return out
}

// ColElement returns the column element covering absolute column col, or
// nil. Groups with column children are skipped in favour of their children.
func (t *Table) ColElement(col int) *ColumnElement {
	_, e := t.colElementIndex(col)
	return e
}

func (t *Table) colElementIndex(col int) (int, *ColumnElement) {
	count := 0
	for i, e := range t.ColumnElements() {
		if e.HasColumnChildren() {
			continue
		}
		if count+e.Span-1 >= col {
			return i, e
		}
		count += e.Span
	}
	return -1, nil
}

// StyleOrColWidth is the width a cell declares, falling back to the width
// of the <col> elements it sits in when its own width is auto.
func (t *Table) StyleOrColWidth(c *Cell) length.Length {
	if !c.Width.IsAuto() {
		return c.Width
	}
	idx, first := t.colElementIndex(c.Col)
	if first == nil {
		return c.Width
	}

	// Percent <col> widths apply only to single-column cells; fixed widths
	// of consecutive <col>s are summed across the span.
	elements := t.ColumnElements()
	sum := 0
	for i := 0; i < c.ColSpan && idx+i < len(elements); i++ {
		w := elements[idx+i].Width
		if !w.IsFixed() {
			if c.ColSpan > 1 {
				return c.Width
			}
			return w
		}
		sum += w.Int()
	}

	// <col> widths are border-box widths.
	if sum > 0 {
		return length.FixedPx(max(0, sum-c.BorderPadding))
	}
	return length.FixedPx(sum)
}

// AddSection appends a row group.
func (t *Table) AddSection(kind SectionKind) *Section {
	s := &Section{Kind: kind, table: t, cRow: -1}
	t.sections = append(t.sections, s)
	return s
}

func (t *Table) Sections() []*Section { return t.sections }

// Cells returns every cell, section by section, in placement order.
func (t *Table) Cells() []*Cell {
	var out []*Cell
	for _, s := range t.sections {
		out = append(out, s.cells...)
	}
	return out
}

func (t *Table) NumEffCols() int { return len(t.columns) }

func (t *Table) SpanOfEffCol(effCol int) int { return t.columns[effCol] }

// ColToEffCol maps an absolute column to the effective column containing it.
func (t *Table) ColToEffCol(col int) int {
	effCol := 0
	c := 0
	for c < col && effCol < len(t.columns) {
		c += t.columns[effCol]
		effCol++
	}
	if c > col {
		effCol--
	}
	return effCol
}

// EffColToCol maps an effective column to its first absolute column.
func (t *Table) EffColToCol(effCol int) int {
	col := 0
	for i := 0; i < effCol && i < len(t.columns); i++ {
		col += t.columns[i]
	}
	return col
}

func (t *Table) appendColumn(span int) {
	t.columns = append(t.columns, span)
}

// splitColumn splits effective column pos so that its first part spans
// firstSpan absolute columns.
func (t *Table) splitColumn(pos, firstSpan int) {
	oldSpan := t.columns[pos]
	t.columns = append(t.columns, 0)
	copy(t.columns[pos+1:], t.columns[pos:])
	t.columns[pos] = firstSpan
	t.columns[pos+1] = oldSpan - firstSpan
	for _, s := range t.sections {
		s.splitColumn(pos)
	}
}

// BordersPaddingAndSpacing is everything in the row direction that is not
// column content: table borders and padding plus one spacing per gap,
// including the outer two.
func (t *Table) BordersPaddingAndSpacing() int {
	return t.BorderPadding + (t.NumEffCols()+1)*t.HSpacing
}

// SetColumnPosition records the start offset of effective column i; index
// NumEffCols holds the end of the last column.
func (t *Table) SetColumnPosition(i, pos int) {
	if len(t.positions) != t.NumEffCols()+1 {
		t.positions = make([]int, t.NumEffCols()+1)
	}
	t.positions[i] = pos
}

func (t *Table) ColumnPositions() []int {
	out := make([]int, len(t.positions))
	copy(out, t.positions)
	return out
}
