package layout

import (
	"slices"

	"louis14tables/pkg/length"
	"louis14tables/pkg/table"
)

// All browsers cap a cell's declared width. The limit comes from KHTML's
// 16-bit width representation.
const cellMaxWidth = 32760

// Table is the read-only view of a table that the width passes consume.
type Table interface {
	NumEffCols() int
	SpanOfEffCol(effCol int) int
	ColToEffCol(col int) int
	ColumnElements() []*table.ColumnElement
	Sections() []*table.Section
	StyleOrColWidth(c *table.Cell) length.Length
	InQuirksMode() bool
	HBorderSpacing() int
}

// ColumnLayout is the width record of one effective column.
type ColumnLayout struct {
	Width    length.Length // declared
	MinWidth int
	MaxWidth int

	// After reconciliation with spanning cells.
	EffectiveWidth    length.Length
	EffectiveMinWidth int
	EffectiveMaxWidth int

	ComputedWidth  int
	EmptyCellsOnly bool
}

type Columns []ColumnLayout

func newColumns(n int) Columns {
	cols := make(Columns, n)
	for i := range cols {
		cols[i].EmptyCellsOnly = true
	}
	return cols
}

// ComputedWidths returns the final width of every column.
func (cols Columns) ComputedWidths() []int {
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = c.ComputedWidth
	}
	return out
}

type RecalcResult struct {
	Columns Columns
	// Cells spanning more than one column, ascending by colspan. Cells with
	// equal spans keep the order in which they were found.
	Spans      []*table.Cell
	HasPercent bool
}

// Recalc rebuilds the per-column records from the table's column elements
// and cells.
func Recalc(t Table) RecalcResult {
	n := t.NumEffCols()
	res := RecalcResult{Columns: newColumns(n)}

	var groupWidth length.Length
	currentColumn := 0
	for _, e := range t.ColumnElements() {
		if e.HasColumnChildren() {
			groupWidth = e.Width
			continue
		}
		w := e.Width
		if w.IsAuto() {
			w = groupWidth
		}
		if (w.IsFixed() || w.IsPercent()) && w.IsZero() {
			w = length.AutoLength()
		}
		effCol := t.ColToEffCol(currentColumn)
		if !w.IsAuto() && e.Span == 1 && effCol < n && t.SpanOfEffCol(effCol) == 1 {
			res.Columns[effCol].Width = w
			if w.IsFixed() && res.Columns[effCol].MaxWidth < w.Int() {
				res.Columns[effCol].MaxWidth = w.Int()
			}
		}
		currentColumn += e.Span

		if e.IsLastInGroup() {
			groupWidth = length.AutoLength()
		}
	}

	for effCol := 0; effCol < n; effCol++ {
		recalcColumn(t, &res, effCol)
	}
	return res
}

func recalcColumn(t Table, res *RecalcResult, effCol int) {
	col := &res.Columns[effCol]

	var fixedContributor, maxContributor *table.Cell

	for _, section := range t.Sections() {
		for row := 0; row < section.NumRows(); row++ {
			current := section.CellAt(row, effCol)
			cell := current.Primary()
			if current.InColSpan || cell == nil {
				continue
			}

			hasContent := cell.HasContent()
			if hasContent {
				col.EmptyCellsOnly = false
			}

			// A cell originates in this column, so it gets at least 1px.
			if hasContent {
				col.MinWidth = max(col.MinWidth, 1)
			}
			col.MaxWidth = max(col.MaxWidth, 1)

			if cell.ColSpan > 1 {
				// Rows covered by a rowspan see the same cell again.
				if cell.Row == row && (effCol == 0 || section.CellAt(row, effCol-1).Primary() != cell) {
					res.Spans = insertSpanCell(res.Spans, cell)
				}
				continue
			}

			col.MinWidth = max(cell.MinPreferred, col.MinWidth)
			if cell.MaxPreferred > col.MaxWidth {
				col.MaxWidth = cell.MaxPreferred
				maxContributor = cell
			}

			w := t.StyleOrColWidth(cell)
			if w.Value > cellMaxWidth {
				w.Value = cellMaxWidth
			}
			if w.IsNegative() {
				w.Value = 0
			}

			switch w.Type {
			case length.Fixed:
				// width=0 is ignored.
				if !w.IsPositive() || col.Width.IsPercent() {
					break
				}
				width := cell.BorderBoxWidth(w.Int())
				if col.Width.IsFixed() {
					// Nav/IE weirdness: a wider declaration wins, and so does an
					// equal one from the cell that set the column's max width.
					if width > col.Width.Int() || (width == col.Width.Int() && maxContributor == cell) {
						col.Width = length.FixedPx(width)
						fixedContributor = cell
					}
				} else {
					col.Width = length.FixedPx(width)
					fixedContributor = cell
				}
			case length.Percent:
				res.HasPercent = true
				if w.IsPositive() && (!col.Width.IsPercent() || w.Percent() > col.Width.Percent()) {
					col.Width = w
				}
			case length.Relative:
				if w.Value > col.Width.Value {
					col.Width = w
				}
			}
		}
	}

	// Nav/IE weirdness: in quirks mode a fixed width loses to wider content
	// unless the same cell declared the width and the content.
	if col.Width.IsFixed() && t.InQuirksMode() && col.MaxWidth > col.Width.Int() && fixedContributor != maxContributor {
		col.Width = length.AutoLength()
	}

	col.MaxWidth = max(col.MaxWidth, col.MinWidth)
}

// insertSpanCell keeps spans sorted by ascending colspan. A new cell goes
// after every cell whose span is not larger than its own.
func insertSpanCell(spans []*table.Cell, cell *table.Cell) []*table.Cell {
	pos := len(spans)
	for pos > 0 && spans[pos-1].ColSpan > cell.ColSpan {
		pos--
	}
	return slices.Insert(spans, pos, cell)
}
