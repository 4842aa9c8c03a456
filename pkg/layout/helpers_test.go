package layout

import (
	"louis14tables/pkg/length"
	"louis14tables/pkg/table"
)

// newGrid builds a single-section table with no spacing, borders or
// padding from rows of cells.
func newGrid(rows ...[]*table.Cell) *table.Table {
	t := table.New()
	s := t.AddSection(table.SectionBody)
	for _, row := range rows {
		s.AddRow()
		for _, c := range row {
			s.AddCell(c)
		}
	}
	return t
}

func cell(minW, maxW int, w length.Length) *table.Cell {
	return spanCell(1, minW, maxW, w)
}

func spanCell(colspan, minW, maxW int, w length.Length) *table.Cell {
	c := table.NewCell()
	c.ColSpan = colspan
	c.MinPreferred = minW
	c.MaxPreferred = maxW
	c.Width = w
	c.HasChildren = true
	return c
}

func emptyCell() *table.Cell {
	return table.NewCell()
}

func auto() length.Length { return length.AutoLength() }

// col builds a column record whose effective values equal its declared ones.
func col(w length.Length, minW, maxW int) ColumnLayout {
	return ColumnLayout{
		Width:             w,
		MinWidth:          minW,
		MaxWidth:          maxW,
		EffectiveWidth:    w,
		EffectiveMinWidth: minW,
		EffectiveMaxWidth: maxW,
	}
}

func effectiveWidths(cols Columns) []length.Length {
	out := make([]length.Length, len(cols))
	for i, c := range cols {
		out[i] = c.EffectiveWidth
	}
	return out
}

func effectiveMins(cols Columns) []int {
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = c.EffectiveMinWidth
	}
	return out
}

func effectiveMaxes(cols Columns) []int {
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = c.EffectiveMaxWidth
	}
	return out
}
