package layout

import (
	"math"
	"slices"

	"louis14tables/pkg/length"
	"louis14tables/pkg/table"
)

const maxSpanWidth = math.MaxInt32 / 2

// ReconcileSpans folds the declared and intrinsic widths of spanning cells
// onto the columns they cover, narrowest spans first. It returns the updated
// columns and the table max width implied by percent-width spanning cells.
func ReconcileSpans(t Table, cols Columns, spans []*table.Cell) (Columns, int) {
	cols = slices.Clone(cols)
	n := len(cols)
	spacing := t.HBorderSpacing()

	for i := range cols {
		cols[i].EffectiveWidth = cols[i].Width
		cols[i].EffectiveMinWidth = cols[i].MinWidth
		cols[i].EffectiveMaxWidth = cols[i].MaxWidth
	}

	var maxWidth float32
	for _, cell := range spans {
		span := cell.ColSpan

		cellWidth := t.StyleOrColWidth(cell)
		if !cellWidth.IsRelative() && cellWidth.IsZero() {
			cellWidth = length.AutoLength()
		}

		effCol := t.ColToEffCol(cell.Col)
		lastCol := effCol
		// Spacing between covered columns belongs to the cell, so it is
		// added here and taken off once per covered column below.
		cellMin := cell.MinPreferred + spacing
		cellMax := cell.MaxPreferred + spacing
		var totalPercent float32
		spanMin, spanMax := 0, 0
		allColsArePercent := true
		allColsAreFixed := true
		haveAuto := false
		spanHasEmptyCellsOnly := true
		fixedWidth := 0

		for lastCol < n && span > 0 {
			c := &cols[lastCol]
			switch {
			case c.Width.IsPercent():
				totalPercent += c.Width.Percent()
				allColsAreFixed = false
			case c.Width.IsFixed() && c.Width.Value > 0:
				fixedWidth += c.Width.Int()
				allColsArePercent = false
			default:
				if c.Width.IsAuto() || c.Width.IsFixed() {
					haveAuto = true
				}
				// A spanning cell must not overwrite a column's percent width.
				if !c.EffectiveWidth.IsPercent() {
					c.EffectiveWidth = length.AutoLength()
					allColsArePercent = false
				} else {
					totalPercent += c.EffectiveWidth.Percent()
				}
				allColsAreFixed = false
			}
			if !c.EmptyCellsOnly {
				spanHasEmptyCellsOnly = false
			}
			span -= t.SpanOfEffCol(lastCol)
			spanMin += c.EffectiveMinWidth
			spanMax += c.EffectiveMaxWidth
			lastCol++
			cellMin -= spacing
			cellMax -= spacing
		}

		if cellWidth.IsPercent() {
			// A percentage the covered columns already meet or exceed cannot
			// be honoured without contradiction; the cell becomes auto.
			if totalPercent >= cellWidth.Percent() || allColsArePercent {
				cellWidth = length.AutoLength()
			} else {
				implied := float32(max(spanMax, cellMax)*100) / cellWidth.Percent()
				maxWidth = max(maxWidth, implied)

				// Every non-percent column in the span gets a share of the
				// missing percentage so the span sums up correctly.
				percentMissing := cellWidth.Percent() - totalPercent
				totalWidth := 0
				for pos := effCol; pos < lastCol; pos++ {
					if !cols[pos].EffectiveWidth.IsPercent() {
						totalWidth += cols[pos].EffectiveMaxWidth
					}
				}
				for pos := effCol; pos < lastCol && totalWidth > 0; pos++ {
					c := &cols[pos]
					if c.EffectiveWidth.IsPercent() {
						continue
					}
					percent := percentMissing * float32(c.EffectiveMaxWidth) / float32(totalWidth)
					totalWidth -= c.EffectiveMaxWidth
					percentMissing -= percent
					if percent > 0 {
						c.EffectiveWidth = length.Pct(float64(percent))
					} else {
						c.EffectiveWidth = length.AutoLength()
					}
				}
			}
		}

		if cellMin > spanMin {
			growMinWidths(cols[effCol:lastCol], cellMin, spanMin, spanMax, fixedWidth, allColsAreFixed, haveAuto)
		}

		if !cellWidth.IsPercent() {
			if cellMax > spanMax {
				for pos := effCol; spanMax >= 0 && pos < lastCol; pos++ {
					c := &cols[pos]
					share := cellMax
					if spanMax != 0 {
						share = int(float32(cellMax) * float32(c.EffectiveMaxWidth) / float32(spanMax))
					}
					colMax := max(c.EffectiveMaxWidth, share)
					spanMax -= c.EffectiveMaxWidth
					cellMax -= colMax
					c.EffectiveMaxWidth = colMax
				}
			}
		} else {
			for pos := effCol; pos < lastCol; pos++ {
				cols[pos].MaxWidth = max(cols[pos].MaxWidth, cols[pos].MinWidth)
			}
		}

		// A span of columns holding only empty cells counts as content.
		if spanHasEmptyCellsOnly {
			for pos := effCol; pos < lastCol; pos++ {
				cols[pos].EmptyCellsOnly = false
			}
		}
	}

	if maxWidth > maxSpanWidth {
		return cols, maxSpanWidth
	}
	return cols, int(maxWidth)
}

// growMinWidths raises the effective min widths of span so that they cover
// cellMin. Fixed columns are served before the rest when the span also has
// auto columns; a span of only fixed columns is split by declared width.
func growMinWidths(span Columns, cellMin, spanMin, spanMax, fixedWidth int, allColsAreFixed, haveAuto bool) {
	if allColsAreFixed {
		for i := 0; fixedWidth > 0 && i < len(span); i++ {
			c := &span[i]
			w := max(c.EffectiveMinWidth, cellMin*c.Width.Int()/fixedWidth)
			fixedWidth -= c.Width.Int()
			cellMin -= w
			c.EffectiveMinWidth = w
		}
		return
	}

	remainingMax := float32(spanMax)
	remainingMin := spanMin

	fixedFirst := func(c *ColumnLayout) bool {
		return c.Width.IsFixed() && haveAuto && fixedWidth <= cellMin
	}

	for i := 0; remainingMax >= 0 && i < len(span); i++ {
		c := &span[i]
		if !fixedFirst(c) {
			continue
		}
		colMin := max(c.EffectiveMinWidth, c.Width.Int())
		fixedWidth -= c.Width.Int()
		remainingMin -= c.EffectiveMinWidth
		remainingMax -= float32(c.EffectiveMaxWidth)
		cellMin -= colMin
		c.EffectiveMinWidth = colMin
	}

	for i := 0; remainingMax >= 0 && i < len(span) && remainingMin < cellMin; i++ {
		c := &span[i]
		if fixedFirst(c) {
			continue
		}
		share := cellMin
		if remainingMax != 0 {
			share = int(float32(cellMin) * float32(c.EffectiveMaxWidth) / remainingMax)
		}
		colMin := max(c.EffectiveMinWidth, share)
		colMin = min(c.EffectiveMinWidth+(cellMin-remainingMin), colMin)
		remainingMax -= float32(c.EffectiveMaxWidth)
		remainingMin -= c.EffectiveMinWidth
		cellMin -= colMin
		c.EffectiveMinWidth = colMin
	}
}
