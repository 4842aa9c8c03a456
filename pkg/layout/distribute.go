package layout

import (
	"slices"

	"louis14tables/pkg/length"
)

// Distribute assigns ComputedWidth to every column for a table whose
// content width (excluding borders, padding and spacing) is tableWidth.
// hasPercent reports whether any cell declared a percent width.
//
// Columns start at their min widths, then grow in order: percent, fixed,
// relative, auto, fixed again, percent again and finally everything but
// empty auto columns. Any overshoot is taken back from auto, relative,
// fixed and percent columns, in that order.
func Distribute(cols Columns, tableWidth int, hasPercent bool) Columns {
	cols = slices.Clone(cols)
	n := len(cols)
	available := tableWidth

	havePercent := false
	totalRelative := 0
	numAuto, numFixed := 0, 0
	var totalAuto, totalFixed, totalPercent float32
	allocAuto := 0
	numAutoEmptyCellsOnly := 0

	for i := range cols {
		c := &cols[i]
		c.ComputedWidth = c.EffectiveMinWidth
		available -= c.EffectiveMinWidth
		switch c.EffectiveWidth.Type {
		case length.Percent:
			havePercent = true
			totalPercent += c.EffectiveWidth.Percent()
		case length.Relative:
			totalRelative += c.EffectiveWidth.Int()
		case length.Fixed:
			numFixed++
			totalFixed += float32(c.EffectiveMaxWidth)
		case length.Auto:
			if c.EmptyCellsOnly {
				numAutoEmptyCellsOnly++
			} else {
				numAuto++
				totalAuto += float32(c.EffectiveMaxWidth)
				allocAuto += c.EffectiveMinWidth
			}
		}
	}

	if available > 0 && havePercent {
		for i := range cols {
			c := &cols[i]
			if !c.EffectiveWidth.IsPercent() {
				continue
			}
			w := max(c.EffectiveMinWidth, c.EffectiveWidth.ValueFor(tableWidth))
			available += c.ComputedWidth - w
			c.ComputedWidth = w
		}
		if totalPercent > 100 {
			// Take the over-allocation back from the last columns.
			excess := int(float32(tableWidth) * (totalPercent - 100) / 100)
			for i := n - 1; i >= 0; i-- {
				c := &cols[i]
				if !c.EffectiveWidth.IsPercent() {
					continue
				}
				w := c.ComputedWidth
				reduce := min(w, excess)
				excess -= reduce
				newWidth := max(c.EffectiveMinWidth, w-reduce)
				available += w - newWidth
				c.ComputedWidth = newWidth
			}
		}
	}

	if available > 0 {
		for i := range cols {
			c := &cols[i]
			if c.EffectiveWidth.IsFixed() && c.EffectiveWidth.Int() > c.ComputedWidth {
				available += c.ComputedWidth - c.EffectiveWidth.Int()
				c.ComputedWidth = c.EffectiveWidth.Int()
			}
		}
	}

	if available > 0 {
		for i := range cols {
			c := &cols[i]
			// 0* keeps its min width.
			if c.EffectiveWidth.IsRelative() && c.EffectiveWidth.Int() != 0 {
				w := c.EffectiveWidth.Int() * tableWidth / totalRelative
				available += c.ComputedWidth - w
				c.ComputedWidth = w
			}
		}
	}

	if available > 0 && numAuto > 0 {
		// Auto columns were seeded with their mins; hand that back and
		// redistribute it by max width.
		available += allocAuto
		for i := range cols {
			c := &cols[i]
			if !c.EffectiveWidth.IsAuto() || totalAuto == 0 || c.EmptyCellsOnly {
				continue
			}
			w := max(c.ComputedWidth, int(float32(available)*float32(c.EffectiveMaxWidth)/totalAuto))
			available -= w
			totalAuto -= float32(c.EffectiveMaxWidth)
			c.ComputedWidth = w
		}
	}

	if available > 0 && numFixed > 0 {
		for i := range cols {
			c := &cols[i]
			if !c.EffectiveWidth.IsFixed() {
				continue
			}
			w := 0
			if totalFixed > 0 {
				w = int(float32(available) * float32(c.EffectiveMaxWidth) / totalFixed)
			}
			available -= w
			totalFixed -= float32(c.EffectiveMaxWidth)
			c.ComputedWidth += w
		}
	}

	if available > 0 && hasPercent && totalPercent < 100 {
		for i := range cols {
			c := &cols[i]
			if !c.EffectiveWidth.IsPercent() {
				continue
			}
			w := int(float32(available) * c.EffectiveWidth.Percent() / totalPercent)
			available -= w
			totalPercent -= c.EffectiveWidth.Percent()
			c.ComputedWidth += w
			if available == 0 || totalPercent == 0 {
				break
			}
		}
	}

	if available > 0 && n > numAutoEmptyCellsOnly {
		total := n - numAutoEmptyCellsOnly
		for i := n - 1; i >= 0; i-- {
			c := &cols[i]
			// Auto columns holding only empty cells get nothing.
			if c.EffectiveWidth.IsAuto() && c.EmptyCellsOnly {
				continue
			}
			w := available / total
			available -= w
			total--
			c.ComputedWidth += w
		}
	}

	// Shrink in the reverse of the growth order. Proportional reduction
	// relative to each column's slack above its min matches IE to the pixel.
	for _, tier := range []length.Type{length.Auto, length.Relative, length.Fixed, length.Percent} {
		if available >= 0 {
			break
		}
		if tier == length.Percent && !havePercent {
			break
		}
		available = shrink(cols, tier, available)
	}
	return cols
}

// shrink takes up to -available pixels back from columns of the given type,
// in proportion to how far each is above its effective min width. It
// returns the remaining (still negative, or zero) budget.
func shrink(cols Columns, tier length.Type, available int) int {
	beyondMin := 0
	for i := len(cols) - 1; i >= 0; i-- {
		if cols[i].EffectiveWidth.Type == tier {
			beyondMin += cols[i].ComputedWidth - cols[i].EffectiveMinWidth
		}
	}

	for i := len(cols) - 1; i >= 0 && beyondMin > 0; i-- {
		c := &cols[i]
		if c.EffectiveWidth.Type != tier {
			continue
		}
		diff := c.ComputedWidth - c.EffectiveMinWidth
		reduce := available * diff / beyondMin
		c.ComputedWidth += reduce
		available -= reduce
		beyondMin -= diff
		if available >= 0 {
			break
		}
	}
	return available
}

// ColumnPositions returns the start offset of every column plus the end of
// the last one. Each column advances the position by its width and spacing.
func ColumnPositions(cols Columns, spacing int) []int {
	positions := make([]int, len(cols)+1)
	pos := 0
	for i, c := range cols {
		positions[i] = pos
		pos += c.ComputedWidth + spacing
	}
	positions[len(cols)] = pos
	return positions
}
