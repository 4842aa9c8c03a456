package layout

import (
	"go.uber.org/zap"

	"louis14tables/pkg/table"
)

// tableMaxWidth bounds the max width a table can ask for when its columns
// are scaled up to honour percentages.
const tableMaxWidth = 1000000

// Zero percent is replaced by this many percent when dividing by a
// percentage.
const percentEpsilon float32 = 1.0 / 128

// AutoTableLayout sizes the columns of a table with table-layout: auto. It
// caches the column records between the intrinsic width query and layout.
type AutoTableLayout struct {
	table  *table.Table
	logger *zap.Logger

	columns                Columns
	spanCells              []*table.Cell
	hasPercent             bool
	effectiveWidthDirty    bool
	percentImpliedMaxWidth int
}

func NewAutoTableLayout(t *table.Table, logger *zap.Logger) *AutoTableLayout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoTableLayout{table: t, logger: logger, effectiveWidthDirty: true}
}

// Columns returns the current column records.
func (l *AutoTableLayout) Columns() Columns { return l.columns }

// HasPercent reports whether any cell declared a percent width.
func (l *AutoTableLayout) HasPercent() bool { return l.hasPercent }

// FullRecalc discards the column records and rebuilds them from the table.
func (l *AutoTableLayout) FullRecalc() {
	res := Recalc(l.table)
	l.columns = res.Columns
	l.spanCells = res.Spans
	l.hasPercent = res.HasPercent
	l.effectiveWidthDirty = true
	l.logger.Debug("table columns recalculated",
		zap.Int("columns", len(l.columns)),
		zap.Int("span_cells", len(l.spanCells)),
		zap.Bool("has_percent", l.hasPercent))
}

func (l *AutoTableLayout) calcEffectiveWidths() int {
	l.columns, l.percentImpliedMaxWidth = ReconcileSpans(l.table, l.columns, l.spanCells)
	l.effectiveWidthDirty = false
	return l.percentImpliedMaxWidth
}

// ComputeIntrinsicLogicalWidths returns the min and max widths of the
// table's columns, without borders, padding or spacing.
func (l *AutoTableLayout) ComputeIntrinsicLogicalWidths() (minWidth, maxWidth int) {
	l.FullRecalc()
	spanMaxWidth := l.calcEffectiveWidths()

	scaleColumns := shouldScaleColumns(l.table)
	var maxPercent, maxNonPercent float32
	remainingPercent := float32(100)
	for _, c := range l.columns {
		minWidth += c.EffectiveMinWidth
		maxWidth += c.EffectiveMaxWidth
		if !scaleColumns {
			continue
		}
		if c.EffectiveWidth.IsPercent() {
			percent := min(c.EffectiveWidth.Percent(), remainingPercent)
			w := float32(c.EffectiveMaxWidth) * 100 / max(percent, percentEpsilon)
			maxPercent = max(w, maxPercent)
			remainingPercent -= percent
		} else {
			maxNonPercent += float32(c.EffectiveMaxWidth)
		}
	}

	if scaleColumns {
		maxNonPercent = maxNonPercent * 100 / max(remainingPercent, percentEpsilon)
		maxWidth = max(maxWidth, int(min(maxNonPercent, tableMaxWidth)))
		maxWidth = max(maxWidth, int(min(maxPercent, tableMaxWidth)))
	}

	maxWidth = max(maxWidth, spanMaxWidth)
	return minWidth, maxWidth
}

// ApplyPreferredLogicalWidthQuirks makes a table with a positive fixed width
// prefer exactly that width, unless its content needs more.
func (l *AutoTableLayout) ApplyPreferredLogicalWidthQuirks(minWidth, maxWidth int) (int, int) {
	w := l.table.Width
	if w.IsFixed() && w.IsPositive() {
		minWidth = max(minWidth, w.Int())
		maxWidth = minWidth
	}
	return minWidth, maxWidth
}

// ComputePreferredLogicalWidths returns the border-box min and max widths
// of the table.
func (l *AutoTableLayout) ComputePreferredLogicalWidths() (minWidth, maxWidth int) {
	minWidth, maxWidth = l.ComputeIntrinsicLogicalWidths()
	extra := l.table.BordersPaddingAndSpacing()
	minWidth += extra
	maxWidth += extra
	return l.ApplyPreferredLogicalWidthQuirks(minWidth, maxWidth)
}

// Layout distributes tableWidth, the table's border-box width, over the
// columns and stores the column positions on the table.
func (l *AutoTableLayout) Layout(tableWidth int) {
	contentWidth := tableWidth - l.table.BordersPaddingAndSpacing()

	// Called without a fresh intrinsic width pass.
	if l.table.NumEffCols() != len(l.columns) {
		l.FullRecalc()
	}
	if l.effectiveWidthDirty {
		l.calcEffectiveWidths()
	}

	l.columns = Distribute(l.columns, contentWidth, l.hasPercent)

	positions := ColumnPositions(l.columns, l.table.HBorderSpacing())
	for i, pos := range positions {
		l.table.SetColumnPosition(i, pos)
	}
	l.logger.Debug("table columns distributed",
		zap.Int("table_width", tableWidth),
		zap.Int("content_width", contentWidth),
		zap.Ints("widths", l.columns.ComputedWidths()))
}

// shouldScaleColumns reports whether percent columns may inflate the
// table's max width. A table that is not fixed width and sits inside an
// auto or percent width cell of an auto width table, or of a spanning cell,
// does not bloat its max width this way.
func shouldScaleColumns(t *table.Table) bool {
	scale := true
	for t != nil {
		if (!t.Width.IsAuto() && !t.Width.IsPercent()) || t.OutOfFlow {
			break
		}
		cell := t.ContainingCell
		t = nil
		if cell == nil || (!cell.Width.IsAuto() && !cell.Width.IsPercent()) {
			break
		}
		if cell.ColSpan > 1 || cell.Table().Width.IsAuto() {
			scale = false
		} else {
			t = cell.Table()
		}
	}
	return scale
}
