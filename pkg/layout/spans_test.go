package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"louis14tables/pkg/length"
	"louis14tables/pkg/table"
)

func reconcile(tbl *table.Table) (Columns, int) {
	res := Recalc(tbl)
	return ReconcileSpans(tbl, res.Columns, res.Spans)
}

func TestReconcileSpans_PercentSplitOverAutoColumns(t *testing.T) {
	tbl := newGrid(
		[]*table.Cell{cell(10, 50, auto()), cell(10, 50, auto())},
		[]*table.Cell{spanCell(2, 20, 100, length.Pct(60))},
	)
	cols, implied := reconcile(tbl)

	assert.Equal(t, []length.Length{length.Pct(30), length.Pct(30)}, effectiveWidths(cols))
	// Declared widths are untouched.
	assert.True(t, cols[0].Width.IsAuto())
	assert.Equal(t, 100*100/60, implied)
}

func TestReconcileSpans_PercentAlreadyCovered(t *testing.T) {
	tbl := newGrid(
		[]*table.Cell{cell(10, 40, length.Pct(30)), cell(10, 40, length.Pct(10))},
		[]*table.Cell{spanCell(2, 0, 0, length.Pct(50))},
	)
	cols, implied := reconcile(tbl)

	// Every covered column is a percent column: the span's 50% is dropped.
	assert.Equal(t, []length.Length{length.Pct(30), length.Pct(10)}, effectiveWidths(cols))
	assert.Zero(t, implied)
}

func TestReconcileSpans_MissingPercentGoesToNonPercentColumns(t *testing.T) {
	tbl := newGrid(
		[]*table.Cell{cell(10, 40, length.Pct(30)), cell(10, 40, length.Pct(10)), cell(10, 40, auto())},
		[]*table.Cell{spanCell(3, 30, 60, length.Pct(50))},
	)
	cols, implied := reconcile(tbl)

	assert.Equal(t, []length.Length{length.Pct(30), length.Pct(10), length.Pct(10)}, effectiveWidths(cols))
	assert.Equal(t, 120*100/50, implied)
}

func TestReconcileSpans_PercentMetByColumnsBecomesAuto(t *testing.T) {
	tbl := newGrid(
		[]*table.Cell{cell(10, 40, length.Pct(50)), cell(10, 40, auto())},
		[]*table.Cell{spanCell(2, 0, 200, length.Pct(50))},
	)
	cols, implied := reconcile(tbl)

	assert.Equal(t, []length.Length{length.Pct(50), auto()}, effectiveWidths(cols))
	assert.Zero(t, implied)
	// The span now behaves as an auto cell and its max width is spread.
	assert.Equal(t, []int{100, 100}, effectiveMaxes(cols))
}

func TestReconcileSpans_GrowsMinProportionally(t *testing.T) {
	tbl := newGrid(
		[]*table.Cell{cell(10, 20, auto()), cell(10, 20, auto())},
		[]*table.Cell{spanCell(2, 100, 100, auto())},
	)
	cols, _ := reconcile(tbl)

	if diff := cmp.Diff([]int{50, 50}, effectiveMins(cols)); diff != "" {
		t.Errorf("effective min widths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{50, 50}, effectiveMaxes(cols)); diff != "" {
		t.Errorf("effective max widths mismatch (-want +got):\n%s", diff)
	}
	// The unreconciled values stay as they were.
	assert.Equal(t, 10, cols[0].MinWidth)
}

func TestReconcileSpans_FixedColumnsServedFirst(t *testing.T) {
	tbl := newGrid(
		[]*table.Cell{cell(5, 30, length.FixedPx(30)), cell(5, 50, auto())},
		[]*table.Cell{spanCell(2, 100, 100, auto())},
	)
	cols, _ := reconcile(tbl)
	assert.Equal(t, []int{30, 70}, effectiveMins(cols))
}

func TestReconcileSpans_AllFixedSplitByDeclaredWidth(t *testing.T) {
	tbl := newGrid(
		[]*table.Cell{cell(5, 20, length.FixedPx(20)), cell(5, 60, length.FixedPx(60))},
		[]*table.Cell{spanCell(2, 100, 100, auto())},
	)
	cols, _ := reconcile(tbl)
	assert.Equal(t, []int{25, 75}, effectiveMins(cols))
}

func TestReconcileSpans_SpacingBelongsToSpan(t *testing.T) {
	tbl := newGrid(
		[]*table.Cell{cell(10, 20, auto()), cell(10, 20, auto())},
		[]*table.Cell{spanCell(2, 30, 50, auto())},
	)
	tbl.HSpacing = 10
	cols, _ := reconcile(tbl)

	// 30px of content minus the 10px gap between the columns fits.
	assert.Equal(t, []int{10, 10}, effectiveMins(cols))
	// 50px minus the gap is 40px, already covered.
	assert.Equal(t, []int{20, 20}, effectiveMaxes(cols))
}

func TestReconcileSpans_EmptyColumnsUnderSpanCountAsContent(t *testing.T) {
	span := emptyCell()
	span.ColSpan = 2
	tbl := newGrid(
		[]*table.Cell{span},
		[]*table.Cell{emptyCell(), emptyCell()},
	)
	res := Recalc(tbl)
	assert.True(t, res.Columns[0].EmptyCellsOnly)
	assert.True(t, res.Columns[1].EmptyCellsOnly)

	cols, _ := ReconcileSpans(tbl, res.Columns, res.Spans)
	assert.False(t, cols[0].EmptyCellsOnly)
	assert.False(t, cols[1].EmptyCellsOnly)

	// The input records are not modified.
	assert.True(t, res.Columns[1].EmptyCellsOnly)
}

func TestReconcileSpans_NarrowSpansFirst(t *testing.T) {
	// The two-column span fixes its percentages before the three-column
	// span sees them.
	tbl := newGrid(
		[]*table.Cell{cell(0, 10, auto()), cell(0, 10, auto()), cell(0, 20, auto())},
		[]*table.Cell{spanCell(3, 0, 40, length.Pct(80))},
		[]*table.Cell{spanCell(2, 0, 20, length.Pct(40))},
	)
	cols, _ := reconcile(tbl)

	assert.Equal(t, []length.Length{length.Pct(20), length.Pct(20), length.Pct(40)}, effectiveWidths(cols))
}
