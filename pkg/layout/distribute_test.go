package layout

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"louis14tables/pkg/length"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		name       string
		cols       Columns
		width      int
		hasPercent bool
		expected   []int
	}{
		{
			name:     "fixed auto percent with room",
			cols:     Columns{col(length.FixedPx(100), 10, 100), col(auto(), 10, 50), col(length.Pct(50), 10, 50)},
			width:    400,
			expected: []int{100, 100, 200},
		},
		{
			name:     "fixed auto percent with little room",
			cols:     Columns{col(length.FixedPx(100), 10, 100), col(auto(), 10, 50), col(length.Pct(50), 10, 50)},
			width:    250,
			expected: []int{100, 25, 125},
		},
		{
			name:     "auto columns give back first",
			cols:     Columns{col(length.FixedPx(100), 0, 100), col(auto(), 0, 900), col(auto(), 100, 100)},
			width:    250,
			expected: []int{100, 50, 100},
		},
		{
			name:     "fixed columns shrink when auto has no slack",
			cols:     Columns{col(length.FixedPx(100), 0, 100), col(auto(), 0, 900), col(auto(), 100, 100)},
			width:    120,
			expected: []int{20, 0, 100},
		},
		{
			name:     "percentages over 100 trimmed from the end",
			cols:     Columns{col(length.Pct(60), 0, 10), col(length.Pct(60), 0, 10)},
			width:    200,
			expected: []int{120, 80},
		},
		{
			name:     "surplus spread over fixed columns by max width",
			cols:     Columns{col(length.FixedPx(10), 10, 10), col(length.FixedPx(10), 10, 10), col(length.FixedPx(10), 10, 10)},
			width:    40,
			expected: []int{13, 13, 14},
		},
		{
			name:       "rounding remainder goes to the first column",
			cols:       Columns{col(length.Pct(50), 0, 10), col(length.Pct(50), 0, 10)},
			width:      101,
			hasPercent: true,
			expected:   []int{51, 50},
		},
		{
			name:     "relative columns share the table width",
			cols:     Columns{col(length.Rel(1), 0, 10), col(length.Rel(3), 0, 10)},
			width:    400,
			expected: []int{100, 300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distribute(tt.cols, tt.width, tt.hasPercent).ComputedWidths()
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("computed widths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDistribute_EmptyAutoColumnsGetNothing(t *testing.T) {
	empty := col(auto(), 0, 0)
	empty.EmptyCellsOnly = true
	cols := Columns{col(auto(), 10, 50), empty}

	assert.Equal(t, []int{200, 0}, Distribute(cols, 200, false).ComputedWidths())
}

func TestDistribute_DoesNotModifyInput(t *testing.T) {
	cols := Columns{col(auto(), 10, 50), col(length.FixedPx(30), 30, 30)}
	before := slices.Clone(cols)

	Distribute(cols, 300, false)
	assert.Equal(t, before, cols)
}

// Any width at least the sum of the min widths is used exactly, no column
// drops below its min, and the result depends only on the input.
func TestDistribute_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 500; iter++ {
		n := 1 + rng.Intn(6)
		cols := make(Columns, n)
		sumMin := 0
		for i := range cols {
			minW := rng.Intn(80)
			maxW := minW + 1 + rng.Intn(200)
			var w length.Length
			switch rng.Intn(3) {
			case 0:
				w = auto()
			case 1:
				w = length.FixedPx(1 + rng.Intn(150))
			default:
				// Keep the percentages from adding up past 100.
				w = length.Pct(float64(1 + rng.Intn(100/n)))
			}
			cols[i] = col(w, minW, maxW)
			sumMin += minW
		}
		width := sumMin + rng.Intn(400)

		got := Distribute(cols, width, rng.Intn(2) == 0)
		total := 0
		for i, c := range got {
			total += c.ComputedWidth
			assert.GreaterOrEqual(t, c.ComputedWidth, c.EffectiveMinWidth, "iteration %d column %d", iter, i)
		}
		assert.Equal(t, width, total, "iteration %d", iter)

		again := Distribute(cols, width, true)
		again2 := Distribute(cols, width, true)
		if diff := cmp.Diff(again.ComputedWidths(), again2.ComputedWidths()); diff != "" {
			t.Fatalf("iteration %d: distribution not repeatable (-first +second):\n%s", iter, diff)
		}
	}
}

func TestColumnPositions(t *testing.T) {
	cols := Columns{{ComputedWidth: 10}, {ComputedWidth: 20}}
	assert.Equal(t, []int{0, 12, 34}, ColumnPositions(cols, 2))
	assert.Equal(t, []int{0}, ColumnPositions(nil, 2))
}
