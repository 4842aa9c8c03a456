package table

type SectionKind int

const (
	SectionBody SectionKind = iota
	SectionHead
	SectionFoot
)

func (k SectionKind) String() string {
	switch k {
	case SectionHead:
		return "thead"
	case SectionFoot:
		return "tfoot"
	default:
		return "tbody"
	}
}

// CellStruct is one slot of a section's grid. Cells lists every cell whose
// box covers the slot; InColSpan is set when the slot is not the first
// effective column of the cell occupying it.
type CellStruct struct {
	Cells     []*Cell
	InColSpan bool
}

// Primary returns the last cell placed into the slot, or nil.
func (cs CellStruct) Primary() *Cell {
	if len(cs.Cells) == 0 {
		return nil
	}
	return cs.Cells[len(cs.Cells)-1]
}

// Section is a row group (thead, tbody or tfoot). Its grid is indexed by
// row and effective column; rows may be shorter than NumEffCols.
type Section struct {
	Kind SectionKind

	table *Table
	grid  [][]CellStruct
	cells []*Cell
	cRow  int
	cCol  int
}

func (s *Section) NumRows() int { return len(s.grid) }

// CellAt returns the slot at (row, effCol); slots never written are empty.
func (s *Section) CellAt(row, effCol int) CellStruct {
	if row < 0 || row >= len(s.grid) || effCol < 0 || effCol >= len(s.grid[row]) {
		return CellStruct{}
	}
	return s.grid[row][effCol]
}

// Cells returns the section's cells in placement order.
func (s *Section) Cells() []*Cell { return s.cells }

// AddRow starts the next row; subsequent AddCell calls fill it.
func (s *Section) AddRow() {
	s.cRow++
	s.ensureRows(s.cRow + 1)
	s.cCol = 0
}

func (s *Section) ensureRows(n int) {
	for len(s.grid) < n {
		s.grid = append(s.grid, nil)
	}
}

func (s *Section) slot(row, effCol int) *CellStruct {
	for len(s.grid[row]) <= effCol {
		s.grid[row] = append(s.grid[row], CellStruct{})
	}
	return &s.grid[row][effCol]
}

// AddCell places c in the current row at the first free slot, creating or
// splitting effective columns so that c's span lands on column boundaries.
// Slots taken by rowspans from earlier rows are skipped.
func (s *Section) AddCell(c *Cell) {
	if s.cRow < 0 {
		s.AddRow()
	}
	t := s.table
	row := s.cRow

	for s.cCol < t.NumEffCols() {
		cs := s.CellAt(row, s.cCol)
		if len(cs.Cells) == 0 && !cs.InColSpan {
			break
		}
		s.cCol++
	}

	s.ensureRows(row + c.RowSpan)

	col := s.cCol
	remaining := c.ColSpan
	inColSpan := false
	for remaining > 0 {
		var span int
		if s.cCol >= t.NumEffCols() {
			t.appendColumn(remaining)
			span = remaining
		} else {
			if remaining < t.columns[s.cCol] {
				t.splitColumn(s.cCol, remaining)
			}
			span = t.columns[s.cCol]
		}
		for r := 0; r < c.RowSpan; r++ {
			cs := s.slot(row+r, s.cCol)
			cs.Cells = append(cs.Cells, c)
			if inColSpan {
				cs.InColSpan = true
			}
		}
		s.cCol++
		remaining -= span
		inColSpan = true
	}

	c.Row = row
	c.Col = t.EffColToCol(col)
	c.section = s
	c.table = t
	s.cells = append(s.cells, c)
}

// splitColumn duplicates slot pos into pos+1 in every row that reaches it.
// The copy is a continuation of whatever cell covered the original slot.
func (s *Section) splitColumn(pos int) {
	for r, row := range s.grid {
		if len(row) <= pos {
			continue
		}
		orig := row[pos]
		dup := CellStruct{
			Cells:     append([]*Cell(nil), orig.Cells...),
			InColSpan: len(orig.Cells) > 0,
		}
		row = append(row, CellStruct{})
		copy(row[pos+2:], row[pos+1:])
		row[pos+1] = dup
		s.grid[r] = row
	}
	if s.cCol > pos {
		s.cCol++
	}
}
