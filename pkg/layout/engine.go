package layout

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"louis14tables/pkg/css"
	"louis14tables/pkg/html"
	"louis14tables/pkg/table"
	"louis14tables/pkg/text"
)

// QuirksMode selects whether quirks-mode width rules apply.
type QuirksMode int

const (
	QuirksAuto QuirksMode = iota // follow the document's doctype
	QuirksOn
	QuirksOff
)

func (m QuirksMode) String() string {
	switch m {
	case QuirksOn:
		return "on"
	case QuirksOff:
		return "off"
	default:
		return "auto"
	}
}

// ParseQuirksMode parses "auto", "on" or "off".
func ParseQuirksMode(s string) (QuirksMode, error) {
	switch s {
	case "", "auto":
		return QuirksAuto, nil
	case "on":
		return QuirksOn, nil
	case "off":
		return QuirksOff, nil
	}
	return QuirksAuto, fmt.Errorf("unknown quirks mode %q", s)
}

// Engine lays out tables: it measures cell content, runs the automatic
// column width algorithm and then sizes rows and positions cells.
type Engine struct {
	measurer       text.Measurer
	logger         *zap.Logger
	quirks         QuirksMode
	defaultSpacing int
	margin         int
	imageSize      func(src string) (width, height int, ok bool)
	fontSize       float64
}

type Option func(*Engine)

func WithMeasurer(m text.Measurer) Option {
	return func(e *Engine) { e.measurer = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithQuirksMode(m QuirksMode) Option {
	return func(e *Engine) { e.quirks = m }
}

// WithDefaultSpacing sets the border-spacing of tables that declare none.
func WithDefaultSpacing(px int) Option {
	return func(e *Engine) { e.defaultSpacing = px }
}

// WithMargin sets the page margin around laid out documents.
func WithMargin(px int) Option {
	return func(e *Engine) { e.margin = px }
}

// WithImageSizes sets the lookup for the intrinsic size of images that
// declare no width or height.
func WithImageSizes(lookup func(src string) (width, height int, ok bool)) Option {
	return func(e *Engine) { e.imageSize = lookup }
}

// WithDefaultFontSize sets the font size of cells that declare none.
func WithDefaultFontSize(px float64) Option {
	return func(e *Engine) { e.fontSize = px }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:         zap.NewNop(),
		defaultSpacing: css.DefaultBorderSpacing,
		margin:         8,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.measurer == nil {
		e.measurer = text.NewFontMeasurer("")
	}
	return e
}

// CellBox is the border box of a cell after layout. Lines holds the cell's
// text broken at its content width.
type CellBox struct {
	Cell   *table.Cell
	X, Y   int
	Width  int
	Height int
	Lines  []string
}

// TableResult is a laid out table.
type TableResult struct {
	Table      *table.Table
	X, Y       int
	Width      int
	Height     int
	MinWidth   int // preferred widths, border box
	MaxWidth   int
	Columns    Columns
	Positions  []int
	RowHeights []int // every row of every section, in visual order
	Cells      []CellBox
	Nested     []*TableResult
}

// ColumnWidths returns the computed width of every effective column.
func (r *TableResult) ColumnWidths() []int {
	return r.Columns.ComputedWidths()
}

func (r *TableResult) translate(dx, dy int) {
	r.X += dx
	r.Y += dy
	for i := range r.Cells {
		r.Cells[i].X += dx
		r.Cells[i].Y += dy
	}
	for _, n := range r.Nested {
		n.translate(dx, dy)
	}
}

// LayoutDocument lays out every outermost table of doc, stacked vertically
// inside a viewport of the given width.
func (e *Engine) LayoutDocument(doc *html.Document, viewportWidth int) ([]*TableResult, error) {
	opts := table.BuildOptions{
		Quirks:          e.quirksFor(doc),
		DefaultSpacing:  e.defaultSpacing,
		ImageSize:       e.imageSize,
		DefaultFontSize: e.fontSize,
	}
	container := max(0, viewportWidth-2*e.margin)

	var results []*TableResult
	y := e.margin
	for _, node := range doc.Root.FindOutermost("table") {
		t, err := table.Build(node, opts)
		if err != nil {
			return nil, fmt.Errorf("layout document: %w", err)
		}
		res := e.LayoutTable(t, container)
		res.translate(e.margin, y)
		y += res.Height
		results = append(results, res)
	}
	e.logger.Debug("document laid out",
		zap.Int("tables", len(results)),
		zap.Bool("quirks", opts.Quirks),
		zap.Int("viewport_width", viewportWidth))
	return results, nil
}

func (e *Engine) quirksFor(doc *html.Document) bool {
	switch e.quirks {
	case QuirksOn:
		return true
	case QuirksOff:
		return false
	default:
		return doc.Quirks
	}
}

// LayoutTable lays out t at the origin for a containing block of
// containerWidth pixels.
func (e *Engine) LayoutTable(t *table.Table, containerWidth int) *TableResult {
	e.computeCellPreferredWidths(t)

	atl := NewAutoTableLayout(t, e.logger)
	minWidth, maxWidth := atl.ComputePreferredLogicalWidths()
	width := resolveTableWidth(t, containerWidth, minWidth, maxWidth)
	atl.Layout(width)

	res := &TableResult{
		Table:     t,
		Width:     width,
		MinWidth:  minWidth,
		MaxWidth:  maxWidth,
		Columns:   atl.Columns(),
		Positions: t.ColumnPositions(),
	}
	e.layoutRows(res)

	e.logger.Debug("table laid out",
		zap.Int("container_width", containerWidth),
		zap.Int("min_width", minWidth),
		zap.Int("max_width", maxWidth),
		zap.Int("width", width),
		zap.Int("height", res.Height))
	return res
}

// resolveTableWidth picks the border-box width of a table. A declared width
// is resolved against the container; an auto table takes its max width if it
// fits. No table is narrower than its min width.
func resolveTableWidth(t *table.Table, containerWidth, minWidth, maxWidth int) int {
	var w int
	if t.Width.IsFixed() || t.Width.IsPercent() {
		w = t.Width.ValueFor(containerWidth)
	} else {
		w = min(containerWidth, maxWidth)
	}
	return max(w, minWidth)
}

// computeCellPreferredWidths measures every cell's min-content and
// max-content border box width.
func (e *Engine) computeCellPreferredWidths(t *table.Table) {
	for _, c := range t.Cells() {
		minW, maxW := text.MinMaxWidths(e.measurer, c.Text, c.FontSize)
		contentMin := int(math.Ceil(minW))
		contentMax := int(math.Ceil(maxW))

		for _, img := range c.Images {
			contentMin = max(contentMin, img.Width)
			contentMax += img.Width
		}
		for _, nested := range c.Tables {
			e.computeCellPreferredWidths(nested)
			nmin, nmax := NewAutoTableLayout(nested, e.logger).ComputePreferredLogicalWidths()
			contentMin = max(contentMin, nmin)
			contentMax = max(contentMax, nmax)
		}

		w := t.StyleOrColWidth(c)
		if c.Node != nil && hasAttr(c.Node, "nowrap") {
			if w.IsFixed() {
				// Browsers make a nowrap cell's fixed width its min width.
				contentMin = max(contentMin, w.Int())
			} else {
				contentMin = max(contentMin, contentMax)
			}
		}
		contentMax = max(contentMax, contentMin)
		if w.IsFixed() && w.IsPositive() {
			declared := w.Int()
			if c.BorderBox {
				declared = max(0, declared-c.BorderPadding)
			}
			contentMax = max(contentMin, declared)
		}

		c.MinPreferred = contentMin + c.BorderPadding
		c.MaxPreferred = contentMax + c.BorderPadding
	}
}

// layoutRows sizes rows from the content of their cells at the final
// column widths and places every cell. Head sections come first and foot
// sections last.
func (e *Engine) layoutRows(res *TableResult) {
	t := res.Table
	left := int(t.Style.GetBorderWidth().Left)
	top := int(t.Style.GetBorderWidth().Top)
	bottom := int(t.Style.GetBorderWidth().Bottom)
	if t.Style.GetBorderCollapse() != css.BorderCollapseCollapse {
		padding := t.Style.GetPadding()
		left += int(padding.Left)
		top += int(padding.Top)
		bottom += int(padding.Bottom)
	}

	y := top
	for _, section := range orderedSections(t) {
		rows := section.NumRows()
		if rows == 0 {
			continue
		}
		heights := make([]int, rows)
		boxes := make([]CellBox, 0, len(section.Cells()))
		for _, c := range section.Cells() {
			box := e.layoutCell(res, c, left)
			if c.RowSpan == 1 {
				heights[c.Row] = max(heights[c.Row], box.Height)
			}
			boxes = append(boxes, box)
		}

		// A row-spanning cell that is taller than its rows stretches the
		// last of them.
		for _, box := range boxes {
			c := box.Cell
			if c.RowSpan == 1 {
				continue
			}
			last := min(c.Row+c.RowSpan, rows) - 1
			spanned := (last - c.Row) * t.VSpacing
			for r := c.Row; r <= last; r++ {
				spanned += heights[r]
			}
			if box.Height > spanned {
				heights[last] += box.Height - spanned
			}
		}

		rowY := make([]int, rows)
		for r := range heights {
			y += t.VSpacing
			rowY[r] = y
			y += heights[r]
		}
		for _, box := range boxes {
			c := box.Cell
			last := min(c.Row+c.RowSpan, rows) - 1
			box.Y = rowY[c.Row]
			box.Height = rowY[last] + heights[last] - box.Y
			for _, n := range c.Tables {
				for _, nr := range res.Nested {
					if nr.Table == n {
						nr.translate(box.X, box.Y)
					}
				}
			}
			res.Cells = append(res.Cells, box)
		}
		res.RowHeights = append(res.RowHeights, heights...)
	}
	if len(res.RowHeights) > 0 {
		y += t.VSpacing
	}
	res.Height = y + bottom
}

// layoutCell sizes a cell horizontally from the column positions and
// measures its content height. Nested tables are laid out relative to the
// cell's border box.
func (e *Engine) layoutCell(res *TableResult, c *table.Cell, left int) CellBox {
	t := res.Table
	start := t.ColToEffCol(c.Col)
	end := min(t.ColToEffCol(c.Col+c.ColSpan), len(res.Positions)-1)
	x := left + res.Positions[start] + t.HSpacing
	width := res.Positions[end] - res.Positions[start] - t.HSpacing

	padding := c.Style.GetPadding()
	border := c.Style.GetBorderWidth()
	contentWidth := max(0, width-c.BorderPadding)

	lines := text.BreakTextIntoLines(e.measurer, c.Text, c.FontSize, float64(contentWidth))
	height := int(math.Ceil(float64(len(lines)) * e.measurer.LineHeight(c.FontSize)))
	for _, img := range c.Images {
		height = max(height, img.Height)
	}
	for _, n := range c.Tables {
		nr := e.LayoutTable(n, contentWidth)
		nr.translate(int(border.Left+padding.Left), int(border.Top+padding.Top)+height)
		height += nr.Height
		res.Nested = append(res.Nested, nr)
	}

	return CellBox{
		Cell:   c,
		X:      x,
		Width:  width,
		Height: height + c.VBorderPadding,
		Lines:  lines,
	}
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

func orderedSections(t *table.Table) []*table.Section {
	var head, body, foot []*table.Section
	for _, s := range t.Sections() {
		switch s.Kind {
		case table.SectionHead:
			head = append(head, s)
		case table.SectionFoot:
			foot = append(foot, s)
		default:
			body = append(body, s)
		}
	}
	out := append(head, body...)
	return append(out, foot...)
}
