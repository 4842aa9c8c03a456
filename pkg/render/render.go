package render

import (
	"image"
	"strconv"

	"github.com/fogleman/gg"

	"louis14tables/pkg/css"
	"louis14tables/pkg/layout"
	"louis14tables/pkg/text"
)

// Renderer paints laid out tables onto an RGBA canvas.
type Renderer struct {
	context      *gg.Context
	fontPath     string
	columnGuides bool
}

type Option func(*Renderer)

// WithFontPath sets the TrueType font used for cell text.
func WithFontPath(path string) Option {
	return func(r *Renderer) { r.fontPath = path }
}

// WithColumnGuides draws a thin line at every column position.
func WithColumnGuides() Option {
	return func(r *Renderer) { r.columnGuides = true }
}

func NewRenderer(width, height int, opts ...Option) *Renderer {
	return newRenderer(gg.NewContext(width, height), opts)
}

// NewRendererForImage paints directly into target.
func NewRendererForImage(target *image.RGBA, opts ...Option) *Renderer {
	return newRenderer(gg.NewContextForRGBA(target), opts)
}

func newRenderer(dc *gg.Context, opts []Option) *Renderer {
	r := &Renderer{context: dc}
	for _, opt := range opts {
		opt(r)
	}
	if r.fontPath == "" {
		r.fontPath = text.DefaultFontPath()
	}
	return r
}

// RenderTables clears the canvas to white and paints every table.
func (r *Renderer) RenderTables(results []*layout.TableResult) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	for _, res := range results {
		r.drawTable(res)
	}
}

func (r *Renderer) drawTable(res *layout.TableResult) {
	x, y := float64(res.X), float64(res.Y)
	w, h := float64(res.Width), float64(res.Height)
	style := res.Table.Style

	r.fillBackground(style, x, y, w, h)
	r.drawBorder(style, style.GetBorderWidth(), x, y, w, h)

	for _, box := range res.Cells {
		r.drawCell(box)
	}
	if r.columnGuides {
		r.drawColumnGuides(res)
	}
	for _, nested := range res.Nested {
		r.drawTable(nested)
	}
}

func (r *Renderer) drawCell(box layout.CellBox) {
	x, y := float64(box.X), float64(box.Y)
	w, h := float64(box.Width), float64(box.Height)
	style := box.Cell.Style
	border := style.GetBorderWidth()
	padding := style.GetPadding()

	r.fillBackground(style, x, y, w, h)
	r.drawBorder(style, border, x, y, w, h)

	contentX := x + border.Left + padding.Left
	contentY := y + border.Top + padding.Top
	for _, img := range box.Cell.Images {
		r.drawImagePlaceholder(contentX, contentY, float64(img.Width), float64(img.Height))
	}
	r.drawLines(style, box.Lines, box.Cell.FontSize, contentX, contentY)
}

func (r *Renderer) fillBackground(style *css.Style, x, y, w, h float64) {
	color, ok := style.GetBackgroundColor()
	if !ok || w <= 0 || h <= 0 {
		return
	}
	r.setColor(color)
	r.context.DrawRectangle(x, y, w, h)
	r.context.Fill()
}

// drawBorder paints each side of a border box as a trapezoid, so corners
// are mitered where sides of different widths meet.
func (r *Renderer) drawBorder(style *css.Style, border css.BoxEdge, x, y, w, h float64) {
	if border.IsZero() {
		return
	}
	r.setColor(borderColor(style))

	outerLeft, outerTop := x, y
	outerRight, outerBottom := x+w, y+h
	innerLeft, innerTop := x+border.Left, y+border.Top
	innerRight, innerBottom := outerRight-border.Right, outerBottom-border.Bottom

	sides := []struct {
		width  float64
		points [4][2]float64
	}{
		{border.Top, [4][2]float64{{outerLeft, outerTop}, {outerRight, outerTop}, {innerRight, innerTop}, {innerLeft, innerTop}}},
		{border.Right, [4][2]float64{{outerRight, outerTop}, {outerRight, outerBottom}, {innerRight, innerBottom}, {innerRight, innerTop}}},
		{border.Bottom, [4][2]float64{{outerLeft, outerBottom}, {outerRight, outerBottom}, {innerRight, innerBottom}, {innerLeft, innerBottom}}},
		{border.Left, [4][2]float64{{outerLeft, outerTop}, {outerLeft, outerBottom}, {innerLeft, innerBottom}, {innerLeft, innerTop}}},
	}
	for _, side := range sides {
		if side.width <= 0 {
			continue
		}
		r.context.MoveTo(side.points[0][0], side.points[0][1])
		for _, p := range side.points[1:] {
			r.context.LineTo(p[0], p[1])
		}
		r.context.ClosePath()
		r.context.Fill()
	}
}

// borderColor falls back from border-color to color to black, as
// currentColor does.
func borderColor(style *css.Style) css.Color {
	for _, prop := range []string{"border-color", "color"} {
		if v, ok := style.Get(prop); ok {
			if c, ok := css.ParseColor(v); ok {
				return c
			}
		}
	}
	return css.Color{}
}

// drawImagePlaceholder outlines where an image goes. Images are never
// fetched; only their declared size matters to layout.
func (r *Renderer) drawImagePlaceholder(x, y, w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	r.context.SetRGB(0.6, 0.6, 0.6)
	r.context.SetLineWidth(1)
	r.context.DrawRectangle(x+0.5, y+0.5, w-1, h-1)
	r.context.Stroke()
}

func (r *Renderer) drawLines(style *css.Style, lines []string, fontSize, x, y float64) {
	if len(lines) == 0 {
		return
	}
	if err := r.context.LoadFontFace(r.fontPath, fontSize); err != nil {
		// No font, no text; boxes are still painted.
		return
	}
	color := css.Color{}
	if v, ok := style.Get("color"); ok {
		if c, ok := css.ParseColor(v); ok {
			color = c
		}
	}
	r.setColor(color)
	lineHeight := fontSize * 1.2
	for i, line := range lines {
		// Baseline sits one font size below the top of the line box.
		r.context.DrawString(line, x, y+float64(i)*lineHeight+fontSize)
	}
}

func (r *Renderer) drawColumnGuides(res *layout.TableResult) {
	r.context.SetRGBA(0, 0, 1, 0.5)
	r.context.SetLineWidth(1)
	style := res.Table.Style
	left := float64(res.X) + style.GetBorderWidth().Left
	if style.GetBorderCollapse() != css.BorderCollapseCollapse {
		left += style.GetPadding().Left
	}
	for _, pos := range res.Positions {
		x := left + float64(pos) + 0.5
		r.context.DrawLine(x, float64(res.Y), x, float64(res.Y+res.Height))
		r.context.Stroke()
	}

	// Label each column with its computed width along the top edge.
	if err := r.context.LoadFontFace(r.fontPath, guideFontSize); err != nil {
		return
	}
	widths := res.ColumnWidths()
	for i, w := range widths {
		if i+1 >= len(res.Positions) {
			break
		}
		mid := left + float64(res.Positions[i]+res.Positions[i+1])/2
		r.context.DrawStringAnchored(strconv.Itoa(w), mid, float64(res.Y)+guideFontSize, 0.5, 0)
	}
}

const guideFontSize = 9

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGB(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0)
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// Image returns the canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}
