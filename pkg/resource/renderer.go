package resource

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"louis14tables/pkg/html"
	"louis14tables/pkg/js"
	"louis14tables/pkg/layout"
	"louis14tables/pkg/render"
)

// Renderer renders HTML content onto an image.
type Renderer interface {
	Render(htmlContent string, target *image.RGBA) error
}

// Page is a parsed document with its tables laid out.
type Page struct {
	Doc    *html.Document
	Tables []*layout.TableResult
}

// Extent returns the smallest canvas that holds every table plus margin.
func (p *Page) Extent(margin int) (width, height int) {
	for _, t := range p.Tables {
		width = max(width, t.X+t.Width+margin)
		height = max(height, t.Y+t.Height+margin)
	}
	return max(width, 1), max(height, 1)
}

// TableRenderer parses HTML, lays out its tables and paints them.
type TableRenderer struct {
	engine     *layout.Engine
	logger     *zap.Logger
	renderOpts []render.Option
	scripts    bool
}

type RendererOption func(*TableRenderer)

// WithRenderOptions passes options through to the painter.
func WithRenderOptions(opts ...render.Option) RendererOption {
	return func(r *TableRenderer) { r.renderOpts = append(r.renderOpts, opts...) }
}

// WithScripts runs the document's scripts after painting. Failures are
// logged, not returned.
func WithScripts() RendererOption {
	return func(r *TableRenderer) { r.scripts = true }
}

func NewTableRenderer(engine *layout.Engine, logger *zap.Logger, opts ...RendererOption) *TableRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &TableRenderer{engine: engine, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Layout parses htmlContent and lays out its tables in a viewport of the
// given width.
func (r *TableRenderer) Layout(htmlContent string, viewportWidth int) (*Page, error) {
	doc, err := html.Parse(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	tables, err := r.engine.LayoutDocument(doc, viewportWidth)
	if err != nil {
		return nil, err
	}
	return &Page{Doc: doc, Tables: tables}, nil
}

// Check runs the page's scripts against its layout.
func (r *TableRenderer) Check(page *Page) (assertions int, err error) {
	engine := js.New(r.logger)
	err = engine.Execute(page.Doc, page.Tables)
	return engine.Assertions(), err
}

// Render lays out htmlContent at the target's width and paints it.
func (r *TableRenderer) Render(htmlContent string, target *image.RGBA) error {
	page, err := r.Layout(htmlContent, target.Bounds().Dx())
	if err != nil {
		return err
	}
	render.NewRendererForImage(target, r.renderOpts...).RenderTables(page.Tables)

	if r.scripts && len(page.Doc.Scripts) > 0 {
		if _, err := r.Check(page); err != nil {
			r.logger.Warn("script checks failed", zap.Error(err))
		}
	}
	return nil
}
