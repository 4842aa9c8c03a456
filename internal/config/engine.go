package config

import (
	"go.uber.org/zap"

	"louis14tables/pkg/images"
	"louis14tables/pkg/layout"
	"louis14tables/pkg/text"
)

// EngineOptions translates the layout and text settings into layout engine
// options. Image sizes are read relative to baseDir.
func (c *Config) EngineOptions(logger *zap.Logger, baseDir string) ([]layout.Option, error) {
	quirks, err := layout.ParseQuirksMode(c.Layout.Quirks)
	if err != nil {
		return nil, err
	}
	opts := []layout.Option{
		layout.WithLogger(logger),
		layout.WithQuirksMode(quirks),
		layout.WithDefaultSpacing(c.Layout.DefaultSpacing),
		layout.WithMargin(c.Layout.Margin),
		layout.WithDefaultFontSize(c.Text.FontSize),
		layout.WithImageSizes(images.NewSizeCache(baseDir).Lookup),
	}
	if c.Text.FixedAdvance > 0 {
		opts = append(opts, layout.WithMeasurer(text.FixedAdvance{Advance: c.Text.FixedAdvance}))
	} else {
		opts = append(opts, layout.WithMeasurer(text.NewFontMeasurer(c.Text.FontPath)))
	}
	return opts, nil
}
