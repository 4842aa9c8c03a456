package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"louis14tables/pkg/render"
	"louis14tables/pkg/visualtest"
)

type renderParams struct {
	output    string
	compare   string
	diff      string
	guides    bool
	tolerance int
}

func newRenderCmd(a *app) *cobra.Command {
	var p renderParams
	cmd := &cobra.Command{
		Use:   "render <src>",
		Short: "Paint the tables of a document to a PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd, args[0], p)
		},
	}
	cmd.Flags().StringVarP(&p.output, "output", "o", "", "output PNG path")
	cmd.Flags().StringVar(&p.compare, "compare", "", "reference PNG to compare the output against")
	cmd.Flags().StringVar(&p.diff, "diff", "", "where to write a diff image when the comparison fails")
	cmd.Flags().BoolVar(&p.guides, "guides", false, "draw column guides labelled with computed widths")
	cmd.Flags().IntVar(&p.tolerance, "tolerance", visualtest.DefaultOptions().Tolerance, "per-channel difference still counted as equal")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) render(cmd *cobra.Command, src string, p renderParams) error {
	_, page, err := a.open(cmd.Context(), src)
	if err != nil {
		return err
	}

	opts := []render.Option{render.WithFontPath(a.cfg.Text.FontPath)}
	if p.guides {
		opts = append(opts, render.WithColumnGuides())
	}
	_, height := page.Extent(a.cfg.Layout.Margin)
	r := render.NewRenderer(a.cfg.Layout.ViewportWidth, height, opts...)
	r.RenderTables(page.Tables)
	if err := r.SavePNG(p.output); err != nil {
		return fmt.Errorf("saving %s: %w", p.output, err)
	}
	a.logger.Info("Rendered tables",
		zap.String("src", src),
		zap.String("output", p.output),
		zap.Int("tables", len(page.Tables)))
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %s to %s\n", src, p.output)

	if p.compare == "" {
		return nil
	}
	res, err := visualtest.CompareFile(r.Image(), p.compare, visualtest.CompareOptions{
		Tolerance:     p.tolerance,
		DiffImagePath: p.diff,
	})
	if err != nil {
		return err
	}
	if !res.Match {
		return fmt.Errorf("%s differs from %s: %d of %d pixels", p.output, p.compare, res.DifferentPixels, res.TotalPixels)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "matches %s\n", p.compare)
	return nil
}
