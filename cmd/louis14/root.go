package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"louis14tables/internal/config"
	"louis14tables/internal/observability"
	"louis14tables/pkg/layout"
	"louis14tables/pkg/resource"
)

// app carries what every subcommand needs once the root command has loaded
// the configuration.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "louis14tables",
		Short:         "Lay out HTML tables with the automatic table layout algorithm",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			observability.InitializeLogger(cfg.Logger)
			a.logger = observability.GetLogger()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./louis14tables.yaml)")
	flags.Int("viewport", 800, "viewport width in pixels")
	flags.String("quirks", "auto", "quirks mode: auto, on or off")
	flags.Float64("fixed-advance", 0, "measure text with a fixed advance per character, in ems")
	flags.String("font", "", "TrueType font used for measuring and painting text")
	flags.String("log-level", "info", "log level")
	for key, flag := range map[string]string{
		"layout.viewport_width": "viewport",
		"layout.quirks":         "quirks",
		"text.fixed_advance":    "fixed-advance",
		"text.font_path":        "font",
		"logger.level":          "log-level",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newLayoutCmd(a), newRenderCmd(a), newCheckCmd(a), newConfigCmd(a))
	return root
}

// open loads src and lays out its tables at the configured viewport width.
func (a *app) open(ctx context.Context, src string, opts ...resource.RendererOption) (*resource.TableRenderer, *resource.Page, error) {
	content, err := resource.Load(ctx, resource.NewFetcher(src), src)
	if err != nil {
		return nil, nil, err
	}

	baseDir := ""
	if !resource.IsNetworkURL(src) {
		baseDir = filepath.Dir(src)
	}
	engineOpts, err := a.cfg.EngineOptions(a.logger, baseDir)
	if err != nil {
		return nil, nil, err
	}
	tr := resource.NewTableRenderer(layout.NewEngine(engineOpts...), a.logger, opts...)
	page, err := tr.Layout(content, a.cfg.Layout.ViewportWidth)
	if err != nil {
		return nil, nil, err
	}
	return tr, page, nil
}
