package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errChecksFailed = errors.New("script checks failed")

type checkResult struct {
	skipped    bool
	assertions int
	err        error
}

func newCheckCmd(a *app) *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check <src>...",
		Short: "Run the assertions in each document's scripts against its layout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]checkResult, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobs, 1))
			for i, src := range args {
				i, src := i, src // per-iteration copies; go directive predates Go 1.22 loop semantics
				g.Go(func() error {
					tr, page, err := a.open(ctx, src)
					if err != nil {
						return err
					}
					if len(page.Doc.Scripts) == 0 {
						results[i].skipped = true
						return nil
					}
					results[i].assertions, results[i].err = tr.Check(page)
					return nil
				})
			}
			// Load failures abort the run; assertion failures are reported.
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for i, res := range results {
				src := args[i]
				switch {
				case res.skipped:
					fmt.Fprintf(out, "SKIP %s: no scripts\n", src)
				case res.err != nil:
					failed++
					a.logger.Warn("Check failed", zap.String("src", src), zap.Error(res.err))
					fmt.Fprintf(out, "FAIL %s\n%v\n", src, res.err)
				default:
					fmt.Fprintf(out, "PASS %s (%d assertions)\n", src, res.assertions)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d documents", errChecksFailed, failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "documents checked in parallel")
	return cmd
}
