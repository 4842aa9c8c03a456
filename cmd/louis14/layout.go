package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"louis14tables/pkg/layout"
)

func newLayoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "layout <src>",
		Short: "Print the column widths of every table in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, page, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(page.Tables) == 0 {
				fmt.Fprintln(out, "no tables")
				return nil
			}
			for i, res := range page.Tables {
				printTable(out, strconv.Itoa(i+1), res)
			}
			return nil
		},
	}
}

// printTable writes the summary and column table of res, then of its
// nested tables, labelled 1, 1.1, 1.2 and so on.
func printTable(w io.Writer, label string, res *layout.TableResult) {
	fmt.Fprintf(w, "table %s: width %d (min %d, max %d) at %d,%d\n",
		label, res.Width, res.MinWidth, res.MaxWidth, res.X, res.Y)

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Col", "Declared", "Min", "Max", "Width", "Position"})
	tw.SetAlignment(tablewriter.ALIGN_RIGHT)
	tw.SetAutoWrapText(false)
	for i, col := range res.Columns {
		tw.Append([]string{
			strconv.Itoa(i),
			col.EffectiveWidth.String(),
			strconv.Itoa(col.EffectiveMinWidth),
			strconv.Itoa(col.EffectiveMaxWidth),
			strconv.Itoa(col.ComputedWidth),
			strconv.Itoa(res.Positions[i]),
		})
	}
	tw.Render()

	for i, nested := range res.Nested {
		printTable(w, label+"."+strconv.Itoa(i+1), nested)
	}
}
