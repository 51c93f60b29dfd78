package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/autopeer-io/carstock/cmd/carstockctl/app/options"
	"github.com/autopeer-io/carstock/internal/inventory/grid"
)

func newListCommand(opts *options.CtlOptions) *cobra.Command {
	var (
		q    queryFlags
		page int
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cars as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts)
			if err != nil {
				return err
			}
			if err := s.load(cmd.Context()); err != nil {
				return err
			}

			query, err := q.query(s.view.Columns(), page)
			if err != nil {
				return err
			}
			if err := s.view.Query(query); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pv := s.view.Snapshot().Page
			if !all {
				printPage(out, pv, true)
				fmt.Fprintf(out, "\nPage %d of %d (%d of %d cars)\n", pv.Page, pv.Pages, pv.Filtered, pv.Total)
				return nil
			}

			for p := 1; p <= pv.Pages; p++ {
				query.Page = p
				if err := s.view.Query(query); err != nil {
					return err
				}
				printPage(out, s.view.Snapshot().Page, p == 1)
			}
			fmt.Fprintf(out, "\n%d of %d cars\n", pv.Filtered, pv.Total)
			return nil
		},
	}

	q.addFlags(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "Page to show.")
	cmd.Flags().BoolVar(&all, "all", false, "Show every page.")
	return cmd
}

// printPage writes the data columns of pv and the self link of each row.
func printPage(out io.Writer, pv grid.PageView, header bool) {
	table := uitable.New()
	table.MaxColWidth = 48
	table.Separator = "  "

	if header {
		row := []any{}
		for _, c := range pv.Columns {
			if c.Kind != grid.KindAction {
				row = append(row, strings.ToUpper(c.Header))
			}
		}
		table.AddRow(append(row, "LINK")...)
	}

	for _, r := range pv.Rows {
		row := []any{}
		for i, c := range pv.Columns {
			if c.Kind != grid.KindAction {
				row = append(row, r.Cells[i].Text)
			}
		}
		table.AddRow(append(row, r.Link)...)
	}

	fmt.Fprintln(out, table)
}
