package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/carstock/cmd/carstockctl/app/options"
	"github.com/autopeer-io/carstock/internal/carstock"
	"github.com/autopeer-io/carstock/internal/inventory/client"
	"github.com/autopeer-io/carstock/internal/inventory/grid"
	"github.com/autopeer-io/carstock/internal/inventory/view"
	"github.com/autopeer-io/carstock/pkg/app"
)

const (
	commandName = "carstockctl"
	commandDesc = `carstockctl manages the cars of a dealership inventory from a terminal.

Every sub-command talks to the remote car resource directly: list and export
fetch the whole collection, add, edit and delete send one request and fetch
the collection again.`
)

func NewApp() *app.App {
	opts := options.NewCtlOptions()
	return app.NewApp(
		commandName,
		"Manage the car inventory from a terminal",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithCommands(
			newListCommand(opts),
			newAddCommand(opts),
			newEditCommand(opts),
			newDeleteCommand(opts),
			newExportCommand(opts),
		),
	)
}

// session is one command's connection to the inventory.
type session struct {
	client *client.Client
	view   *view.View
}

func newSession(opts *options.CtlOptions) (*session, error) {
	inv, err := carstock.NewInventoryClient(opts.APIOptions)
	if err != nil {
		return nil, err
	}
	v, err := carstock.NewView(inv, opts.GridOptions)
	if err != nil {
		return nil, err
	}
	return &session{client: inv, view: v}, nil
}

func (s *session) load(ctx context.Context) error {
	return s.check(s.view.Load(ctx))
}

// link accepts absolute or relative self links.
func (s *session) link(arg string) (string, error) {
	return s.client.Resolve(arg)
}

// check prefixes err with the alert text when the view raised an alert for it.
func (s *session) check(err error) error {
	if err == nil {
		return nil
	}
	if m := s.view.Snapshot().Modal; m.Kind == view.ModalAlert {
		return fmt.Errorf("%s: %w", m.Message, err)
	}
	return err
}

// queryFlags are the grid controls shared by list and export.
type queryFlags struct {
	sort    string
	filters []string
}

func (q *queryFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&q.sort, "sort", "brand", "Sort keys, comma separated, '-' for descending (e.g. 'brand,-price').")
	cmd.Flags().StringArrayVar(&q.filters, "filter", nil, "Column filter as column=expression (e.g. 'year=2015..2020', 'brand=toy'). Repeatable.")
}

func (q *queryFlags) query(columns []grid.Column, page int) (grid.Query, error) {
	filters, err := parseFilters(columns, q.filters)
	if err != nil {
		return grid.Query{}, err
	}
	return grid.Query{Sort: grid.ParseSort(q.sort), Filters: filters, Page: page}, nil
}

func parseFilters(columns []grid.Column, exprs []string) (map[string]grid.Filter, error) {
	kinds := make(map[string]grid.Kind, len(columns))
	for _, c := range columns {
		kinds[c.ID] = c.Kind
	}

	out := map[string]grid.Filter{}
	for _, e := range exprs {
		col, expr, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("--filter %q: expected column=expression", e)
		}
		col = strings.TrimSpace(col)
		kind, known := kinds[col]
		if !known {
			return nil, fmt.Errorf("--filter %q: unknown column %q", e, col)
		}
		f, ok, err := grid.ParseFilter(kind, expr)
		if err != nil {
			return nil, fmt.Errorf("--filter %q: %w", e, err)
		}
		if ok {
			out[col] = f
		}
	}
	return out, nil
}
