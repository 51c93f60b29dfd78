package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/carstock/cmd/carstockctl/app/options"
	"github.com/autopeer-io/carstock/internal/inventory/form"
	"github.com/autopeer-io/carstock/internal/inventory/model"
	"github.com/autopeer-io/carstock/internal/inventory/view"
)

// addCarFlags registers one flag per car attribute. Only flags given on the
// command line end up in the form values.
func addCarFlags(cmd *cobra.Command) func() form.Values {
	usage := map[string]string{
		model.FieldBrand: "Brand, e.g. Toyota.",
		model.FieldModel: "Model, e.g. Corolla.",
		model.FieldColor: "Color.",
		model.FieldYear:  "Model year, a whole number.",
		model.FieldFuel:  "Fuel, e.g. Gasoline.",
		model.FieldPrice: "Price in euros.",
	}
	for _, f := range model.Fields {
		cmd.Flags().String(f, "", usage[f])
	}

	return func() form.Values {
		values := form.Values{}
		for _, f := range model.Fields {
			if cmd.Flags().Changed(f) {
				values[f], _ = cmd.Flags().GetString(f)
			}
		}
		return values
	}
}

func newAddCommand(opts *options.CtlOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a car",
		Example: "  carstockctl add --brand Kia --model Ceed --color Blue --year 2021 --fuel Diesel --price 21000",
		Args:    cobra.NoArgs,
	}
	values := addCarFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := newSession(opts)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := s.view.OpenAdd(ctx); err != nil {
			return err
		}
		if err := s.view.SubmitAdd(ctx, values()); err != nil {
			return s.check(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Car created")
		return nil
	}
	return cmd
}

func newEditCommand(opts *options.CtlOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit LINK",
		Short:   "Change attributes of a car, the others keep their values",
		Example: "  carstockctl edit https://carstockrest.herokuapp.com/cars/2 --price 24500",
		Args:    cobra.ExactArgs(1),
	}
	values := addCarFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		s, err := newSession(opts)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		link, err := s.link(args[0])
		if err != nil {
			return err
		}
		if err := s.load(ctx); err != nil {
			return err
		}
		if err := s.view.OpenEdit(ctx, link); err != nil {
			return err
		}
		if err := s.view.SubmitEdit(ctx, values()); err != nil {
			return s.check(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Car updated")
		return nil
	}
	return cmd
}

func newDeleteCommand(opts *options.CtlOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete LINK",
		Short: "Delete a car after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			link, err := s.link(args[0])
			if err != nil {
				return err
			}
			if err := s.load(ctx); err != nil {
				return err
			}
			rec, ok := s.view.Record(link)
			if !ok {
				return fmt.Errorf("no car at %s", link)
			}

			if err := s.view.Remove(link); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !yes {
				fmt.Fprintf(out, "%s %s (%d, %s)\n", rec.Car.Brand, rec.Car.Model, rec.Car.Year, rec.Car.Color)
				if !confirm(cmd.InOrStdin(), out, s.view.Snapshot().Modal.Message) {
					s.view.Cancel()
					fmt.Fprintln(out, "Cancelled")
					return nil
				}
			}

			if err := s.view.Confirm(ctx); err != nil {
				return s.check(err)
			}
			if n := s.view.Snapshot().Notice; n != nil {
				fmt.Fprintln(out, n.Message)
			} else {
				fmt.Fprintln(out, view.DeletedNotice)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking.")
	return cmd
}

// confirm asks question and reads a yes or no answer. Anything but yes declines.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
