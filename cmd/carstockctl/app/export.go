package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autopeer-io/carstock/cmd/carstockctl/app/options"
	"github.com/autopeer-io/carstock/internal/inventory/storage"
	"github.com/autopeer-io/carstock/internal/pkg/metrics"
)

func newExportCommand(opts *options.CtlOptions) *cobra.Command {
	var (
		q      queryFlags
		out    string
		upload bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered and sorted cars as CSV",
		Long: `Export writes the six car attributes of every matching car, all pages,
as CSV with a header row. The field separator is --grid.csv-separator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if upload && !opts.S3Options.Enabled {
				return errors.New("--upload needs --s3.enabled")
			}

			s, err := newSession(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := s.load(ctx); err != nil {
				return err
			}

			query, err := q.query(s.view.Columns(), 1)
			if err != nil {
				return err
			}
			if err := s.view.Query(query); err != nil {
				return err
			}

			if upload {
				provider, err := storage.NewMinIOProvider(opts.S3Options)
				if err != nil {
					return err
				}
				if err := provider.CheckBucket(ctx); err != nil {
					return err
				}
				up, err := storage.NewExporter(provider, opts.S3Options.Prefix, opts.S3Options.LinkExpiry).Export(ctx, s.view.ExportCSV)
				if err != nil {
					return s.check(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%d bytes)\n%s\n", up.Key, up.Size, up.URL)
				return nil
			}

			var buf bytes.Buffer
			if err := s.view.ExportCSV(&buf); err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = buf.WriteTo(cmd.OutOrStdout())
				metrics.ExportsTotal.WithLabelValues("stdout").Inc()
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			metrics.ExportsTotal.WithLabelValues("file").Inc()
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
			return nil
		},
	}

	q.addFlags(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "-", "File to write, '-' for standard output.")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload to object storage and print a download link instead.")
	return cmd
}
