package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*GridOptions)(nil)

// GridOptions tunes how the inventory grid is presented.
type GridOptions struct {
	// PageSize is the number of rows per grid page.
	PageSize int `json:"page-size" mapstructure:"page-size"`

	// NoticeDuration is how long transient notices stay visible.
	NoticeDuration time.Duration `json:"notice-duration" mapstructure:"notice-duration"`

	// CSVSeparator is the field separator of exported files.
	CSVSeparator string `json:"csv-separator" mapstructure:"csv-separator"`
}

// NewGridOptions creates a GridOptions object with default parameters.
func NewGridOptions() *GridOptions {
	return &GridOptions{
		PageSize:       10,
		NoticeDuration: 2500 * time.Millisecond,
		CSVSeparator:   ";",
	}
}

// Validate checks page size, notice duration and separator.
func (o *GridOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.PageSize <= 0 {
		errors = append(errors, fmt.Errorf("--grid.page-size must be positive, got %d", o.PageSize))
	}
	if o.NoticeDuration <= 0 {
		errors = append(errors, fmt.Errorf("--grid.notice-duration must be positive"))
	}
	if r := []rune(o.CSVSeparator); len(r) != 1 || r[0] == '"' || r[0] == '\n' || r[0] == '\r' {
		errors = append(errors, fmt.Errorf("--grid.csv-separator must be a single character other than quote or newline"))
	}

	return errors
}

// Separator returns the CSV separator as a rune.
func (o *GridOptions) Separator() rune {
	r := []rune(o.CSVSeparator)
	if len(r) != 1 {
		return ';'
	}
	return r[0]
}

// AddFlags adds flags for GridOptions to the specified FlagSet.
func (o *GridOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.PageSize, "grid.page-size", o.PageSize, "Number of cars shown per grid page.")
	fs.DurationVar(&o.NoticeDuration, "grid.notice-duration", o.NoticeDuration, "How long transient notices such as 'Car deleted' stay visible.")
	fs.StringVar(&o.CSVSeparator, "grid.csv-separator", o.CSVSeparator, "Field separator used by CSV export.")
}
