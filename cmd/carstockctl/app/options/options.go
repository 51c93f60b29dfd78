package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/carstock/pkg/app"
	"github.com/autopeer-io/carstock/pkg/log"
	genericoptions "github.com/autopeer-io/carstock/pkg/options"
)

// CtlOptions is shared by every carstockctl sub-command.
type CtlOptions struct {
	APIOptions  *genericoptions.APIOptions  `json:"api" mapstructure:"api"`
	GridOptions *genericoptions.GridOptions `json:"grid" mapstructure:"grid"`
	S3Options   *genericoptions.S3Options   `json:"s3" mapstructure:"s3"`
	Log         *log.Options                `json:"log" mapstructure:"log"`
}

var (
	_ app.NamedFlagSetOptions = (*CtlOptions)(nil)
	_ app.LogOptionsProvider  = (*CtlOptions)(nil)
)

// NewCtlOptions logs warnings and errors to stderr so stdout stays clean for output.
func NewCtlOptions() *CtlOptions {
	logOpts := log.NewOptions()
	logOpts.Level = "warn"
	logOpts.OutputPaths = []string{"stderr"}

	return &CtlOptions{
		APIOptions:  genericoptions.NewAPIOptions(),
		GridOptions: genericoptions.NewGridOptions(),
		S3Options:   genericoptions.NewS3Options(),
		Log:         logOpts,
	}
}

func (o *CtlOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}

	o.APIOptions.AddFlags(fss.FlagSet("API"))
	o.GridOptions.AddFlags(fss.FlagSet("Grid"))
	o.S3Options.AddFlags(fss.FlagSet("S3"))
	o.Log.AddFlags(fss.FlagSet("Log"))
	return fss
}

func (o *CtlOptions) Complete() error {
	return nil
}

func (o *CtlOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.APIOptions.Validate()...)
	errs = append(errs, o.GridOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	return utilerrors.NewAggregate(errs)
}

func (o *CtlOptions) LogOptions() *log.Options {
	return o.Log
}
