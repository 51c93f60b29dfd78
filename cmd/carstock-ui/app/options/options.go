package options

import (
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/carstock/internal/carstock"
	"github.com/autopeer-io/carstock/pkg/app"
	"github.com/autopeer-io/carstock/pkg/log"
	genericoptions "github.com/autopeer-io/carstock/pkg/options"
)

type ConsoleOptions struct {
	HttpOptions *genericoptions.HttpOptions `json:"http" mapstructure:"http"`
	APIOptions  *genericoptions.APIOptions  `json:"api" mapstructure:"api"`
	GridOptions *genericoptions.GridOptions `json:"grid" mapstructure:"grid"`
	S3Options   *genericoptions.S3Options   `json:"s3" mapstructure:"s3"`
	MqttOptions *genericoptions.MqttOptions `json:"mqtt" mapstructure:"mqtt"`
	Log         *log.Options                `json:"log" mapstructure:"log"`
}

var (
	_ app.NamedFlagSetOptions = (*ConsoleOptions)(nil)
	_ app.LogOptionsProvider  = (*ConsoleOptions)(nil)
)

func NewConsoleOptions() *ConsoleOptions {
	o := &ConsoleOptions{
		HttpOptions: genericoptions.NewHttpOptions(),
		APIOptions:  genericoptions.NewAPIOptions(),
		GridOptions: genericoptions.NewGridOptions(),
		S3Options:   genericoptions.NewS3Options(),
		MqttOptions: genericoptions.NewMqttOptions(),
		Log:         log.NewOptions(),
	}

	return o
}

func (o *ConsoleOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}

	o.HttpOptions.AddFlags(fss.FlagSet("HTTP"))
	o.APIOptions.AddFlags(fss.FlagSet("API"))
	o.GridOptions.AddFlags(fss.FlagSet("Grid"))
	o.S3Options.AddFlags(fss.FlagSet("S3"))
	o.MqttOptions.AddFlags(fss.FlagSet("MQTT"))
	o.Log.AddFlags(fss.FlagSet("Log"))
	return fss
}

func (o *ConsoleOptions) Complete() error {
	return nil
}

func (o *ConsoleOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.APIOptions.Validate()...)
	errs = append(errs, o.GridOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	return utilerrors.NewAggregate(errs)
}

func (o *ConsoleOptions) LogOptions() *log.Options {
	return o.Log
}

func (o *ConsoleOptions) Config() (*carstock.Config, error) {
	return &carstock.Config{
		HttpOptions: o.HttpOptions,
		APIOptions:  o.APIOptions,
		GridOptions: o.GridOptions,
		S3Options:   o.S3Options,
		MqttOptions: o.MqttOptions,
	}, nil
}
