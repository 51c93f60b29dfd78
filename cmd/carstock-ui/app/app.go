package app

import (
	"fmt"

	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/carstock/cmd/carstock-ui/app/options"
	"github.com/autopeer-io/carstock/pkg/app"
)

const (
	commandName = "carstock-ui"
	commandDesc = `The carstock web console lists the cars of a dealership inventory
and lets an operator add, edit, delete and export them.

The cars live in a remote REST resource; the console keeps a mirror of the
last fetched collection and reloads it after every change.`
)

func NewApp() *app.App {
	opts := options.NewConsoleOptions()
	application := app.NewApp(
		commandName,
		"Launch the carstock web console",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)
	return application
}

func run(opts *options.ConsoleOptions) app.RunFunc {
	return func() error {
		ctx := genericapiserver.SetupSignalContext()

		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		console, err := cfg.NewConsoleServer()
		if err != nil {
			return fmt.Errorf("failed to create console: %w", err)
		}

		return console.Run(ctx)
	}
}
