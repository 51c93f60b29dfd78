package main

import (
	"os"

	_ "go.uber.org/automaxprocs"
	genericapiserver "k8s.io/apiserver/pkg/server"

	"github.com/autopeer-io/carstock/cmd/carstockctl/app"
)

func main() {
	ctx := genericapiserver.SetupSignalContext()
	if err := app.NewApp().Command().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
