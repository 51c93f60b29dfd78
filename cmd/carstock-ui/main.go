package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/autopeer-io/carstock/cmd/carstock-ui/app"
)

func main() {
	app.NewApp().Run()
}
