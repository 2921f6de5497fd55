// Package main is the ptgtool command itself.
package main

import (
	"os"

	"go.viam.com/ptgnav/cli"
	"go.viam.com/ptgnav/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Error(err)
		os.Exit(1)
	}
}
