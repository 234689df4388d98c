package main

import (
	"os"

	"msr175-plot/controller"
	"msr175-plot/utils"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr, plotFiles))
}

// plotFiles is the production pipeline behind the root command.
func plotFiles(paths []string, opts *utils.Options) error {
	if err := controller.CheckOutputPaths(paths, opts); err != nil {
		return err
	}
	pc, err := controller.NewPlotController(opts)
	if err != nil {
		return err
	}
	return pc.Run(paths)
}
