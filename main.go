package main

import (
	"os"

	"autoreview/service"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var exit = os.Exit

func main() {
	exit(RealMain(os.Args[1:]))
}

// RealMain runs the command line and returns the process exit code.
func RealMain(args []string) int {
	root := service.NewRootCommand(version)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
