// Command wheelmk builds the native library of a Python wheel from a Go
// package and registers it with the build data of a packaging frontend.
package main

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
)

// appVersion is set with -ldflags "-X main.appVersion=..."
var appVersion = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errw io.Writer) int {
	root := newRootCmd(in, out, errw)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		color.New(color.FgRed).Fprintf(errw, "wheelmk: %s\n", err)
		return 1
	}
	return 0
}
