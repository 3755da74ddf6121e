// Package main provides a Lambda-only entrypoint, packaged as the bootstrap binary of a custom runtime function.
package main

import (
	"os"

	"github.com/isometry/messenger-echo-bot/cmd"
)

func main() {
	root := cmd.New()
	root.SetArgs(append([]string{"lambda"}, os.Args[1:]...))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
