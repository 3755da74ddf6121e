// Package main provides a service-only entrypoint for container images.
package main

import (
	"os"

	"github.com/isometry/messenger-echo-bot/cmd"
)

func main() {
	root := cmd.New()
	root.SetArgs(append([]string{"service"}, os.Args[1:]...))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
