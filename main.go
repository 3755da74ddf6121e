// Package main provides the entrypoint for messenger-echo-bot.
package main

import (
	"os"

	"github.com/isometry/messenger-echo-bot/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
