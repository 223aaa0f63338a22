// Package main is the entry point for the npc CLI tool.
package main

import (
	"os"

	"github.com/aurule/npc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
