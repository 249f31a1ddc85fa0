package main

import (
	"os"

	"github.com/salescope/salescope/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
