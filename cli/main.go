package main

import (
	"os"

	"github.com/twowaysql/twowaysql/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
