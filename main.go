package main

import (
	"os"

	"github.com/uiforge/catalyze/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
