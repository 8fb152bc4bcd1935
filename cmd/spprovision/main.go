package main

import (
	"os"

	"spprovision/cmd/spprovision/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
