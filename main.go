package main

import (
	"os"

	"github.com/innovation-earth/iepsite/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
