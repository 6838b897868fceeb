package main

import (
	"os"

	"github.com/wegman-software/vec2globe-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
