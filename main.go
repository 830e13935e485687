package main

import (
	"os"

	"github.com/vscarantav/parallelscriptures/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
