package main

import (
	"os"

	"github.com/droneops/coordinator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
