package main

import (
	"os"

	"github.com/stocklab/stocklab/cmd/stocklab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
