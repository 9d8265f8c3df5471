package main

import (
	"os"

	"github.com/zjrosen/mimic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
