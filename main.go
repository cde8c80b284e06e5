package main

import (
	"os"

	"github.com/abhisek/pmdrill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
