package main

import (
	"os"

	"github.com/kwhalen/escalation-helper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
