package main

import (
	"os"

	"github.com/mmwwxz/website-scanner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
