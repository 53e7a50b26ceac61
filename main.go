package main

import (
	"os"

	"github.com/ykhalidz/askdocs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
