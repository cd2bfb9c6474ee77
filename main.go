package main

import (
	"os"

	"git-setup/cmd"
)

// main delegates to cmd.Execute, which has already reported any error.
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
