package main

import (
	"fmt"
	"os"

	"github.com/rocketscienceinc/minesweeper-backend/cmd"
)

// main - is the entry point of the application.
func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
