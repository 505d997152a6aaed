package main

import (
	"fmt"
	"os"
)

var (
	version   = "N/A"
	buildDate = "N/A"
)

// main builds the command tree and runs it against the process stdio.
func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
