package main

import (
	"fmt"
	"os"

	"github.com/niamhfoley-dev/assignment-4/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "forum:", err)
		os.Exit(1)
	}
}
