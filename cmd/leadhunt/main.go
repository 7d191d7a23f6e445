package main

import (
	"fmt"
	"os"

	"leadhunt-engine/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "leadhunt:", err)
		os.Exit(1)
	}
}
