// Package main provides the vecdbctl CLI tool.
package main

import (
	"fmt"
	"os"

	"vecdb-go/cmd/vecdbctl/commands"
)

var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
