// Package commands implements the vecdbctl CLI's subcommands: recover,
// inspect, and compact.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	rootCmd = &cobra.Command{
		Use:   "vecdbctl",
		Short: "Operate on a vecdb-go snapshot and WAL directly, offline",
		Long: `vecdbctl inspects and repairs a vecdb-go persistence directory without
starting the HTTP server: recovering a registry from snapshot+incrementals+WAL,
reporting collection and backlog statistics, and forcing a checkpoint.`,
	}
)

// Execute runs the CLI.
func Execute(v string) error {
	version = v
	rootCmd.AddCommand(
		versionCmd(),
		recoverCmd(),
		inspectCmd(),
		compactCmd(),
	)
	return rootCmd.Execute()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vecdbctl version %s\n", version)
		},
	}
}
