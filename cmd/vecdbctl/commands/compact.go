package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vecdb-go/internal/snapshot"
)

// compactCmd forces a checkpoint: write a fresh base snapshot from the
// recovered state, truncate the WAL, and prune incremental segments the new
// base subsumes.
func compactCmd() *cobra.Command {
	var (
		snapshotPath string
		walPath      string
		maxDimension int
		maxPoints    int
		compactAfter int
	)

	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Force a checkpoint: fresh base snapshot, truncated WAL, pruned incrementals",
		Long: `compact replays the current persisted state and immediately writes a
consolidated base snapshot, the same operation the server runs automatically
every checkpoint_interval writes, available here for manual maintenance.

Examples:
  vecdbctl compact --snapshot data/snapshot.json --wal data/wal.jsonl --compact-after 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := snapshot.Recover(snapshotPath, walPath, maxDimension, maxPoints)
			if err != nil {
				return fmt.Errorf("compact: recover: %w", err)
			}
			if err := snapshot.Checkpoint(snapshotPath, walPath, registry, compactAfter); err != nil {
				return fmt.Errorf("compact: checkpoint: %w", err)
			}
			fmt.Printf("compacted %d collection(s) into %s\n", len(registry.Names()), snapshotPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to the base snapshot file (required)")
	cmd.Flags().StringVar(&walPath, "wal", "", "Path to the WAL file (required)")
	cmd.Flags().IntVar(&maxDimension, "max-dimension", 4096, "Process-wide vector dimension ceiling")
	cmd.Flags().IntVar(&maxPoints, "max-points", 0, "Per-collection point ceiling (0 = unlimited)")
	cmd.Flags().IntVar(&compactAfter, "compact-after", 8, "Incremental segments to retain after the new base")
	cmd.MarkFlagRequired("snapshot")
	cmd.MarkFlagRequired("wal")

	return cmd
}
