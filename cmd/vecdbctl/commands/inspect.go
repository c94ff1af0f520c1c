package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"vecdb-go/internal/backlog"
	"vecdb-go/internal/snapshot"
)

// inspectCmd reports collection and persistence-backlog statistics without
// writing anything back, the read-only counterpart to recover.
func inspectCmd() *cobra.Command {
	var (
		snapshotPath string
		walPath      string
		maxDimension int
		maxPoints    int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report collection and persistence backlog statistics",
		Long: `inspect replays snapshot+incrementals+WAL into memory the same way
recover does, but never writes anything back: it only reports what it finds.

Examples:
  vecdbctl inspect --snapshot data/snapshot.json --wal data/wal.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := snapshot.Recover(snapshotPath, walPath, maxDimension, maxPoints)
			if err != nil {
				return fmt.Errorf("inspect: %w", err)
			}

			names := registry.Names()
			fmt.Printf("collections: %d\n", len(names))
			for _, name := range names {
				c, err := registry.Get(name)
				if err != nil {
					continue
				}
				fmt.Printf("  %s: %d point(s), dimension=%d, strict_finite=%v\n", name, c.Len(), c.Dimension(), c.StrictFinite())
			}

			observer := backlog.New(walPath, snapshot.IncrementalsDir(snapshotPath))
			observer.RefreshFullScan()
			stats := observer.Snapshot()
			fmt.Println("persistence backlog:")
			fmt.Printf("  wal_size_bytes=%d wal_tail_open=%v\n", stats.WalSizeBytes, stats.WalTailOpen)
			fmt.Printf("  incremental_segments=%d incremental_size_bytes=%d\n", stats.IncrementalSegments, stats.IncrementalSizeBytes)
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Path to the base snapshot file (required)")
	cmd.Flags().StringVar(&walPath, "wal", "", "Path to the WAL file (required)")
	cmd.Flags().IntVar(&maxDimension, "max-dimension", 4096, "Process-wide vector dimension ceiling")
	cmd.Flags().IntVar(&maxPoints, "max-points", 0, "Per-collection point ceiling (0 = unlimited)")
	cmd.MarkFlagRequired("snapshot")
	cmd.MarkFlagRequired("wal")

	return cmd
}
