package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-jsontree/pkg/jsontree"
)

// treeStats accumulates per-snapshot statistics during the walk.
type treeStats struct {
	nodes      int
	byType     map[jsontree.Type]int
	maxDepth   int
	nameBytes  int
	valueBytes int
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot-file>",
	Short: "Report node and buffer statistics for a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skipValidate, _ := cmd.Flags().GetBool("no-validate")

		b, err := loadSnapshot(args[0], !skipValidate)
		if err != nil {
			return err
		}

		stats := &treeStats{byType: make(map[jsontree.Type]int)}
		collectStats(b.Root(), 1, stats)

		fmt.Printf("Snapshot: %s\n", args[0])
		fmt.Printf("  Buffer size:     %d bytes\n", b.BufferSize())
		fmt.Printf("  Nodes:           %d\n", stats.nodes)
		fmt.Printf("  Max depth:       %d\n", stats.maxDepth)
		fmt.Printf("  Name bytes:      %d\n", stats.nameBytes)
		fmt.Printf("  Payload bytes:   %d\n", stats.valueBytes)

		tags := make([]jsontree.Type, 0, len(stats.byType))
		for tag := range stats.byType {
			tags = append(tags, tag)
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
		for _, tag := range tags {
			fmt.Printf("  %-16s %d\n", tag.String()+":", stats.byType[tag])
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().Bool("no-validate", false, "skip structural validation of the snapshot")
	rootCmd.AddCommand(inspectCmd)
}

func collectStats(parent jsontree.Cursor, depth int, stats *treeStats) {
	for it, end := parent.Begin(), parent.End(); it != end; it = it.Next() {
		stats.nodes++
		stats.byType[it.Type()]++
		stats.nameBytes += len(it.Name())
		if depth > stats.maxDepth {
			stats.maxDepth = depth
		}
		if it.Type().IsComposite() {
			collectStats(it, depth+1, stats)
		} else {
			stats.valueBytes += int(it.PayloadSize())
		}
	}
}
