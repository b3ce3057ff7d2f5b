package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-jsontree/pkg/jsontree"
)

var validateCmd = &cobra.Command{
	Use:   "validate <snapshot-file>...",
	Short: "Check a snapshot's structural integrity",
	Long: `validate adopts each snapshot file and runs the full structural
check: node bounds, type tags, list and tree consistency, and
reachability of every allocated node. Exits non-zero if any file
fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				log.LogValidation(path, 0, err)
				failed++
				continue
			}

			b, err := jsontree.NewFromSnapshot(data, false)
			if err == nil {
				err = b.Validate()
			}
			log.LogValidation(path, len(data), err)
			if err != nil {
				fmt.Printf("%s: INVALID: %v\n", path, err)
				failed++
				continue
			}
			fmt.Printf("%s: OK (%d bytes, %d top-level values)\n", path, len(data), b.Count(b.Root()))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d snapshots failed validation", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
