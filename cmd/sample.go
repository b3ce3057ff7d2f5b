package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-jsontree/pkg/jsonrender"
	"github.com/deploymenttheory/go-jsontree/pkg/jsontree"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a small example snapshot",
	Long: `sample builds a tree exercising every value type, writes its
snapshot to the given file, and prints the rendered JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		b, err := buildSampleTree()
		if err != nil {
			return err
		}

		snap := b.Snapshot()
		if err := os.WriteFile(out, snap, 0o644); err != nil {
			return err
		}
		log.Info("sample snapshot written").
			Str("path", out).
			Int("size_bytes", len(snap)).
			Send()

		r := jsonrender.New()
		r.SetPretty(true)
		fmt.Println(string(r.RenderTree(b)))
		return nil
	},
}

func init() {
	sampleCmd.Flags().String("out", "sample.jtree", "output snapshot file")
	rootCmd.AddCommand(sampleCmd)
}

func buildSampleTree() (*jsontree.Builder, error) {
	b := jsontree.New()
	root := b.Root()

	meta, err := b.AddObject(root, "meta")
	if err != nil {
		return nil, err
	}
	if _, err := b.AddString(meta, "name", "sample"); err != nil {
		return nil, err
	}
	if _, err := b.AddTime(meta, "created", jsontree.FileTimeFromTime(time.Now())); err != nil {
		return nil, err
	}
	if _, err := b.AddUUID(meta, "id", uuid.New()); err != nil {
		return nil, err
	}

	values, err := b.AddObject(root, "values")
	if err != nil {
		return nil, err
	}
	if _, err := b.AddInt(values, "int", -42); err != nil {
		return nil, err
	}
	if _, err := b.AddUint(values, "uint", 42); err != nil {
		return nil, err
	}
	if _, err := b.AddFloat(values, "float", 3.5); err != nil {
		return nil, err
	}
	if _, err := b.AddBool(values, "bool", true); err != nil {
		return nil, err
	}
	if _, err := b.AddNull(values, "null"); err != nil {
		return nil, err
	}

	list, err := b.AddArray(root, "list")
	if err != nil {
		return nil, err
	}
	for i := int64(1); i <= 3; i++ {
		if _, err := b.AddInt(list, "", i); err != nil {
			return nil, err
		}
	}

	return b, nil
}
