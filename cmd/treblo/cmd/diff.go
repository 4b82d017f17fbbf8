package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskie/treblo/internal/snapshot"
)

var errDifferences = errors.New("differences found")

var diffCmd = &cobra.Command{
	Use:   "diff <ref> [path]",
	Short: "Compare a directory with a saved snapshot",
	Long: `Walk path (default: the current directory) with the algorithm the snapshot
was saved with and print one line per changed path: A (added), D (deleted)
or M (modified). Directories whose content changed are reported too.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().Bool("exit-code", false, "exit with status 1 when there are differences")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	ref := args[0]
	root := "."
	if len(args) > 1 {
		root = args[1]
	}

	saved, err := loadSnapshot(cmd.Context(), ref)
	if err != nil {
		return err
	}

	walker, err := newWalker(cmd, saved.Algorithm, false)
	if err != nil {
		return err
	}
	current, err := takeSnapshot(walker, saved.Algorithm, root)
	if err != nil {
		return err
	}

	changes := snapshot.Diff(saved, current)
	out := cmd.OutOrStdout()
	for _, c := range changes {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", c.Kind, c.Path); err != nil {
			return err
		}
	}

	if exitCode, _ := cmd.Flags().GetBool("exit-code"); exitCode && len(changes) > 0 {
		return errDifferences
	}
	return nil
}
