package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

var refsCmd = &cobra.Command{
	Use:   "refs",
	Short: "List saved snapshots",
	Args:  cobra.NoArgs,
	RunE:  runRefs,
}

func init() {
	rootCmd.AddCommand(refsCmd)
}

func runRefs(cmd *cobra.Command, args []string) (err error) {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	refs, err := st.Refs()
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "(no refs)")
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(refs)) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, refs[name])
	}
	return nil
}
