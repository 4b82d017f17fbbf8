package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskie/treblo"
	"github.com/taskie/treblo/internal/snapshot"
	"github.com/taskie/treblo/internal/store"
)

var saveCmd = &cobra.Command{
	Use:   "save <ref> [path]",
	Short: "Record the digests of a directory under a ref",
	Long:  "Walk path (default: the current directory) and store its digests as a snapshot named ref, for later use with diff.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) (err error) {
	ref := args[0]
	root := "."
	if len(args) > 1 {
		root = args[1]
	}

	hasherName := viper.GetString("hasher")
	walker, err := newWalker(cmd, hasherName, false)
	if err != nil {
		return err
	}
	snap, err := takeSnapshot(walker, hasherName, root)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	data, err := snap.Marshal()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	d, err := st.Put(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	if err := st.PutRef(ref, d); err != nil {
		return fmt.Errorf("update ref %s: %w", ref, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s: %d entries, root %s\n", ref, len(snap.Records), snap.Root)
	return nil
}

// takeSnapshot walks root and records every entry relative to it; the root
// itself is recorded as ".".
func takeSnapshot(walker *treblo.Walker, hasherName, root string) (*snapshot.Snapshot, error) {
	root = trimSeparators(root)
	snap := &snapshot.Snapshot{Algorithm: hasherName}
	err := walker.WalkPath(root, func(path string, e treblo.TreeEntry, isTree bool) error {
		rel := relativeTo(root, path)
		if rel == "" {
			rel = "."
		}
		snap.Add(recordOf(rel, e), path == root)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func openStore() (*store.LocalStore, error) {
	return store.NewLocalStore(viper.GetString("store_dir"), 2, true)
}

// loadSnapshot reads the snapshot a ref points at.
func loadSnapshot(ctx context.Context, ref string) (_ *snapshot.Snapshot, err error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	d, err := st.GetRef(ref)
	if err != nil {
		return nil, err
	}
	data, err := st.Get(ctx, d)
	if err != nil {
		return nil, err
	}
	return snapshot.Unmarshal(data)
}
