package cmd

import (
	"bytes"
	"io"
	"os"

	"github.com/sourcegraph/conc/stream"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskie/treblo"
)

func addListFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolP("summarize", "s", false, "print only the digest of each PATH")
	f.IntP("depth", "d", -1, "print entries at most this many components deep")
	f.BoolP("no-self", "S", false, "do not print the tree of each PATH itself")
	f.BoolP("json", "j", false, "print JSON lines")
	f.String("format", "", "line template with {mode} {type} {digest} {path} {name}")
	f.BoolP("blob-only", "b", false, "hash files only")
	f.IntP("jobs", "J", 1, "number of PATHS walked concurrently")

	viper.BindPFlag("jobs", f.Lookup("jobs"))
}

func listOptionsFromFlags(cmd *cobra.Command) listOptions {
	f := cmd.Flags()
	var o listOptions
	o.summarize, _ = f.GetBool("summarize")
	o.depth, _ = f.GetInt("depth")
	noSelf, _ := f.GetBool("no-self")
	o.showSelf = !noSelf
	o.json, _ = f.GetBool("json")
	o.format, _ = f.GetString("format")
	o.blobOnly, _ = f.GetBool("blob-only")
	return o
}

func runList(cmd *cobra.Command, args []string) error {
	opts := listOptionsFromFlags(cmd)
	walker, err := newWalker(cmd, viper.GetString("hasher"), opts.blobOnly)
	if err != nil {
		return err
	}

	paths, relative := args, false
	if len(paths) == 0 {
		paths, relative = []string{"."}, true
	}

	out := cmd.OutOrStdout()
	jobs := viper.GetInt("jobs")
	if jobs <= 1 || len(paths) == 1 {
		for _, base := range paths {
			if err := listPath(walker, out, base, relative, opts); err != nil {
				return err
			}
		}
		return nil
	}

	// Walks run concurrently; each buffers its lines and they are written in
	// argument order.
	var firstErr error
	s := stream.New().WithMaxGoroutines(jobs)
	for _, base := range paths {
		s.Go(func() stream.Callback {
			var buf bytes.Buffer
			err := listPath(walker, &buf, base, relative, opts)
			return func() {
				if firstErr != nil {
					return
				}
				if _, werr := out.Write(buf.Bytes()); werr != nil && err == nil {
					err = werr
				}
				firstErr = err
			}
		})
	}
	s.Wait()
	return firstErr
}

func listPath(walker *treblo.Walker, w io.Writer, base string, relative bool, opts listOptions) error {
	p, err := newPrinter(w, base, relative, opts)
	if err != nil {
		return err
	}
	if info, err := os.Lstat(base); err == nil && !info.IsDir() {
		e, err := walker.HashFile(base)
		if err != nil {
			return err
		}
		return p.print(base, e, false)
	}
	logger.Debug("walking", "path", base)
	return walker.WalkPath(base, p.print)
}
