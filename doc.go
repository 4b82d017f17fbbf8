// Package treblo computes content-addressable digests for files and directories
// using Git's object encoding.
//
// Files hash as blob objects and directories as tree objects, so the digests
// match Git's object ids and do not depend on the order a directory was read in.
// Directory digests are resolved in a single streaming pass: a directory is
// hashed as soon as the walk leaves it, and only its pending children are held
// in memory.
//
// Basic usage:
//
//	w := treblo.New()
//	err := w.WalkPath("src", func(path string, e treblo.TreeEntry, isTree bool) error {
//	    fmt.Printf("%s %s %x\t%s\n", e.Mode, e.Mode.ObjectType(), e.Digest, path)
//	    return nil
//	})
//
// Choosing an algorithm and tolerating unreadable files:
//
//	w := treblo.New(
//	    treblo.WithHasher(treblo.SHA256),
//	    treblo.WithLenient(true),
//	    treblo.WithDiagnostics(func(d treblo.Diagnostic) { log.Println(d.Path, d.Err) }),
//	)
//
// Walking with a custom iterator:
//
//	err := w.Walk(root, entries, fn) // entries is an iter.Seq2[treblo.Entry, error]
package treblo
