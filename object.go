package treblo

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
)

const copyBufferSize = 32 * 1024

// TreeEntry is one child reference inside a tree object.
type TreeEntry struct {
	Mode   FileMode
	Name   string
	Digest []byte
}

// Hex returns the digest as lowercase hex.
func (e TreeEntry) Hex() string {
	return hex.EncodeToString(e.Digest)
}

func (e TreeEntry) String() string {
	return fmt.Sprintf("%s %s\t%s", e.Mode, e.Hex(), e.Name)
}

// encodedLen is the size of the entry inside a tree payload.
func (e TreeEntry) encodedLen() int64 {
	return int64(len(strconv.FormatUint(uint64(e.Mode), 8)) + 1 + len(e.Name) + 1 + len(e.Digest))
}

// sortKey is the name Git compares entries by: directories carry a trailing slash.
func (e TreeEntry) sortKey() string {
	if e.Mode.IsDir() {
		return e.Name + "/"
	}
	return e.Name
}

// SortTreeEntries orders entries the way Git orders a tree. Names compare as
// raw bytes, except that a directory compares as if its name ended in "/", so
// "foo-bar" sorts before the directory "foo" while the file "foo" sorts first.
func SortTreeEntries(entries []TreeEntry) {
	slices.SortFunc(entries, func(a, b TreeEntry) int {
		return compareStrings(a.sortKey(), b.sortKey())
	})
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// WriteHeader writes "<type> <size>\x00".
func WriteHeader(w io.Writer, typ ObjectType, size int64) error {
	_, err := io.WriteString(w, string(typ)+" "+strconv.FormatInt(size, 10)+"\x00")
	return err
}

// WriteTree writes a tree object for entries, which must already be sorted
// with SortTreeEntries.
func WriteTree(w io.Writer, entries []TreeEntry) error {
	var size int64
	for _, e := range entries {
		size += e.encodedLen()
	}
	if err := WriteHeader(w, TreeObject, size); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, e := range entries {
		buf.Reset()
		buf.WriteString(strconv.FormatUint(uint64(e.Mode), 8))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.Digest)
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// WriteBlob writes the blob object for the bytes read from r. size must be
// the exact number of bytes r yields.
func WriteBlob(w io.Writer, r io.Reader, size int64) error {
	return NewEncoder().blobFrom(w, r, size)
}

// Encoder writes Git objects. It owns a copy buffer that is reused across
// blobs, so an Encoder must not be shared between goroutines.
type Encoder struct {
	buf []byte
}

func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, copyBufferSize)}
}

// Blob writes the blob object for the file at path and returns the payload
// size. A symlink is not followed: its target text is the payload.
func (e *Encoder) Blob(w io.Writer, path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return 0, err
		}
		// Git stores link targets with forward slashes.
		payload := filepath.ToSlash(target)
		return int64(len(payload)), e.blobFrom(w, bytes.NewReader([]byte(payload)), int64(len(payload)))
	}

	// Opening a FIFO or device for reading can block, so check before Open.
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	finfo, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if !finfo.Mode().IsRegular() {
		return 0, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}

	size := finfo.Size()
	return size, e.blobFrom(w, f, size)
}

// Tree writes the tree object for already sorted entries.
func (e *Encoder) Tree(w io.Writer, entries []TreeEntry) error {
	return WriteTree(w, entries)
}

func (e *Encoder) blobFrom(w io.Writer, r io.Reader, size int64) error {
	if err := WriteHeader(w, BlobObject, size); err != nil {
		return err
	}
	// Read one byte past size so growth is detected as well as truncation.
	n, err := io.CopyBuffer(w, io.LimitReader(r, size+1), e.buf)
	if err != nil {
		return err
	}
	if n != size {
		return fmt.Errorf("%w: expected %d bytes, read %d", ErrSizeMismatch, size, n)
	}
	return nil
}
