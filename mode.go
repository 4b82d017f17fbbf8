package treblo

import (
	"fmt"
	"io/fs"
)

// FileMode is the Git mode of a tree entry.
type FileMode uint32

const (
	ModeDir        FileMode = 0o40000
	ModeRegular    FileMode = 0o100644
	ModeExecutable FileMode = 0o100755
	ModeSymlink    FileMode = 0o120000
)

// ObjectType is the type tag written in an object header.
type ObjectType string

const (
	BlobObject ObjectType = "blob"
	TreeObject ObjectType = "tree"
)

// FileModeOf classifies an entry from its metadata. Directories win over
// symlinks, symlinks over executables, and everything else is regular.
func FileModeOf(info fs.FileInfo) FileMode {
	switch m := info.Mode(); {
	case m.IsDir():
		return ModeDir
	case m&fs.ModeSymlink != 0:
		return ModeSymlink
	case isExecutable(m):
		return ModeExecutable
	default:
		return ModeRegular
	}
}

// Value returns the integer whose octal rendering is the Git mode.
func (m FileMode) Value() uint32 { return uint32(m) }

func (m FileMode) IsDir() bool { return m == ModeDir }

// ObjectType returns the object type an entry with this mode refers to.
func (m FileMode) ObjectType() ObjectType {
	if m.IsDir() {
		return TreeObject
	}
	return BlobObject
}

func (m FileMode) String() string {
	return fmt.Sprintf("%06o", uint32(m))
}
