package treblo

import (
	"os"
	"strings"
)

// Paths handled by the walk are textual: a child path is its parent followed by
// the separator and a name. Nothing is cleaned, so "./a/x" stays below ".".

const separator = os.PathSeparator

// trimRoot drops trailing separators, keeping a lone separator intact.
func trimRoot(root string) string {
	for len(root) > 1 && root[len(root)-1] == separator {
		root = root[:len(root)-1]
	}
	return root
}

// dirPrefix is the prefix shared by every path strictly below dir.
func dirPrefix(dir string) string {
	if strings.HasSuffix(dir, string(separator)) {
		return dir
	}
	return dir + string(separator)
}

// parentOf returns the textual parent of p, or "" when p has no separator.
func parentOf(p string) string {
	i := strings.LastIndexByte(p, separator)
	switch {
	case i < 0:
		return ""
	case i == 0:
		return p[:1]
	default:
		return p[:i]
	}
}

// baseName returns the last component of p. The names ".", ".." and the
// filesystem root have no base name.
func baseName(p string) string {
	p = trimRoot(p)
	name := p[strings.LastIndexByte(p, separator)+1:]
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// isAncestorOrSelf reports whether p equals dir or lies below it, comparing
// whole components so "a/bc" is not below "a/b".
func isAncestorOrSelf(dir, p string) bool {
	return p == dir || strings.HasPrefix(p, dirPrefix(dir))
}

// comparePaths orders paths component by component: the separator sorts
// before every other byte, so a directory's descendants directly follow it.
func comparePaths(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		ca, cb := a[i], b[i]
		if ca == cb {
			continue
		}
		if ca == separator {
			return -1
		}
		if cb == separator {
			return 1
		}
		if ca < cb {
			return -1
		}
		return 1
	}
	return len(a) - len(b)
}
