//go:build unix

package treblo

import "io/fs"

func isExecutable(m fs.FileMode) bool {
	return m.Perm()&0o111 != 0
}
