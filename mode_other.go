//go:build !unix

package treblo

import "io/fs"

// Execute bits are not meaningful without POSIX permissions.
func isExecutable(fs.FileMode) bool {
	return false
}
