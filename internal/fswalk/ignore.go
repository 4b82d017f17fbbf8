package fswalk

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// loadIgnorePatterns reads the ignore files present in dir, in the order of
// names. domain is dir's path below the walk root, so the patterns only
// apply inside dir.
func loadIgnorePatterns(dir string, domain []string, names []string) ([]gitignore.Pattern, error) {
	var patterns []gitignore.Pattern
	for _, name := range names {
		lines, err := readIgnoreFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			patterns = append(patterns, gitignore.ParsePattern(line, domain))
		}
	}
	return patterns, nil
}

// readIgnoreFile returns the pattern lines of a gitignore-style file, or nil
// when it does not exist.
func readIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// components splits a slash-separated relative path; "" has none.
func components(rel string) []string {
	if rel == "" {
		return nil
	}
	return strings.Split(rel, "/")
}
