// Package snapshot records the digests of one walk so that a later walk can
// be compared against it.
package snapshot

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

// Record is one hashed path. It is also the JSON line written by the list
// command.
type Record struct {
	FileMode   uint32 `json:"file_mode" yaml:"file_mode"`
	ObjectType string `json:"object_type" yaml:"object_type"`
	Digest     string `json:"digest" yaml:"digest"`
	Path       string `json:"path" yaml:"path"`
}

// Snapshot is the result of walking one root.
type Snapshot struct {
	Algorithm string   `json:"algorithm" yaml:"algorithm"`
	Root      string   `json:"root" yaml:"root"`
	Records   []Record `json:"records" yaml:"records"`
}

// Add appends a record. When the record is the walk root, its digest becomes
// the snapshot's root digest.
func (s *Snapshot) Add(r Record, isRoot bool) {
	s.Records = append(s.Records, r)
	if isRoot {
		s.Root = r.Digest
	}
}

// Marshal encodes the snapshot with its records sorted by path, so equal
// walks encode to equal bytes.
func (s *Snapshot) Marshal() ([]byte, error) {
	sorted := *s
	sorted.Records = slices.Clone(s.Records)
	slices.SortFunc(sorted.Records, func(a, b Record) int {
		return strings.Compare(a.Path, b.Path)
	})
	return json.Marshal(&sorted)
}

// Unmarshal decodes a snapshot written by Marshal.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Algorithm == "" {
		return nil, fmt.Errorf("decode snapshot: missing algorithm")
	}
	return &s, nil
}
