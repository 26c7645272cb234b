package naming

import (
	"fmt"
	"os"
)

// Snapshot is the set of entry names present in a directory at one point in
// time. Take a fresh one immediately before every naming decision; it does
// not track later changes.
type Snapshot struct {
	names map[string]struct{}
}

// TakeSnapshot lists dir (all entry kinds: files, directories, links).
func TakeSnapshot(dir string) (Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", dir, err)
	}
	s := Snapshot{names: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		s.names[e.Name()] = struct{}{}
	}
	return s, nil
}

// NewSnapshot builds a Snapshot from a fixed list of names.
func NewSnapshot(names ...string) Snapshot {
	s := Snapshot{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Contains reports whether name was present when the snapshot was taken.
func (s Snapshot) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of entries.
func (s Snapshot) Len() int { return len(s.names) }
