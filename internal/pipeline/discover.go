package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/backmassage/docnamer/internal/naming"
)

// Document is one file scheduled for renaming. Text is filled in after
// extraction and budgeting.
type Document struct {
	Path    string
	ModTime time.Time
	Size    int64
	Text    string
}

// Name returns the document's base name.
func (d *Document) Name() string { return filepath.Base(d.Path) }

// Discover lists the regular files directly in dir whose extension matches
// ext (case-insensitive), newest first. Files with the same modification
// time are ordered by name so runs are deterministic. Subdirectories are
// not descended into.
func Discover(dir, ext string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var docs []Document
	for _, e := range entries {
		if !e.Type().IsRegular() || !naming.HasExtension(e.Name(), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		docs = append(docs, Document{
			Path:    filepath.Join(dir, e.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.After(b.ModTime)
		}
		return a.Name() < b.Name()
	})
	return docs, nil
}
