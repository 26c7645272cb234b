// Package dupes reports byte-identical files in a directory by content
// fingerprint, independently of file names.
package dupes

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrFingerprintIO means a file could not be read while fingerprinting.
// The scan is aborted; no partial report is produced.
var ErrFingerprintIO = errors.New("cannot fingerprint file")

// FingerprintError names the file that could not be read.
type FingerprintError struct {
	Path string
	Err  error
}

func (e *FingerprintError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrFingerprintIO, e.Path, e.Err)
}

func (e *FingerprintError) Unwrap() []error { return []error{ErrFingerprintIO, e.Err} }

// Fingerprint is the SHA-256 digest of a file's full content.
type Fingerprint [sha256.Size]byte

// String returns the hex digest.
func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// Pair links a later duplicate to the first file seen with the same content.
type Pair struct {
	First     string // Path of the first-seen file (lexicographic order).
	Duplicate string // Path of the later file with identical content.
	Size      int64
}

// Options tunes a scan. The zero value matches every regular file.
type Options struct {
	// Extensions, when non-empty, limits the scan to these extensions
	// (case-insensitive, with leading dot).
	Extensions []string
	// Verify compares full contents against the first-seen file with the
	// same bytes before a pair is reported, guarding against digest
	// collisions.
	Verify bool
}

// Find scans the regular files directly inside dir in lexicographic name
// order. For each group of N identical files it returns N-1 pairs, each
// (first-seen, later). Any read failure aborts the scan with a
// *FingerprintError. Cancellation is checked between files.
func Find(ctx context.Context, dir string, opts Options) ([]Pair, error) {
	files, err := listFiles(dir, opts.Extensions)
	if err != nil {
		return nil, err
	}

	type seen struct {
		path string
		size int64
	}
	// Each fingerprint keeps one representative per distinct content; only
	// Verify can ever see more than one.
	groups := make(map[Fingerprint][]seen, len(files))
	var pairs []Pair

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fp, size, err := fingerprint(path)
		if err != nil {
			return nil, err
		}
		reps := groups[fp]
		orig, found := seen{}, false
		for _, r := range reps {
			if !opts.Verify {
				orig, found = r, true
				break
			}
			same, err := sameContent(r.path, path)
			if err != nil {
				return nil, err
			}
			if same {
				orig, found = r, true
				break
			}
		}
		if !found {
			groups[fp] = append(reps, seen{path: path, size: size})
			continue
		}
		pairs = append(pairs, Pair{First: orig.path, Duplicate: path, Size: size})
	}
	return pairs, nil
}

// fingerprint is FingerprintFile; replaced in tests.
var fingerprint = FingerprintFile

// FingerprintFile streams path through SHA-256.
func FingerprintFile(path string) (Fingerprint, int64, error) {
	var fp Fingerprint
	f, err := os.Open(path)
	if err != nil {
		return fp, 0, &FingerprintError{Path: path, Err: err}
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return fp, 0, &FingerprintError{Path: path, Err: err}
	}
	copy(fp[:], h.Sum(nil))
	return fp, n, nil
}

// listFiles returns the regular files directly in dir, sorted by name.
func listFiles(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir) // sorted by filename
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if len(exts) > 0 && !matchExt(e.Name(), exts) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func matchExt(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

const compareChunk = 64 * 1024

// sameContent compares two files byte for byte.
func sameContent(a, b string) (bool, error) {
	fa, err := os.Open(a)
	if err != nil {
		return false, &FingerprintError{Path: a, Err: err}
	}
	defer fa.Close()
	fb, err := os.Open(b)
	if err != nil {
		return false, &FingerprintError{Path: b, Err: err}
	}
	defer fb.Close()

	bufA := make([]byte, compareChunk)
	bufB := make([]byte, compareChunk)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		doneA := errA == io.EOF || errA == io.ErrUnexpectedEOF
		doneB := errB == io.EOF || errB == io.ErrUnexpectedEOF
		if errA != nil && !doneA {
			return false, &FingerprintError{Path: a, Err: errA}
		}
		if errB != nil && !doneB {
			return false, &FingerprintError{Path: b, Err: errB}
		}
		if doneA || doneB {
			return doneA && doneB, nil
		}
	}
}
