// Package fsutil holds filesystem helpers shared by the rename pipeline.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrTargetExists is returned when the rename target appeared after the
// collision decision was made.
var ErrTargetExists = errors.New("rename target already exists")

// RenameNoReplace renames oldpath to newpath and never overwrites an
// existing newpath. On failure oldpath is left in place.
func RenameNoReplace(oldpath, newpath string) error {
	if err := renameNoReplace(oldpath, newpath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("rename %s -> %s: %w", oldpath, newpath, ErrTargetExists)
		}
		return fmt.Errorf("rename %s -> %s: %w", oldpath, newpath, err)
	}
	return nil
}

// linkRename emulates a no-replace rename with a hard link: link fails
// with EEXIST when newpath exists, then oldpath is unlinked.
func linkRename(oldpath, newpath string) error {
	if err := os.Link(oldpath, newpath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return err
		}
		// No hard links on this filesystem (FAT, some network mounts).
		return checkedRename(oldpath, newpath)
	}
	if err := os.Remove(oldpath); err != nil {
		_ = os.Remove(newpath)
		return err
	}
	return nil
}

// checkedRename is the last resort: stat then rename. There is a window
// between the two calls, but the run is single-threaded.
func checkedRename(oldpath, newpath string) error {
	if _, err := os.Lstat(newpath); err == nil {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(oldpath, newpath)
}
