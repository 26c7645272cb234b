package naming

import (
	"path/filepath"
	"strings"
)

// TargetPath joins a resolved file name onto the directory of path.
func TargetPath(path, resolved string) string {
	return filepath.Join(filepath.Dir(path), resolved)
}

// Extension returns the extension of path as it appears on disk
// (".PDF" stays ".PDF"), so renames keep the original casing.
func Extension(path string) string {
	return filepath.Ext(path)
}

// HasExtension reports whether path ends in ext, ignoring case.
func HasExtension(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// AlreadyNamed reports whether path's base name is exactly candidate+ext.
// Renaming it would only add a "_01" suffix to a file that already carries
// the suggested name.
func AlreadyNamed(path string, candidate SanitizedName, ext string) bool {
	return filepath.Base(path) == string(candidate)+ext
}
