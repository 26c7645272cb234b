package naming

import (
	"errors"
	"fmt"
)

// DisambiguationSuffix is appended once, before the extension, when the
// plain target name is taken.
const DisambiguationSuffix = "_01"

// ErrUnresolvedCollision means both the plain and the suffixed target exist.
var ErrUnresolvedCollision = errors.New("unresolved name collision")

// CollisionError reports the two names that were both taken.
type CollisionError struct {
	Target    string
	Alternate string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %q and %q both exist", ErrUnresolvedCollision, e.Target, e.Alternate)
}

func (e *CollisionError) Unwrap() error { return ErrUnresolvedCollision }

// Resolve returns the file name (no directory) to rename to. If
// candidate+ext is absent from snap it is returned as-is; otherwise
// candidate+"_01"+ext is tried once. When that is also present a
// *CollisionError is returned. There is no "_02" step. Resolve never
// touches the filesystem.
func Resolve(candidate SanitizedName, ext string, snap Snapshot) (string, error) {
	target := string(candidate) + ext
	if !snap.Contains(target) {
		return target, nil
	}
	alt := string(candidate) + DisambiguationSuffix + ext
	if !snap.Contains(alt) {
		return alt, nil
	}
	return "", &CollisionError{Target: target, Alternate: alt}
}
