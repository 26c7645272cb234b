// Package naming turns an oracle's suggested name into a filesystem target:
// sanitization with a timestamped fallback, a point-in-time directory
// snapshot, and single-retry collision resolution ("_01").
//
// Split: sanitize.go, snapshot.go, collision.go, outputpath.go.
package naming
