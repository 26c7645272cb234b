// Package pipeline renames the documents of one directory.
//
// Each document moves through a fixed sequence of states:
//
//	Discovered -> Extracted -> Budgeted -> Named -> Sanitized -> Resolved
//	           -> Renamed | Skipped | Failed
//
// Documents are processed one at a time, newest first. A failure is
// recorded with its kind and the batch moves on; cancellation is checked
// between documents only.
package pipeline
