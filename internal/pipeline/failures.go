package pipeline

import (
	"errors"
	"fmt"

	"github.com/backmassage/docnamer/internal/extract"
	"github.com/backmassage/docnamer/internal/fsutil"
	"github.com/backmassage/docnamer/internal/naming"
	"github.com/backmassage/docnamer/internal/oracle"
)

// State is a document's position in the rename state machine.
type State int

const (
	StateDiscovered State = iota
	StateExtracted
	StateBudgeted
	StateNamed
	StateSanitized
	StateResolved
	StateRenamed
	StateSkipped
	StateFailed
)

var stateNames = [...]string{
	StateDiscovered: "discovered",
	StateExtracted:  "extracted",
	StateBudgeted:   "budgeted",
	StateNamed:      "named",
	StateSanitized:  "sanitized",
	StateResolved:   "resolved",
	StateRenamed:    "renamed",
	StateSkipped:    "skipped",
	StateFailed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateRenamed || s == StateSkipped || s == StateFailed
}

// FailureKind groups document failures for the run summary.
type FailureKind string

const (
	KindExtract   FailureKind = "extract"
	KindOracle    FailureKind = "oracle"
	KindCollision FailureKind = "collision"
	KindRename    FailureKind = "rename"
)

// Failure is one document that ended in StateFailed. Stage is the last
// state the document reached before the error.
type Failure struct {
	Path  string
	Kind  FailureKind
	Stage State
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Path, f.Kind, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Classify maps err to a FailureKind. It returns "" for errors it does not
// recognize; callers fall back to the stage that produced the error.
func Classify(err error) FailureKind {
	var oerr *oracle.Error
	var cerr *naming.CollisionError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cerr), errors.Is(err, naming.ErrUnresolvedCollision):
		return KindCollision
	case errors.As(err, &oerr), errors.Is(err, oracle.ErrUnavailable), errors.Is(err, oracle.ErrMalformed):
		return KindOracle
	case errors.Is(err, extract.ErrUnreadable), errors.Is(err, extract.ErrToolMissing):
		return KindExtract
	case errors.Is(err, fsutil.ErrTargetExists):
		return KindRename
	}
	return ""
}

func newFailure(doc *Document, stage State, fallback FailureKind, err error) Failure {
	kind := Classify(err)
	if kind == "" {
		kind = fallback
	}
	return Failure{Path: doc.Path, Kind: kind, Stage: stage, Err: err}
}
