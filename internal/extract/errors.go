package extract

import (
	"errors"
	"regexp"
)

// Document problems recognized from poppler/tesseract stderr.
var (
	ErrEncrypted = errors.New("document is password protected")
	ErrDamaged   = errors.New("document is damaged or not a PDF")
)

// Pre-compiled regexes for classifying tool stderr. Checked in order by
// [Classify]; the first match wins.
var (
	reEncrypted = regexp.MustCompile(
		`(?i)Incorrect password|Command Line Error: .*password|encrypted`)

	reDamaged = regexp.MustCompile(
		`(?i)Syntax Error|Couldn't (find|read) (trailer|xref)|` +
			`May not be a PDF file|PDF file is damaged|` +
			`Couldn't open file|Error: Unable to load image|read_params_file`)
)

// Classify maps tool stderr to ErrEncrypted, ErrDamaged or nil.
func Classify(stderr string) error {
	switch {
	case reEncrypted.MatchString(stderr):
		return ErrEncrypted
	case reDamaged.MatchString(stderr):
		return ErrDamaged
	default:
		return nil
	}
}
