package extract

import (
	"context"
	"strings"
)

// PDFText reads a PDF's text layer with poppler's pdftotext. Pages are
// separated by form feeds, which are turned into blank lines.
type PDFText struct {
	Run Runner // nil means ExecRunner
}

// Extract implements TextExtractor.
func (p *PDFText) Extract(ctx context.Context, path string) (string, error) {
	r := runner(p.Run)(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if r.Err != nil {
		return "", toolError("pdftotext", r)
	}
	return strings.ReplaceAll(string(r.Stdout), "\f", "\n\n"), nil
}
