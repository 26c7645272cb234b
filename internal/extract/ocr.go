package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/backmassage/docnamer/internal/oracle"
)

// DefaultDPI is the rasterization resolution for OCR.
const DefaultDPI = 300

// Rasterizer renders every page of a PDF to PNG files with pdftoppm.
type Rasterizer struct {
	DPI int
	Run Runner
}

// Pages renders path into a temporary directory and returns the page
// images in page order. The caller must call cleanup.
func (r *Rasterizer) Pages(ctx context.Context, path string) (pages []string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "docnamer-pages-")
	if err != nil {
		return nil, func() {}, fmt.Errorf("create page directory: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	res := runner(r.Run)(ctx, "pdftoppm", "-r", strconv.Itoa(dpi), "-png", path, filepath.Join(dir, "page"))
	if res.Err != nil {
		cleanup()
		return nil, func() {}, toolError("pdftoppm", res)
	}

	pages, err = filepath.Glob(filepath.Join(dir, "page*.png"))
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	sortPages(pages)
	return pages, cleanup, nil
}

// sortPages orders pdftoppm output by page number. Zero padding of the
// number differs between poppler versions.
func sortPages(pages []string) {
	sort.Slice(pages, func(i, j int) bool {
		return pageNumber(pages[i]) < pageNumber(pages[j])
	})
}

func pageNumber(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), ".png")
	n, _ := strconv.Atoi(strings.TrimPrefix(base, "page-"))
	return n
}

// Tesseract OCRs every page with the tesseract CLI.
type Tesseract struct {
	Rasterizer Rasterizer
	Languages  string // e.g. "eng+nor"
	Run        Runner
}

// Extract implements TextExtractor.
func (t *Tesseract) Extract(ctx context.Context, path string) (string, error) {
	pages, cleanup, err := t.Rasterizer.Pages(ctx, path)
	if err != nil {
		return "", err
	}
	defer cleanup()

	langs := t.Languages
	if langs == "" {
		langs = "eng"
	}
	var b strings.Builder
	for _, page := range pages {
		res := runner(t.Run)(ctx, "tesseract", page, "-", "-l", langs)
		if res.Err != nil {
			return "", toolError("tesseract", res)
		}
		b.Write(res.Stdout)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Vision transcribes every page with the oracle's vision model.
type Vision struct {
	Rasterizer  Rasterizer
	Transcriber oracle.Transcriber
	Prompt      string
	// Usage accumulates token counts over all transcribed pages.
	Usage oracle.Usage
}

// Extract implements TextExtractor.
func (v *Vision) Extract(ctx context.Context, path string) (string, error) {
	pages, cleanup, err := v.Rasterizer.Pages(ctx, path)
	if err != nil {
		return "", err
	}
	defer cleanup()

	var b strings.Builder
	for _, page := range pages {
		png, err := os.ReadFile(page)
		if err != nil {
			return "", fmt.Errorf("read page image: %w", err)
		}
		text, usage, err := v.Transcriber.Transcribe(ctx, png, v.Prompt)
		v.Usage = v.Usage.Add(usage)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func runner(r Runner) Runner {
	if r == nil {
		return ExecRunner
	}
	return r
}
