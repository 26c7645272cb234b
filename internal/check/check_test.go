package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/backmassage/docnamer/internal/config"
)

// fakePath makes only the named tools resolvable for the duration of t.
func fakePath(t *testing.T, tools ...string) {
	t.Helper()
	found := make(map[string]bool)
	for _, name := range tools {
		found[name] = true
	}
	origLook, origOut := lookPath, output
	lookPath = func(name string) (string, error) {
		if found[name] {
			return "/usr/bin/" + name, nil
		}
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	output = func(name string, args ...string) ([]byte, error) {
		if name == "tesseract" && len(args) > 0 && args[0] == "--list-langs" {
			return []byte("List of available languages (2):\neng\nosd\n"), nil
		}
		return []byte(fmt.Sprintf("%s version 24.02.0\nCopyright\n", name)), nil
	}
	t.Cleanup(func() { lookPath, output = origLook, origOut })
}

func rename(ocr config.OCRBackend) *config.Config {
	cfg := config.DefaultConfig()
	cfg.OCR = ocr
	cfg.Oracle.APIKey = "sk-test-1234567890"
	return &cfg
}

func TestCheckDeps(t *testing.T) {
	tests := []struct {
		name  string
		tools []string
		cfg   func() *config.Config
		want  error
	}{
		{"all present", []string{"pdftotext", "pdftoppm", "tesseract"}, func() *config.Config { return rename(config.OCRTesseract) }, nil},
		{"no pdftotext", []string{"pdftoppm", "tesseract"}, func() *config.Config { return rename(config.OCRNone) }, ErrPdftotextNotFound},
		{"ocr disabled needs no rasterizer", []string{"pdftotext"}, func() *config.Config { return rename(config.OCRNone) }, nil},
		{"tesseract missing", []string{"pdftotext", "pdftoppm"}, func() *config.Config { return rename(config.OCRTesseract) }, ErrTesseractNotFound},
		{"pdftoppm missing", []string{"pdftotext", "tesseract"}, func() *config.Config { return rename(config.OCRTesseract) }, ErrPdftoppmNotFound},
		{"vision needs pdftoppm only", []string{"pdftotext", "pdftoppm"}, func() *config.Config { return rename(config.OCRVision) }, nil},
		{"vision without pdftoppm", []string{"pdftotext"}, func() *config.Config { return rename(config.OCRVision) }, ErrPdftoppmNotFound},
		{"no api key", []string{"pdftotext"}, func() *config.Config {
			c := rename(config.OCRNone)
			c.Oracle.APIKey = ""
			return c
		}, ErrNoAPIKey},
		{"local server needs no key", []string{"pdftotext"}, func() *config.Config {
			c := rename(config.OCRNone)
			c.Oracle.APIKey = ""
			c.Oracle.Provider = "ollama"
			return c
		}, nil},
		{"custom provider needs a model", []string{"pdftotext"}, func() *config.Config {
			c := rename(config.OCRNone)
			c.Oracle.Provider = "together"
			return c
		}, ErrNoModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakePath(t, tt.tools...)
			err := CheckDeps(tt.cfg())
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestRunCheck(t *testing.T) {
	fakePath(t, "pdftotext", "tesseract")
	log := &recordLogger{}

	RunCheck(rename(config.OCRTesseract), log)

	out := log.String()
	assert.Contains(t, out, "SUCCESS pdftotext: pdftotext version 24.02.0")
	assert.Contains(t, out, "ERROR pdftoppm not found")
	assert.Contains(t, out, "SUCCESS OCR language: eng")
	assert.Contains(t, out, "WARN OCR language nor is not installed")
	assert.Contains(t, out, "SUCCESS   API key: ********7890")
	assert.NotContains(t, out, "sk-test")
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", maskKey("abcd"))
	assert.Equal(t, "********wxyz", maskKey("sk-abcdefghijklmnopqrstuvwxyz"))
}

// recordLogger collects "LEVEL message" lines.
type recordLogger struct {
	lines []string
}

func (l *recordLogger) add(level, format string, args ...interface{}) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *recordLogger) Info(f string, a ...interface{})    { l.add("INFO", f, a...) }
func (l *recordLogger) Success(f string, a ...interface{}) { l.add("SUCCESS", f, a...) }
func (l *recordLogger) Warn(f string, a ...interface{})    { l.add("WARN", f, a...) }
func (l *recordLogger) Error(f string, a ...interface{})   { l.add("ERROR", f, a...) }
func (l *recordLogger) Debug(v bool, f string, a ...interface{}) {
	if v {
		l.add("DEBUG", f, a...)
	}
}

func (l *recordLogger) String() string { return strings.Join(l.lines, "\n") }
