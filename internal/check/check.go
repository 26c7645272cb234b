// Package check provides system diagnostics (the check command) and
// pre-pipeline dependency validation (CheckDeps) for poppler, tesseract
// and the naming oracle credentials.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/backmassage/docnamer/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool or setting is missing.
var (
	ErrPdftotextNotFound = errors.New("pdftotext not found on PATH (install poppler-utils)")
	ErrPdftoppmNotFound  = errors.New("pdftoppm not found on PATH (install poppler-utils)")
	ErrTesseractNotFound = errors.New("tesseract not found on PATH")
	ErrNoAPIKey          = errors.New("no API key for the naming oracle (set OPENAI_API_KEY, ANTHROPIC_API_KEY or LLM_API_KEY)")
	ErrNoModel           = errors.New("no model for the naming oracle (set --model)")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Replaced in tests.
var (
	lookPath = exec.LookPath
	output   = func(name string, args ...string) ([]byte, error) {
		return exec.Command(name, args...).CombinedOutput()
	}
)

// RunCheck prints the availability of every external tool and the
// resolved oracle settings. It is informational only and does not stop on
// failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkTool(log, "pdftotext", "-v")
	checkTool(log, "pdftoppm", "-v")
	checkTool(log, "tesseract", "--version")
	checkTesseractLanguages(log, cfg.OCRLanguages)
	checkOracle(cfg, log)
}

// checkTool verifies name is on PATH and logs its version line.
func checkTool(log Logger, name string, versionFlag string) {
	if _, err := lookPath(name); err != nil {
		log.Error("%s not found", name)
		return
	}
	out, err := output(name, versionFlag)
	if err != nil {
		log.Warn("%s found but %s failed: %v", name, versionFlag, err)
		return
	}
	log.Success("%s: %s", name, firstLine(string(out)))
}

// checkTesseractLanguages reports OCR languages that have no traineddata.
func checkTesseractLanguages(log Logger, langs string) {
	if _, err := lookPath("tesseract"); err != nil || langs == "" {
		return
	}
	out, err := output("tesseract", "--list-langs")
	if err != nil {
		log.Warn("Could not list tesseract languages: %v", err)
		return
	}
	installed := make(map[string]bool)
	for _, line := range strings.Split(string(out), "\n") {
		installed[strings.TrimSpace(line)] = true
	}
	for _, lang := range strings.Split(langs, "+") {
		if installed[lang] {
			log.Success("OCR language: %s", lang)
		} else {
			log.Warn("OCR language %s is not installed", lang)
		}
	}
}

func checkOracle(cfg *config.Config, log Logger) {
	o := &cfg.Oracle
	log.Info("Oracle: %s, model %s", o.Provider, o.ResolvedModel())
	if base := o.ResolvedBaseURL(); base != "" {
		log.Info("  Base URL: %s", base)
	}
	if err := checkOracleConfig(o); err != nil {
		log.Error("  %v", err)
	} else if o.APIKey != "" {
		log.Success("  API key: %s", maskKey(o.APIKey))
	}
	log.Info("  Language: %s", o.Language)
	log.Info("Known providers: %s", strings.Join(config.Providers(), ", "))
}

// CheckDeps is the pre-pipeline validation for rename mode: pdftotext must
// be on PATH, the configured OCR backend's tools must be present and the
// oracle must have credentials. Returns a sentinel error on failure.
func CheckDeps(cfg *config.Config) error {
	if _, err := lookPath("pdftotext"); err != nil {
		return ErrPdftotextNotFound
	}

	switch cfg.OCR {
	case config.OCRTesseract:
		if _, err := lookPath("pdftoppm"); err != nil {
			return ErrPdftoppmNotFound
		}
		if _, err := lookPath("tesseract"); err != nil {
			return ErrTesseractNotFound
		}
	case config.OCRVision:
		if _, err := lookPath("pdftoppm"); err != nil {
			return ErrPdftoppmNotFound
		}
	}

	return checkOracleConfig(&cfg.Oracle)
}

// checkOracleConfig requires a model (providers outside the built-in list
// have no default) and an API key unless the provider points at a base URL.
func checkOracleConfig(o *config.OracleConfig) error {
	if o.ResolvedModel() == "" {
		return ErrNoModel
	}
	if o.APIKey == "" && o.ResolvedBaseURL() == "" {
		return ErrNoAPIKey
	}
	return nil
}

// maskKey shows only the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return s
}
