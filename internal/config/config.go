// Package config holds runtime configuration: defaults, config file and
// environment loading, CLI flag binding, and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// --- Enum types for validated string fields ---

// Mode selects what a run does with the target directory.
type Mode string

const (
	ModeRename     Mode = "rename"     // Ask the oracle for names and rename (default).
	ModeDuplicates Mode = "duplicates" // Report byte-identical files.
)

// UnusablePolicy decides what happens when the oracle suggestion is unusable
// (empty, "unknown", "empty").
type UnusablePolicy string

const (
	UnusableFallback UnusablePolicy = "fallback" // Rename to empty_file_<timestamp> (default).
	UnusableSkip     UnusablePolicy = "skip"     // Leave the file alone.
)

// OCRBackend selects the fallback used when a document has no text layer.
type OCRBackend string

const (
	OCRTesseract OCRBackend = "tesseract" // pdftoppm + tesseract (default).
	OCRVision    OCRBackend = "vision"    // pdftoppm + oracle vision model.
	OCRNone      OCRBackend = "none"      // No fallback; blank documents get the empty-content marker.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Estimator names accepted by budget.NewEstimator.
const (
	EstimatorCL100K = "cl100k_base"
	EstimatorBytes  = "bytes"
)

// OracleConfig configures the naming oracle backend.
type OracleConfig struct {
	Provider        string  `mapstructure:"provider" validate:"required"`
	APIKey          string  `mapstructure:"api_key"`
	BaseURL         string  `mapstructure:"base_url"`
	Model           string  `mapstructure:"model"`
	Language        string  `mapstructure:"language" validate:"required"`
	Instructions    string  `mapstructure:"instructions"` // Overrides the language default when set.
	TimeoutSecs     int     `mapstructure:"timeout_secs" validate:"gte=0"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" validate:"gte=0"`
	Cache           bool    `mapstructure:"cache"`
	InputCostPer1K  float64 `mapstructure:"input_cost_per_1k" validate:"gte=0"`
	OutputCostPer1K float64 `mapstructure:"output_cost_per_1k" validate:"gte=0"`
}

// Config holds all runtime settings. It is populated by [Load] from
// [DefaultConfig], the config file, the environment and CLI flags, then
// passed (by pointer) to packages that need it.
type Config struct {
	// Target (set from the positional arg or --path).
	Dir  string `mapstructure:"dir"`
	Mode Mode   `mapstructure:"mode" validate:"oneof=rename duplicates"`

	// Rename pipeline.
	Extension     string         `mapstructure:"extension" validate:"required,startswith=."`
	MaxTokens     int            `mapstructure:"max_tokens" validate:"gt=0"` // Default: 15000.
	Estimator     string         `mapstructure:"estimator" validate:"oneof=cl100k_base bytes"`
	MaxNameLength int            `mapstructure:"max_name_length" validate:"gt=0,lte=200"` // Default: 100.
	Unusable      UnusablePolicy `mapstructure:"unusable" validate:"oneof=fallback skip"`
	DryRun        bool           `mapstructure:"dry_run"`

	// Extraction.
	OCR          OCRBackend `mapstructure:"ocr" validate:"oneof=tesseract vision none"`
	OCRLanguages string     `mapstructure:"ocr_languages"` // Default: "eng+nor".
	OCRDPI       int        `mapstructure:"ocr_dpi" validate:"gt=0,lte=1200"`

	// Duplicate scan.
	VerifyDuplicates bool `mapstructure:"verify_duplicates"`

	// Naming oracle.
	Oracle OracleConfig `mapstructure:"oracle"`

	// Display and logging.
	Verbose   bool      `mapstructure:"verbose"`
	ColorMode ColorMode `mapstructure:"color" validate:"oneof=auto always never"`
	LogFile   string    `mapstructure:"log_file"`
}

// DefaultConfig returns a Config with all defaults. The values for budget,
// name length, OCR languages and oracle pricing match the legacy renamer
// scripts.
func DefaultConfig() Config {
	return Config{
		Mode:          ModeRename,
		Extension:     ".pdf",
		MaxTokens:     15000,
		Estimator:     EstimatorCL100K,
		MaxNameLength: 100,
		Unusable:      UnusableFallback,
		OCR:           OCRTesseract,
		OCRLanguages:  "eng+nor",
		OCRDPI:        300,
		Oracle: OracleConfig{
			Provider:        "openai",
			Language:        "no",
			MaxOutputTokens: 300,
			Cache:           true,
			InputCostPer1K:  0.005,
			OutputCostPer1K: 0.015,
		},
		ColorMode: ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints (enums, ranges) and that a target
// directory was given.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return describe(verrs[0])
		}
		return err
	}
	if _, ok := Instructions(c.Oracle.Language); !ok && c.Oracle.Instructions == "" {
		return fmt.Errorf("invalid oracle language %q (use %s)", c.Oracle.Language, strings.Join(Languages(), ", "))
	}
	if c.Dir == "" {
		return errors.New("need a target directory")
	}
	return nil
}

// describe turns a validator failure into a message naming the config key.
func describe(fe validator.FieldError) error {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("invalid %s %q (use %s)", field, fmt.Sprint(fe.Value()), strings.ReplaceAll(fe.Param(), " ", " | "))
	case "required":
		return fmt.Errorf("%s must not be empty", field)
	case "startswith":
		return fmt.Errorf("invalid %s %q (must start with %q)", field, fmt.Sprint(fe.Value()), fe.Param())
	default:
		return fmt.Errorf("invalid %s %v (%s %s)", field, fe.Value(), fe.Tag(), fe.Param())
	}
}

// ValidateDir ensures dir exists and is a directory.
func ValidateDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("directory not found: %s", dir)
	}
	if !fi.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	return nil
}
