package config

// This file registers CLI flags and maps them onto config keys.
// Flags are grouped into global (every command), rename and duplicates.
// Negated flags (--no-color, --no-cache) are applied after Unmarshal so
// lower-priority sources hold unless the user passes the flag.

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps flag names to the config keys they override.
var flagKeys = map[string]string{
	"verbose":    "verbose",
	"log":        "log_file",
	"path":       "dir",
	"dry-run":    "dry_run",
	"provider":   "oracle.provider",
	"model":      "oracle.model",
	"base-url":   "oracle.base_url",
	"lang":       "oracle.language",
	"timeout":    "oracle.timeout_secs",
	"ext":        "extension",
	"max-tokens": "max_tokens",
	"estimator":  "estimator",
	"max-len":    "max_name_length",
	"unusable":   "unusable",
	"ocr":        "ocr",
	"verify":     "verify_duplicates",
}

// RegisterGlobalFlags registers -c/--config, -v/--verbose, --color,
// --no-color and -l/--log.
func RegisterGlobalFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "Config file (default ~/.config/docnamer/config.yaml)")
	fs.BoolP("verbose", "v", false, "Verbose output (oracle tokens, time and cost)")
	fs.Bool("color", false, "Force colored output")
	fs.Bool("no-color", false, "Disable colored output")
	fs.StringP("log", "l", "", "Write a JSON log to this file (rotated)")
}

// RegisterRenameFlags registers the flags of the rename command.
func RegisterRenameFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()
	fs.StringP("path", "p", "", "Directory to process (alternative to the positional argument)")
	fs.BoolP("dry-run", "n", false, "Show what would be renamed without renaming")
	fs.String("provider", d.Oracle.Provider, fmt.Sprintf("Naming oracle provider (%s, or any OpenAI-compatible name with --base-url)", joinNames(Providers())))
	fs.String("model", "", "Oracle model (default: provider default)")
	fs.String("base-url", "", "Base URL for an OpenAI-compatible provider")
	fs.String("lang", d.Oracle.Language, fmt.Sprintf("Naming instruction language (%s)", joinNames(Languages())))
	fs.Int("timeout", d.Oracle.TimeoutSecs, "Per-request oracle timeout in seconds (0 = none)")
	fs.Bool("no-cache", false, "Do not reuse suggestions for identical content")
	fs.String("ext", d.Extension, "File extension to rename")
	fs.Int("max-tokens", d.MaxTokens, "Token budget for text sent to the oracle")
	fs.String("estimator", d.Estimator, "Token estimator: cl100k_base | bytes")
	fs.Int("max-len", d.MaxNameLength, "Maximum length of a generated name")
	fs.String("unusable", string(d.Unusable), "When no name is found: fallback (empty_file_<time>) | skip")
	fs.String("ocr", string(d.OCR), "OCR fallback for image-only documents: tesseract | vision | none")
}

// RegisterDuplicateFlags registers the flags of the duplicates command.
func RegisterDuplicateFlags(fs *pflag.FlagSet) {
	fs.Bool("verify", false, "Confirm duplicates with a full byte comparison")
}

// bindFlags binds every registered flag that has a config key.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// applyNegatedFlags applies --color, --no-color and --no-cache when set.
func applyNegatedFlags(cfg *Config, fs *pflag.FlagSet) {
	if changed(fs, "color") {
		cfg.ColorMode = ColorAlways
	}
	if changed(fs, "no-color") {
		cfg.ColorMode = ColorNever
	}
	if changed(fs, "no-cache") {
		cfg.Oracle.Cache = false
	}
}

func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed && f.Value.String() == "true"
}

func joinNames(names []string) string { return strings.Join(names, " | ") }
