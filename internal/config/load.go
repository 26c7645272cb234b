package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
// (DOCNAMER_MAX_TOKENS, DOCNAMER_ORACLE_PROVIDER, ...).
const EnvPrefix = "DOCNAMER"

// Load builds the runtime Config. Sources, highest priority first:
//  1. CLI flags that were set on the command line
//  2. Environment (DOCNAMER_*, then OPENAI_API_KEY / ANTHROPIC_API_KEY /
//     LLM_API_KEY / LLM_BASE_URL for the oracle), including a .env file
//     in the working directory
//  3. The config file at configPath, or ~/.config/docnamer/config.yaml
//  4. DefaultConfig
//
// flags may be nil. The result is not validated; call Validate.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	// Variables already in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}
	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if flags != nil {
		applyNegatedFlags(&cfg, flags)
	}
	applyEnvOverrides(&cfg)
	cfg.Dir = NormalizeDirArg(cfg.Dir)
	return &cfg, nil
}

// DefaultConfigPath returns ~/.config/docnamer/config.yaml, or "" when the
// home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "docnamer", "config.yaml")
}

// readConfigFile reads an explicit path (which must exist) or the default
// path (which may be missing).
func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can see nested keys
// during Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("dir", d.Dir)
	v.SetDefault("mode", string(d.Mode))

	v.SetDefault("extension", d.Extension)
	v.SetDefault("max_tokens", d.MaxTokens)
	v.SetDefault("estimator", d.Estimator)
	v.SetDefault("max_name_length", d.MaxNameLength)
	v.SetDefault("unusable", string(d.Unusable))
	v.SetDefault("dry_run", d.DryRun)

	v.SetDefault("ocr", string(d.OCR))
	v.SetDefault("ocr_languages", d.OCRLanguages)
	v.SetDefault("ocr_dpi", d.OCRDPI)

	v.SetDefault("verify_duplicates", d.VerifyDuplicates)

	v.SetDefault("oracle.provider", d.Oracle.Provider)
	v.SetDefault("oracle.api_key", d.Oracle.APIKey)
	v.SetDefault("oracle.base_url", d.Oracle.BaseURL)
	v.SetDefault("oracle.model", d.Oracle.Model)
	v.SetDefault("oracle.language", d.Oracle.Language)
	v.SetDefault("oracle.instructions", d.Oracle.Instructions)
	v.SetDefault("oracle.timeout_secs", d.Oracle.TimeoutSecs)
	v.SetDefault("oracle.max_output_tokens", d.Oracle.MaxOutputTokens)
	v.SetDefault("oracle.cache", d.Oracle.Cache)
	v.SetDefault("oracle.input_cost_per_1k", d.Oracle.InputCostPer1K)
	v.SetDefault("oracle.output_cost_per_1k", d.Oracle.OutputCostPer1K)

	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("color", string(d.ColorMode))
	v.SetDefault("log_file", d.LogFile)
}

// applyEnvOverrides fills the oracle credentials from the conventional
// provider variables when neither the config file nor DOCNAMER_* set them.
func applyEnvOverrides(cfg *Config) {
	if cfg.Oracle.APIKey == "" {
		switch cfg.Oracle.Provider {
		case "anthropic":
			cfg.Oracle.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = os.Getenv("LLM_API_KEY")
	}
	if cfg.Oracle.BaseURL == "" {
		cfg.Oracle.BaseURL = os.Getenv("LLM_BASE_URL")
	}
}
