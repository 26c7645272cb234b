package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/home/me/receipts", "/home/me/receipts"},
		{"single trailing slash", "/home/me/receipts/", "/home/me/receipts"},
		{"multiple trailing slashes", "/home/me/receipts///", "/home/me/receipts"},
		{"root path", "/", "/"},
		{"relative path", "receipts", "receipts"},
		{"relative with slash", "receipts/", "receipts"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirArg(tt.in))
		})
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Dir = "/tmp/receipts"
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NeedsDir(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target directory")
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unusable skip", func(c *Config) { c.Unusable = UnusableSkip }, ""},
		{"unusable bogus", func(c *Config) { c.Unusable = "ignore" }, "Unusable"},
		{"ocr vision", func(c *Config) { c.OCR = OCRVision }, ""},
		{"ocr bogus", func(c *Config) { c.OCR = "easyocr" }, "OCR"},
		{"mode duplicates", func(c *Config) { c.Mode = ModeDuplicates }, ""},
		{"mode bogus", func(c *Config) { c.Mode = "merge" }, "Mode"},
		{"color never", func(c *Config) { c.ColorMode = ColorNever }, ""},
		{"color bogus", func(c *Config) { c.ColorMode = "rainbow" }, "ColorMode"},
		{"zero budget", func(c *Config) { c.MaxTokens = 0 }, "MaxTokens"},
		{"negative budget", func(c *Config) { c.MaxTokens = -1 }, "MaxTokens"},
		{"estimator bytes", func(c *Config) { c.Estimator = EstimatorBytes }, ""},
		{"estimator bogus", func(c *Config) { c.Estimator = "p50k" }, "Estimator"},
		{"extension without dot", func(c *Config) { c.Extension = "pdf" }, "Extension"},
		{"empty extension", func(c *Config) { c.Extension = "" }, "Extension"},
		{"name length too long", func(c *Config) { c.MaxNameLength = 300 }, "MaxNameLength"},
		{"empty provider", func(c *Config) { c.Oracle.Provider = "" }, "Oracle.Provider"},
		{"negative timeout", func(c *Config) { c.Oracle.TimeoutSecs = -1 }, "Oracle.TimeoutSecs"},
		{"english instructions", func(c *Config) { c.Oracle.Language = "en" }, ""},
		{"unknown language", func(c *Config) { c.Oracle.Language = "de" }, "oracle language"},
		{"unknown language with override", func(c *Config) {
			c.Oracle.Language = "de"
			c.Oracle.Instructions = "Nenne die Datei."
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.pdf")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.NoError(t, ValidateDir(dir))
	assert.ErrorContains(t, ValidateDir(file), "not a directory")
	assert.ErrorContains(t, ValidateDir(filepath.Join(dir, "missing")), "not found")
}

func TestBuiltinDefaults(t *testing.T) {
	no, ok := Instructions("no")
	require.True(t, ok)
	assert.Contains(t, no, "YYYY-MM-DD")
	_, ok = Instructions("en")
	assert.True(t, ok)
	assert.Equal(t, []string{"en", "no"}, Languages())

	openai, ok := Provider("openai")
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", openai.DefaultModel)
	assert.True(t, openai.Vision)
	assert.Contains(t, Providers(), "anthropic")
	assert.Equal(t, "Extract all text from this image.", TranscribePrompt())
}

func TestOracleResolution(t *testing.T) {
	o := OracleConfig{Provider: "deepseek", Language: "no"}
	assert.Equal(t, "deepseek-chat", o.ResolvedModel())
	assert.Equal(t, "https://api.deepseek.com/v1", o.ResolvedBaseURL())

	o.Model = "deepseek-reasoner"
	o.BaseURL = "http://proxy.local/v1"
	assert.Equal(t, "deepseek-reasoner", o.ResolvedModel())
	assert.Equal(t, "http://proxy.local/v1", o.ResolvedBaseURL())

	o.Instructions = "custom"
	assert.Equal(t, "custom", o.NamingInstructions())
}

// isolate points HOME at an empty dir and clears oracle env vars.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "LLM_API_KEY", "LLM_BASE_URL",
		"DOCNAMER_MAX_TOKENS", "DOCNAMER_ORACLE_PROVIDER", "DOCNAMER_ORACLE_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("docnamer", pflag.ContinueOnError)
	RegisterGlobalFlags(fs)
	RegisterRenameFlags(fs)
	RegisterDuplicateFlags(fs)
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	want := DefaultConfig()
	assert.Equal(t, want.MaxTokens, cfg.MaxTokens)
	assert.Equal(t, want.Unusable, cfg.Unusable)
	assert.Equal(t, want.Oracle.Provider, cfg.Oracle.Provider)
	assert.Equal(t, want.OCRLanguages, cfg.OCRLanguages)
	assert.True(t, cfg.Oracle.Cache)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_tokens: 8000
unusable: skip
oracle:
  provider: anthropic
  model: claude-from-file
`), 0o644))

	t.Setenv("DOCNAMER_MAX_TOKENS", "9000")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--model", "claude-from-flag", "-n"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.MaxTokens, "env beats file")
	assert.Equal(t, UnusableSkip, cfg.Unusable, "file beats default")
	assert.Equal(t, "anthropic", cfg.Oracle.Provider, "unset flag does not override file")
	assert.Equal(t, "claude-from-flag", cfg.Oracle.Model, "flag beats file")
	assert.True(t, cfg.DryRun)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DOCNAMER_MAX_TOKENS", "9000")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--max-tokens", "1200", "--path", "/tmp/in/"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.MaxTokens)
	assert.Equal(t, "/tmp/in", cfg.Dir)
}

func TestLoad_NegatedFlags(t *testing.T) {
	isolate(t)
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--no-color", "--no-cache"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.False(t, cfg.Oracle.Cache)
}

func TestLoad_APIKeyFromProviderEnv(t *testing.T) {
	isolate(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sk-openai", cfg.Oracle.APIKey)

	t.Setenv("DOCNAMER_ORACLE_PROVIDER", "anthropic")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", cfg.Oracle.APIKey)
}

func TestLoad_GenericLLMEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DOCNAMER_ORACLE_PROVIDER", "ollama")
	t.Setenv("LLM_API_KEY", "local")
	t.Setenv("LLM_BASE_URL", "http://gpu-box:11434/v1")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Oracle.APIKey)
	assert.Equal(t, "http://gpu-box:11434/v1", cfg.Oracle.BaseURL)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}
