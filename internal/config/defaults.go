package config

import (
	_ "embed"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ProviderDefaults holds the default base URL and model for a provider.
type ProviderDefaults struct {
	BaseURL      string `yaml:"base_url"`
	DefaultModel string `yaml:"default_model"`
	Vision       bool   `yaml:"vision"`
}

type builtins struct {
	Providers    map[string]ProviderDefaults `yaml:"providers"`
	Instructions map[string]string           `yaml:"instructions"`
	Transcribe   string                      `yaml:"transcribe"`
}

var defaults builtins

func init() {
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		panic("config: embedded defaults.yaml: " + err.Error())
	}
}

// Provider returns the built-in defaults for a provider name.
func Provider(name string) (ProviderDefaults, bool) {
	d, ok := defaults.Providers[name]
	return d, ok
}

// Providers lists the built-in provider names, sorted.
func Providers() []string {
	return sortedKeys(defaults.Providers)
}

// Instructions returns the built-in naming instructions for a language code.
func Instructions(lang string) (string, bool) {
	s, ok := defaults.Instructions[lang]
	return s, ok
}

// Languages lists the language codes with built-in instructions, sorted.
func Languages() []string {
	return sortedKeys(defaults.Instructions)
}

// TranscribePrompt is the user prompt sent with page images for vision OCR.
func TranscribePrompt() string { return defaults.Transcribe }

// NamingInstructions returns the instructions the oracle receives: the
// configured override, or the built-in text for the configured language.
func (o *OracleConfig) NamingInstructions() string {
	if o.Instructions != "" {
		return o.Instructions
	}
	s, _ := Instructions(o.Language)
	return s
}

// ResolvedModel returns the configured model or the provider default.
func (o *OracleConfig) ResolvedModel() string {
	if o.Model != "" {
		return o.Model
	}
	d, _ := Provider(o.Provider)
	return d.DefaultModel
}

// ResolvedBaseURL returns the configured base URL or the provider default.
func (o *OracleConfig) ResolvedBaseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}
	d, _ := Provider(o.Provider)
	return d.BaseURL
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
