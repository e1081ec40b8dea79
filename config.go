package opine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the policy constants of the extraction and classification
// pipeline. The defaults reproduce the reporting behavior the rest of the
// system was calibrated against; treat them as tunables, not derived values.
type Config struct {
	// FuzzyCutoff is the minimum similarity for a fuzzy aspect-name match.
	FuzzyCutoff float64 `yaml:"fuzzy_cutoff"`
	// ContextRadius is the number of words kept either side of a matched
	// keyword when scoping sentiment to an aspect.
	ContextRadius int `yaml:"context_radius"`
	// SnippetRadius is the character radius of the fallback context snippet.
	SnippetRadius int `yaml:"snippet_radius"`
	// NeutralGap: when the margin between the positive and negative scores
	// is below this, the classifier reports NEUTRAL.
	NeutralGap float64 `yaml:"neutral_gap"`
	// LexiconPath optionally points at an external lexicon JSON file merged
	// over the built-in word list.
	LexiconPath string `yaml:"lexicon_path"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	return &Config{
		FuzzyCutoff:   0.8,
		ContextRadius: 4,
		SnippetRadius: 20,
		NeutralGap:    0.1,
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.FuzzyCutoff <= 0 || cfg.FuzzyCutoff > 1 {
		return nil, fmt.Errorf("fuzzy_cutoff must be in (0,1], got %v", cfg.FuzzyCutoff)
	}
	if cfg.ContextRadius < 0 || cfg.SnippetRadius < 0 {
		return nil, fmt.Errorf("context_radius and snippet_radius must be non-negative")
	}
	return cfg, nil
}
