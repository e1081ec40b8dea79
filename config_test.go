package opine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.InDelta(t, 0.8, cfg.FuzzyCutoff, 1e-9)
	assert.Equal(t, 4, cfg.ContextRadius)
	assert.Equal(t, 20, cfg.SnippetRadius)
	assert.InDelta(t, 0.1, cfg.NeutralGap, 1e-9)
	assert.Empty(t, cfg.LexiconPath)
}

func TestLoadConfig(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
fuzzy_cutoff: 0.9
context_radius: 6
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.9, cfg.FuzzyCutoff, 1e-9)
	assert.Equal(t, 6, cfg.ContextRadius)
	// Unset fields keep their defaults.
	assert.Equal(t, 20, cfg.SnippetRadius)
	assert.InDelta(t, 0.1, cfg.NeutralGap, 1e-9)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig("/does/not/exist.yaml")
	assert.Error(t, err)

	path := writeTempFile(t, "config.yaml", "fuzzy_cutoff: [nope")
	_, err = LoadConfig(path)
	assert.Error(t, err)

	path = writeTempFile(t, "config.yaml", "fuzzy_cutoff: 1.5")
	_, err = LoadConfig(path)
	assert.Error(t, err)

	path = writeTempFile(t, "config.yaml", "context_radius: -1")
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
