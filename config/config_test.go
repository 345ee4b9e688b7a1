package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/n14asm/assembler/assemble"
	"github.com/n14asm/assembler/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_MatchesDeclaredLimits(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, 4096, cfg.Limits.MemoryCapacity)
	assert.Equal(t, 81, cfg.Limits.MaxLineLength)
	assert.Equal(t, 31, cfg.Limits.MaxSymbolLength)
	assert.Equal(t, ".as", cfg.Output.Extension)
	assert.False(t, cfg.Output.KeepExpanded)
	assert.True(t, cfg.Diagnostics.ColorOutput)
}

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestSaveTo_LoadFrom_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assembler.toml")

	cfg := config.DefaultConfig()
	cfg.Limits.MemoryCapacity = 8192
	cfg.Diagnostics.Verbose = true

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 8192, loaded.Limits.MemoryCapacity)
	assert.True(t, loaded.Diagnostics.Verbose)
	assert.Equal(t, cfg.Output.Extension, loaded.Output.Extension)
}

func TestSaveTo_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "assembler.toml")

	require.NoError(t, config.DefaultConfig().SaveTo(path))

	_, err := config.LoadFrom(path)
	require.NoError(t, err)
}

func TestAssembleLimits_MatchesLimitsSection(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Limits.MemoryCapacity = 2048

	want := assemble.Limits{MemoryCapacity: 2048, MaxLineLength: 81, MaxSymbolLength: 31}
	assert.Equal(t, want, cfg.AssembleLimits())
}

func TestLoadFrom_InvalidTOMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	content := "[limits]\nmemory_capacity = \"not a number\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := config.LoadFrom(path)
	assert.Error(t, err)
}
