// Package config loads and saves the assembler's optional TOML
// configuration file. A loaded Config is read exactly once at startup,
// in main, before any per-file worker goroutine starts (see root
// main.go's goroutine-per-file driver) - every worker then only reads
// it, so unlike the teacher's single-process emulator config, this one
// doubles as the frozen, concurrency-safe snapshot every worker shares.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/n14asm/assembler/assemble"
)

// Config holds every tunable the assembler reads at startup.
type Config struct {
	// Limits bounds the resource checks the two passes enforce.
	Limits struct {
		MemoryCapacity  int `toml:"memory_capacity"`
		MaxLineLength   int `toml:"max_line_length"`
		MaxSymbolLength int `toml:"max_symbol_length"`
	} `toml:"limits"`

	// Output holds output settings. The driver reads only Extension;
	// KeepExpanded is loaded and saved but nothing reads it, and no .am
	// intermediate file is ever written.
	Output struct {
		KeepExpanded bool   `toml:"keep_expanded"` // not read by the driver
		Extension    string `toml:"extension"`     // source file extension, default ".as"
	} `toml:"output"`

	// Diagnostics holds reporting preferences. They are loaded and saved
	// but the driver does not read them: verbosity comes from the -verbose
	// flag and diagnostics are printed uncolored.
	Diagnostics struct {
		Verbose     bool `toml:"verbose"`
		ColorOutput bool `toml:"color_output"`
	} `toml:"diagnostics"`
}

// DefaultConfig returns a configuration with the values spec.md names
// explicitly: 4096-word memory, 81-character lines (counting the newline),
// 31-character symbols.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Limits.MemoryCapacity = 4096
	cfg.Limits.MaxLineLength = 81
	cfg.Limits.MaxSymbolLength = 31

	cfg.Output.KeepExpanded = false
	cfg.Output.Extension = ".as"

	cfg.Diagnostics.Verbose = false
	cfg.Diagnostics.ColorOutput = true

	return cfg
}

// AssembleLimits converts the loaded Limits section into the value
// every per-file worker threads through assemble.File, so main doesn't
// hand-copy the three fields itself and every worker reads the exact
// same struct value rather than a fresh copy built at each call site.
func (c *Config) AssembleLimits() assemble.Limits {
	return assemble.Limits{
		MemoryCapacity:  c.Limits.MemoryCapacity,
		MaxLineLength:   c.Limits.MaxLineLength,
		MaxSymbolLength: c.Limits.MaxSymbolLength,
	}
}

const configDirName = "n14asm"
const configFileName = "assembler.toml"

// configDir resolves the platform-specific directory holding the config
// file, without creating it; "" means fall back to the working directory.
func configDir() string {
	switch runtime.GOOS {
	case "windows":
		dir := os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(dir, configDirName)

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(homeDir, ".config", configDirName)

	default:
		return ""
	}
}

// GetConfigPath returns the platform-specific config file path, creating
// its parent directory if needed; it falls back to a bare filename in
// the working directory when the platform directory can't be resolved
// or created.
func GetConfigPath() string {
	dir := configDir()
	if dir == "" {
		return configFileName
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return configFileName
	}
	return filepath.Join(dir, configFileName)
}

// Load loads configuration from the default config file, falling back to
// DefaultConfig when no file is present.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file, creating its parent
// directory if needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
