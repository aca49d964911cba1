// Package config loads layered configuration for llmx: built-in defaults,
// then a user config file, then a project-local config file, then
// environment variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete llmx configuration.
type Config struct {
	Version int          `yaml:"version" json:"version"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Paths   PathsConfig  `yaml:"paths" json:"paths"`
	Ingest  IngestConfig `yaml:"ingest" json:"ingest"`
	Search  SearchConfig `yaml:"search" json:"search"`
	Server  ServerConfig `yaml:"server" json:"server"`
}

// StorageConfig configures where indexes live on disk.
type StorageConfig struct {
	// Dir is the storage directory. Default "${HOME}/.llmx/indexes",
	// overridable by the LLMX_STORAGE_DIR environment variable or an
	// explicit CLI flag (which takes precedence over both).
	Dir string `yaml:"dir" json:"dir"`
}

// PathsConfig configures which paths a host file-walker should include or
// exclude before calling index(). llmx's core never walks a filesystem
// itself, and cmd/llmx passes its path arguments through unfiltered; no
// code in this module reads these lists.
type PathsConfig struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// IngestConfig mirrors the recognized ingest options. The handler does not
// read them: index() starts from ingest.DefaultOptions() and applies only
// the overrides in its request. They never change the fixed algorithmic
// constants (BM25 k1/b, RRF k, tokenizer thresholds).
type IngestConfig struct {
	ChunkTargetChars int `yaml:"chunk_target_chars" json:"chunk_target_chars"`
	ChunkMaxChars    int `yaml:"chunk_max_chars" json:"chunk_max_chars"`
	MaxFileBytes     int `yaml:"max_file_bytes" json:"max_file_bytes"`
	MaxTotalBytes    int `yaml:"max_total_bytes" json:"max_total_bytes"`
	MaxChunksPerFile int `yaml:"max_chunks_per_file" json:"max_chunks_per_file"`
}

// SearchConfig configures default search behavior. Strategy and limits are
// tunable; the RRF constant and BM25 constants are not (they are fixed by
// the scorer implementations, not read from here).
type SearchConfig struct {
	DefaultLimit     int    `yaml:"default_limit" json:"default_limit"`
	DefaultMaxTokens int    `yaml:"default_max_tokens" json:"default_max_tokens"`
	Strategy         string `yaml:"strategy" json:"strategy"` // "lexical" | "vector" | "hybrid"
	LegacyLinearFuse bool   `yaml:"legacy_linear_fuse" json:"legacy_linear_fuse"`
}

// ServerConfig configures the MCP adapter transport.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// NewConfig returns the built-in defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{Dir: DefaultStorageDir()},
		Paths: PathsConfig{
			Exclude: []string{".git", "node_modules", "vendor", "dist", "build"},
		},
		Ingest: IngestConfig{
			ChunkTargetChars: 4000,
			ChunkMaxChars:    8000,
			MaxFileBytes:     10 * 1024 * 1024,
			MaxTotalBytes:    50 * 1024 * 1024,
			MaxChunksPerFile: 2000,
		},
		Search: SearchConfig{
			DefaultLimit:     10,
			DefaultMaxTokens: 4000,
			Strategy:         "hybrid",
			LegacyLinearFuse: false,
		},
		Server: ServerConfig{
			Transport: "stdio",
			LogLevel:  "info",
		},
	}
}

// DefaultStorageDir returns "${HOME}/.llmx/indexes", falling back to the
// temp directory when HOME cannot be resolved.
func DefaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".llmx", "indexes")
	}
	return filepath.Join(home, ".llmx", "indexes")
}

// GetUserConfigDir returns the XDG-style user config directory for llmx.
func GetUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "llmx")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "llmx")
	}
	return filepath.Join(home, ".config", "llmx")
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(GetUserConfigDir(), "config.yaml")
}

// Load builds the layered Config for a project rooted at dir: built-in
// defaults, then the user config file (if present), then a project-local
// ".llmx.yaml"/".llmx.yml" (if present), then LLMX_* environment variable
// overrides. A missing optional layer is skipped; a layer that exists but
// cannot be read or decoded makes Load return that error.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}

	for _, name := range []string{".llmx.yaml", ".llmx.yml"} {
		projectPath := filepath.Join(dir, name)
		if fileExists(projectPath) {
			if err := cfg.loadYAML(projectPath); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return err
	}
	c.mergeWith(&loaded)
	return nil
}

// mergeWith overlays non-zero fields from other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Storage.Dir != "" {
		c.Storage.Dir = other.Storage.Dir
	}
	if len(other.Paths.Include) > 0 {
		c.Paths.Include = other.Paths.Include
	}
	if len(other.Paths.Exclude) > 0 {
		c.Paths.Exclude = other.Paths.Exclude
	}
	if other.Ingest.ChunkTargetChars > 0 {
		c.Ingest.ChunkTargetChars = other.Ingest.ChunkTargetChars
	}
	if other.Ingest.ChunkMaxChars > 0 {
		c.Ingest.ChunkMaxChars = other.Ingest.ChunkMaxChars
	}
	if other.Ingest.MaxFileBytes > 0 {
		c.Ingest.MaxFileBytes = other.Ingest.MaxFileBytes
	}
	if other.Ingest.MaxTotalBytes > 0 {
		c.Ingest.MaxTotalBytes = other.Ingest.MaxTotalBytes
	}
	if other.Ingest.MaxChunksPerFile > 0 {
		c.Ingest.MaxChunksPerFile = other.Ingest.MaxChunksPerFile
	}
	if other.Search.DefaultLimit > 0 {
		c.Search.DefaultLimit = other.Search.DefaultLimit
	}
	if other.Search.DefaultMaxTokens > 0 {
		c.Search.DefaultMaxTokens = other.Search.DefaultMaxTokens
	}
	if other.Search.Strategy != "" {
		c.Search.Strategy = other.Search.Strategy
	}
	if other.Server.Transport != "" {
		c.Server.Transport = other.Server.Transport
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
}

// applyEnvOverrides reads LLMX_* environment variables over the loaded
// config. LLMX_STORAGE_DIR is the one spec.md names explicitly.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LLMX_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("LLMX_SEARCH_STRATEGY"); v != "" {
		c.Search.Strategy = v
	}
	if v := os.Getenv("LLMX_SEARCH_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.DefaultLimit = n
		}
	}
	if v := os.Getenv("LLMX_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = strings.ToLower(v)
	}
}

// Validate checks the config for internally inconsistent values.
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		c.Storage.Dir = DefaultStorageDir()
	}
	switch c.Search.Strategy {
	case "lexical", "vector", "hybrid":
	default:
		c.Search.Strategy = "hybrid"
	}
	if c.Ingest.ChunkMaxChars < c.Ingest.ChunkTargetChars {
		c.Ingest.ChunkMaxChars = c.Ingest.ChunkTargetChars * 2
	}
	return nil
}

// WriteYAML writes the config to path as YAML.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
