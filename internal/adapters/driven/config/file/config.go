// Package file loads the TOML configuration file and resolves it into
// the typed Config injected into adapters and services.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/campuskit/solrag/internal/chunker"
)

// Provider kinds.
const (
	ProviderOpenAI   = "openai"
	ProviderOllama   = "ollama"
	ProviderDisabled = "disabled"
)

// Extractor kinds. SolrTika extracts through the index's own
// update/extract handler; Tika talks to a standalone Tika server.
const (
	ExtractorSolrTika = "solrtika"
	ExtractorTika     = "tika"
	ExtractorDisabled = "disabled"
)

// Config is the full application configuration.
type Config struct {
	Solr         SolrConfig         `toml:"solr"`
	Provider     ProviderConfig     `toml:"provider"`
	Extractor    ExtractorConfig    `toml:"extractor"`
	FileIndexing FileIndexingConfig `toml:"fileindexing"`
	Chunking     ChunkingConfig     `toml:"chunking"`
	Cache        CacheConfig        `toml:"cache"`
}

// SolrConfig holds index connection settings.
type SolrConfig struct {
	Hostname       string `toml:"hostname"`
	Port           int    `toml:"port"`
	Secure         bool   `toml:"secure"`
	Index          string `toml:"index"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the configured request timeout.
func (c SolrConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProviderConfig selects and tunes the embedding provider.
type ProviderConfig struct {
	Kind              string  `toml:"kind"`
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	Model             string  `toml:"model"`
	Dimensions        int     `toml:"dimensions"`
	MaxContext        int     `toml:"max_context"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ExtractorConfig selects the file content extractor.
type ExtractorConfig struct {
	Kind string `toml:"kind"`
	URL  string `toml:"url"`
}

// FileIndexingConfig controls attached-file indexing.
type FileIndexingConfig struct {
	Enabled   bool  `toml:"enabled"`
	MaxFileKB int64 `toml:"max_file_kb"`
}

// MaxFileBytes returns the eligibility ceiling in bytes; 0 means no
// limit.
func (c FileIndexingConfig) MaxFileBytes() int64 {
	return c.MaxFileKB * 1024
}

// ChunkingConfig tunes content chunking.
type ChunkingConfig struct {
	Size int `toml:"size"`
}

// CacheConfig controls the embedding cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// DefaultPath returns the default config file location,
// ~/.solrag/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".solrag", "config.toml"), nil
}

// Load reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := defaults()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Solr: SolrConfig{
			Hostname:       "localhost",
			Port:           8983,
			Index:          "solrag",
			TimeoutSeconds: 30,
		},
		Provider: ProviderConfig{
			Kind: ProviderDisabled,
		},
		Extractor: ExtractorConfig{
			Kind: ExtractorSolrTika,
		},
		FileIndexing: FileIndexingConfig{
			MaxFileKB: 2048,
		},
		Chunking: ChunkingConfig{
			Size: chunker.DefaultChunkSize,
		},
	}
}

func (c *Config) validate() error {
	switch c.Provider.Kind {
	case ProviderOpenAI, ProviderOllama, ProviderDisabled:
	default:
		return fmt.Errorf("unknown provider kind %q", c.Provider.Kind)
	}
	switch c.Extractor.Kind {
	case ExtractorSolrTika, ExtractorTika, ExtractorDisabled:
	default:
		return fmt.Errorf("unknown extractor kind %q", c.Extractor.Kind)
	}
	if c.Solr.Index == "" {
		return fmt.Errorf("solr.index must not be empty")
	}
	return nil
}
