// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	yaml "go.yaml.in/yaml/v4"

	"github.com/jonathan/skillgap/internal/fetch"
)

// Default file names looked up inside DataDir.
const (
	DefaultAliasesFile      = "skill_aliases.json"
	DefaultCatalogFile      = "course_database.csv"
	DefaultRequirementsFile = "job_requirements.json"
)

// Embedding providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderNgram  = "ngram"
)

// Embedding cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config represents the recommender configuration that can be loaded from a
// JSON, YAML or TOML file. All fields are optional; missing values use defaults
// or must be provided via CLI flags and environment variables.
type Config struct {
	// Reference data
	DataDir          string `json:"data_dir,omitempty" yaml:"data_dir,omitempty" toml:"data_dir"`             // Directory holding the default data files
	AliasesPath      string `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases"`                // Skill alias table (JSON object)
	CatalogSource    string `json:"catalog,omitempty" yaml:"catalog,omitempty" toml:"catalog"`                // Course catalog CSV path, .csv.br path, http(s) or sftp:// URL
	RequirementsPath string `json:"requirements,omitempty" yaml:"requirements,omitempty" toml:"requirements"` // Job requirements JSON (ignored when DatabaseURL is set)
	DatabaseURL      string `json:"database_url,omitempty" yaml:"database_url,omitempty" toml:"database_url"` // PostgreSQL connection URL

	Embedding  EmbeddingConfig `json:"embedding" yaml:"embedding" toml:"embedding"`
	Thresholds ThresholdConfig `json:"thresholds" yaml:"thresholds" toml:"thresholds"`

	// Limits
	TopN      int `json:"top_n,omitempty" yaml:"top_n,omitempty" toml:"top_n"`                   // Courses returned per recommendation
	TitleTopN int `json:"title_top_n,omitempty" yaml:"title_top_n,omitempty" toml:"title_top_n"` // Suggestions returned on title miss

	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" toml:"log_level"`
}

// EmbeddingConfig selects and configures the sentence-embedding backend.
type EmbeddingConfig struct {
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty" toml:"model"`
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty" toml:"api_key"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url"`
	Dimension int    `json:"dimension,omitempty" yaml:"dimension,omitempty" toml:"dimension"`
	Cache     string `json:"cache,omitempty" yaml:"cache,omitempty" toml:"cache"`
	CacheSize int    `json:"cache_size,omitempty" yaml:"cache_size,omitempty" toml:"cache_size"` // Vector limit of the memory cache
	RedisURL  string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" toml:"redis_url"`
	CacheTTL  string `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty" toml:"cache_ttl"`
}

// ThresholdConfig holds the cosine-similarity cut-offs. A match must be
// strictly greater than the threshold.
type ThresholdConfig struct {
	Normalize float64 `json:"normalize,omitempty" yaml:"normalize,omitempty" toml:"normalize"` // Skill normalizer fallback
	Title     float64 `json:"title,omitempty" yaml:"title,omitempty" toml:"title"`             // Job title resolver
	Candidate float64 `json:"candidate,omitempty" yaml:"candidate,omitempty" toml:"candidate"` // Resume candidate phrases
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider:  ProviderGemini,
			Model:     "text-embedding-004",
			Cache:     CacheMemory,
			CacheSize: 10000,
			CacheTTL:  "24h",
		},
		Thresholds: ThresholdConfig{
			Normalize: 0.7,
			Title:     0.7,
			Candidate: 0.6,
		},
		TopN:      5,
		TitleTopN: 3,
		LogLevel:  "info",
	}
}

// LoadConfig loads configuration from a file. The format is chosen by
// extension: .json, .yaml/.yml or .toml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .json, .yaml or .toml)", ext)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check that data files exist; see VerifyPaths.
func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"thresholds.normalize": c.Thresholds.Normalize,
		"thresholds.title":     c.Thresholds.Title,
		"thresholds.candidate": c.Thresholds.Candidate,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("config error: '%s' must be between 0 and 1", name)
		}
	}

	if c.TopN < 0 {
		return fmt.Errorf("config error: 'top_n' must be non-negative")
	}
	if c.TitleTopN < 0 {
		return fmt.Errorf("config error: 'title_top_n' must be non-negative")
	}

	switch c.Embedding.Provider {
	case "", ProviderGemini, ProviderOpenAI, ProviderOllama, ProviderNgram:
	default:
		return fmt.Errorf("config error: unknown embedding provider %q", c.Embedding.Provider)
	}

	switch c.Embedding.Cache {
	case "", CacheNone, CacheMemory:
	case CacheRedis:
		if c.Embedding.RedisURL == "" {
			return fmt.Errorf("config error: 'embedding.redis_url' is required for the redis cache")
		}
	default:
		return fmt.Errorf("config error: unknown embedding cache %q", c.Embedding.Cache)
	}

	if c.Embedding.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Embedding.CacheTTL); err != nil {
			return fmt.Errorf("config error: invalid 'embedding.cache_ttl': %w", err)
		}
	}

	if c.Embedding.CacheSize < 0 {
		return fmt.Errorf("config error: 'embedding.cache_size' must be non-negative")
	}

	if c.Embedding.Dimension < 0 {
		return fmt.Errorf("config error: 'embedding.dimension' must be non-negative")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	result.DataDir = orDefault(result.DataDir, defaults.DataDir)
	result.AliasesPath = orDefault(result.AliasesPath, defaults.AliasesPath)
	result.CatalogSource = orDefault(result.CatalogSource, defaults.CatalogSource)
	result.RequirementsPath = orDefault(result.RequirementsPath, defaults.RequirementsPath)
	result.DatabaseURL = orDefault(result.DatabaseURL, defaults.DatabaseURL)
	result.LogLevel = orDefault(result.LogLevel, defaults.LogLevel)

	e := &result.Embedding
	e.Provider = orDefault(e.Provider, defaults.Embedding.Provider)
	// a default model only makes sense for the default provider
	if e.Provider == defaults.Embedding.Provider {
		e.Model = orDefault(e.Model, defaults.Embedding.Model)
	}
	e.APIKey = orDefault(e.APIKey, defaults.Embedding.APIKey)
	e.BaseURL = orDefault(e.BaseURL, defaults.Embedding.BaseURL)
	e.Cache = orDefault(e.Cache, defaults.Embedding.Cache)
	e.RedisURL = orDefault(e.RedisURL, defaults.Embedding.RedisURL)
	e.CacheTTL = orDefault(e.CacheTTL, defaults.Embedding.CacheTTL)
	if e.Dimension == 0 {
		e.Dimension = defaults.Embedding.Dimension
	}
	if e.CacheSize == 0 {
		e.CacheSize = defaults.Embedding.CacheSize
	}

	// Numeric fields: use default if zero
	if result.Thresholds.Normalize == 0 {
		result.Thresholds.Normalize = defaults.Thresholds.Normalize
	}
	if result.Thresholds.Title == 0 {
		result.Thresholds.Title = defaults.Thresholds.Title
	}
	if result.Thresholds.Candidate == 0 {
		result.Thresholds.Candidate = defaults.Thresholds.Candidate
	}
	if result.TopN == 0 {
		result.TopN = defaults.TopN
	}
	if result.TitleTopN == 0 {
		result.TitleTopN = defaults.TitleTopN
	}

	return result
}

// ApplyEnv fills empty secrets and locations from the environment.
// lookup is usually os.Getenv.
func (c *Config) ApplyEnv(lookup func(string) string) {
	c.DataDir = orDefault(c.DataDir, lookup("SKILLGAP_DATA_DIR"))
	c.DatabaseURL = orDefault(c.DatabaseURL, lookup("DATABASE_URL"))
	c.Embedding.RedisURL = orDefault(c.Embedding.RedisURL, lookup("REDIS_URL"))

	if c.Embedding.APIKey == "" {
		switch c.Embedding.Provider {
		case ProviderGemini:
			c.Embedding.APIKey = lookup("GEMINI_API_KEY")
		case ProviderOpenAI:
			c.Embedding.APIKey = lookup("OPENAI_API_KEY")
		}
	}
}

// ResolvePaths fills unset data file locations from DataDir and makes
// relative paths relative to DataDir.
func (c *Config) ResolvePaths() {
	c.AliasesPath = c.resolve(c.AliasesPath, DefaultAliasesFile)
	c.CatalogSource = c.resolve(c.CatalogSource, DefaultCatalogFile)
	if c.DatabaseURL == "" {
		c.RequirementsPath = c.resolve(c.RequirementsPath, DefaultRequirementsFile)
	}
}

func (c *Config) resolve(path, defaultName string) string {
	if path == "" {
		path = defaultName
	}
	if IsRemote(path) || filepath.IsAbs(path) || c.DataDir == "" {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

// VerifyPaths checks that every local data file exists. All missing files are
// reported together so the process can refuse to start with partial data.
func (c *Config) VerifyPaths() error {
	required := []struct {
		name string
		path string
	}{
		{"Skill aliases", c.AliasesPath},
		{"Course catalog", c.CatalogSource},
	}
	if c.DatabaseURL == "" {
		required = append(required, struct {
			name string
			path string
		}{"Job requirements", c.RequirementsPath})
	}

	var missing []string
	for _, f := range required {
		if f.path == "" {
			missing = append(missing, fmt.Sprintf("%s: (not configured)", f.name))
			continue
		}
		if IsRemote(f.path) {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			missing = append(missing, fmt.Sprintf("%s: %s", f.name, f.path))
		}
	}

	if len(missing) > 0 {
		return &MissingFilesError{Files: missing}
	}
	return nil
}

// CacheTTLDuration returns the parsed embedding cache TTL (zero if unset).
func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.Embedding.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}

// IsRemote reports whether a data source is fetched over the network.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "sftp://") || fetch.IsURL(source)
}

// MissingFilesError lists required data files that could not be found.
type MissingFilesError struct {
	Files []string
}

func (e *MissingFilesError) Error() string {
	return "missing required data files:\n  " + strings.Join(e.Files, "\n  ") +
		"\nplease ensure all data files are in the correct location"
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
