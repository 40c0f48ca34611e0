package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete runtime configuration
type Config struct {
	Rubric       RubricConfig       `yaml:"rubric" mapstructure:"rubric"`
	Limits       LimitsConfig       `yaml:"limits" mapstructure:"limits"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
}

// RubricConfig points at an optional rubric override file
type RubricConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // Empty means built-in rubric
}

// LimitsConfig bounds the work done for a single document
type LimitsConfig struct {
	MaxDocumentBytes int64         `yaml:"max_document_bytes" mapstructure:"max_document_bytes"`
	MaxSections      int           `yaml:"max_sections" mapstructure:"max_sections"`
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per-document budget
}

// HTTPConfig configures fetching contracts by URL
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig configures the assessment cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"` // Empty disables the disk layer
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig paces URL fetches per host in batch mode
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	Dir           string `yaml:"dir" mapstructure:"dir"`
}

// LLMConfig configures the optional narrative summary
type LLMConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"` // openai, ollama, or empty (disabled)
	Model         string `yaml:"model" mapstructure:"model"`
	APIKey        string `yaml:"-" mapstructure:"api_key"` // Never written to config files
	BaseURL       string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout       int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	StrictClauses bool   `yaml:"strict_clauses" mapstructure:"strict_clauses"`
	MaxTokens     int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// StoreConfig configures the assessment history database
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".lockscore")

	return &Config{
		Limits: LimitsConfig{
			MaxDocumentBytes: 10 * 1024 * 1024,
			MaxSections:      20_000,
			Timeout:          30 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "lockscore/0.1 (+https://github.com/ppiankov/lockscore)",
			MaxBodyBytes:  10 * 1024 * 1024,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 1 * time.Hour,
			DiskDir:   filepath.Join(base, "cache"),
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Output: OutputConfig{
			IncludeFooter: true,
			Dir:           "./lockscore-reports",
		},
		LLM: LLMConfig{
			Timeout:       30,
			StrictClauses: true,
			MaxTokens:     800,
		},
		Store: StoreConfig{
			Enabled: false,
			DataDir: base,
		},
	}
}
