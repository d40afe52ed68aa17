package model

import "time"

// Config is the complete kulint configuration
type Config struct {
	Store     StoreConfig     `json:"store" yaml:"store"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Checks    ChecksConfig    `json:"checks" yaml:"checks"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Batch     BatchConfig     `json:"batch" yaml:"batch"`
	Output    OutputConfig    `json:"output" yaml:"output"`
}

// StoreConfig configures the vector store client
type StoreConfig struct {
	URL               string        `json:"url" yaml:"url"`
	Collection        string        `json:"collection" yaml:"collection"`
	Timeout           time.Duration `json:"timeout" yaml:"timeout"`
	RequestsPerSecond float64       `json:"requests_per_second" yaml:"requests_per_second"`
	HTTPProxy         string        `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty"`
	HTTPSProxy        string        `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty"`
	NoProxy           string        `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty"`
}

// EmbeddingConfig configures the embedding provider used for duplicate detection
type EmbeddingConfig struct {
	Provider          string  `json:"provider" yaml:"provider"` // openai, ollama
	Model             string  `json:"model" yaml:"model"`
	APIKey            string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL           string  `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Dimensions        int     `json:"dimensions" yaml:"dimensions"`
	Timeout           int     `json:"timeout" yaml:"timeout"` // seconds
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	HTTPProxy         string  `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty"`
	HTTPSProxy        string  `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty"`
	NoProxy           string  `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty"`
}

// ChecksConfig tunes individual consistency checks
type ChecksConfig struct {
	// DuplicateThreshold is the cosine similarity at or above which two
	// claims are flagged as near-duplicates.
	DuplicateThreshold float64 `json:"duplicate_threshold" yaml:"duplicate_threshold"`

	// MaxDuplicateCorpus caps the corpus size for duplicate detection.
	// Pairwise similarity is O(n^2); above this size the check is skipped.
	// Zero means no cap.
	MaxDuplicateCorpus int `json:"max_duplicate_corpus" yaml:"max_duplicate_corpus"`
}

// CacheConfig configures the embedding cache
type CacheConfig struct {
	Enabled bool          `json:"enabled" yaml:"enabled"`
	Dir     string        `json:"dir" yaml:"dir"`
	TTL     time.Duration `json:"ttl" yaml:"ttl"`
}

// BatchConfig configures concurrent multi-corpus runs
type BatchConfig struct {
	Workers int `json:"workers" yaml:"workers"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			URL:               "http://localhost:8000",
			Collection:        "document_chunks",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 50,
		},
		Embedding: EmbeddingConfig{
			Provider:          "ollama",
			Model:             "all-minilm",
			Dimensions:        384,
			Timeout:           60,
			RequestsPerSecond: 10,
		},
		Checks: ChecksConfig{
			DuplicateThreshold: 0.95,
			MaxDuplicateCorpus: 5000,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     7 * 24 * time.Hour,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
