package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"newsir/internal/domain"
)

// Config holds all configuration for the news search tool.
type Config struct {
	Index   IndexConfig   `yaml:"index"`
	Query   QueryConfig   `yaml:"query"`
	Logging LoggingConfig `yaml:"logging"`
}

// IndexConfig holds ingestion configuration.
type IndexConfig struct {
	Includes     []string           `yaml:"includes"`
	Excludes     []string           `yaml:"excludes"`
	Fields       []domain.FieldSpec `yaml:"fields"`
	DefaultField string             `yaml:"default_field"`
	Multifield   bool               `yaml:"multifield"`
	Positional   bool               `yaml:"positional"`
	Stemming     bool               `yaml:"stemming"`
	Language     string             `yaml:"language"` // Snowball language, e.g. "spanish"
	Strict       bool               `yaml:"strict"`   // Abort ingestion on the first bad file
	Workers      int                `yaml:"workers"`  // Files decoded in parallel
}

// QueryConfig holds query and presentation configuration.
type QueryConfig struct {
	Stemming      bool          `yaml:"stemming"`
	ShowAll       bool          `yaml:"show_all"`
	ShowMax       int           `yaml:"show_max"`
	Snippet       bool          `yaml:"snippet"`
	SnippetWindow int           `yaml:"snippet_window"`
	Ranking       bool          `yaml:"ranking"`
	CacheSize     int           `yaml:"cache_size"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	Parallelism   int           `yaml:"parallelism"` // Concurrent queries for list and test files
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultFields are the attributes of a news item. The date is indexed as a
// single term.
func DefaultFields() []domain.FieldSpec {
	return []domain.FieldSpec{
		{Name: "title", Tokenize: true},
		{Name: "date", Tokenize: false},
		{Name: "keywords", Tokenize: true},
		{Name: "article", Tokenize: true},
		{Name: "summary", Tokenize: true},
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{
			Includes:     []string{"**/*.json"},
			Excludes:     []string{"**/.git/**", "**/.newsir/**"},
			Fields:       DefaultFields(),
			DefaultField: "article",
			Multifield:   false,
			Positional:   false,
			Stemming:     false,
			Language:     "spanish",
			Strict:       false,
			Workers:      4,
		},
		Query: QueryConfig{
			Stemming:      false,
			ShowAll:       false,
			ShowMax:       10,
			Snippet:       false,
			SnippetWindow: 8,
			Ranking:       false,
			CacheSize:     256,
			CacheTTL:      10 * time.Minute,
			Parallelism:   4,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a corpus directory (looks for
// newsir.yaml, then .newsir/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "newsir.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".newsir", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
