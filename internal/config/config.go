// Package config loads the service configuration from environment-named
// YAML files with ${VAR} substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toolvec/toolvec/internal/batching"
	"github.com/toolvec/toolvec/internal/domain/field"
)

// Config holds the toolvec service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Store     StoreConfig     `yaml:"store"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// FieldConfig declares one metadata field of the store schema.
type FieldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // tag, text, numeric
}

// BatchingConfig selects the ingestion batching strategy.
type BatchingConfig struct {
	Strategy  string `yaml:"strategy"` // FIXED_SIZE (default), TOKEN_COUNT
	BatchSize int    `yaml:"batch_size"`
	MaxTokens int    `yaml:"max_tokens"`
}

// StoreConfig holds the vector store schema and ingestion settings.
type StoreConfig struct {
	IndexName        string         `yaml:"index_name"`
	KeyPrefix        string         `yaml:"key_prefix"`
	VectorDim        int            `yaml:"vector_dim"`
	HNSWM            int            `yaml:"hnsw_m"`
	HNSWEFConstruct  int            `yaml:"hnsw_ef_construction"`
	InitializeSchema bool           `yaml:"initialize_schema"`
	Fields           []FieldConfig  `yaml:"fields"`
	Batching         BatchingConfig `yaml:"batching"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"` // openai (default), ollama
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// ChatConfig holds chat completion provider settings.
type ChatConfig struct {
	APIKey       string  `yaml:"api_key"`
	BaseURL      string  `yaml:"base_url"`
	Model        string  `yaml:"model"`
	Temperature  float32 `yaml:"temperature"`
	SystemPrompt string  `yaml:"system_prompt"`
	MaxRounds    int     `yaml:"max_rounds"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Store.IndexName == "" {
		c.Store.IndexName = "toolvec-idx"
	}
	if c.Store.KeyPrefix == "" {
		c.Store.KeyPrefix = "toolvec:doc:"
	}
	if c.Store.VectorDim <= 0 {
		c.Store.VectorDim = 1536
	}
	if c.Store.HNSWM <= 0 {
		c.Store.HNSWM = 16
	}
	if c.Store.HNSWEFConstruct <= 0 {
		c.Store.HNSWEFConstruct = 200
	}
	if c.Store.Batching.Strategy == "" {
		c.Store.Batching.Strategy = batching.SelectorFixedSize
	}
	if c.Store.Batching.BatchSize <= 0 {
		c.Store.Batching.BatchSize = batching.DefaultBatchSize
	}
	if c.Store.Batching.MaxTokens <= 0 {
		c.Store.Batching.MaxTokens = batching.DefaultMaxTokens
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Chat.MaxRounds <= 0 {
		c.Chat.MaxRounds = 8
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}

	switch c.Store.Batching.Strategy {
	case batching.SelectorFixedSize, batching.SelectorTokenCount:
	default:
		return fmt.Errorf("store.batching.strategy must be %s or %s, got %q",
			batching.SelectorFixedSize, batching.SelectorTokenCount, c.Store.Batching.Strategy)
	}

	seen := make(map[string]bool, len(c.Store.Fields))
	for i, f := range c.Store.Fields {
		if f.Name == "" {
			return fmt.Errorf("store.fields[%d].name is required", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("store.fields: duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		if _, err := field.ParseType(f.Type); err != nil {
			return fmt.Errorf("store.fields[%d]: %w", i, err)
		}
	}

	switch c.Embedding.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("embedding.provider must be openai or ollama, got %q", c.Embedding.Provider)
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}

	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
