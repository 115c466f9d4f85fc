// Package config defines the per-project configuration: a nested Config
// struct with a DefaultConfig factory, YAML file loading, and
// environment-variable overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// TestLocationStrategy selects where generated test files are placed.
type TestLocationStrategy string

const (
	LocationColocated TestLocationStrategy = "colocated"
	LocationSeparate  TestLocationStrategy = "separate"
	LocationNested    TestLocationStrategy = "nested"
)

// LLMConfig names the provider/model/credential surface.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIBase     string  `yaml:"api_base,omitempty"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// Config is the per-project configuration.
type Config struct {
	Language             string               `yaml:"language"`
	TestFramework        string               `yaml:"test_framework"`
	IncludePatterns      []string             `yaml:"include_patterns"`
	ExcludePatterns      []string             `yaml:"exclude_patterns"`
	TestDirectory        string               `yaml:"test_directory"`
	CoverageThreshold    float64              `yaml:"coverage_threshold"`
	MaxFileSize          int                  `yaml:"max_file_size"`
	LLM                  LLMConfig            `yaml:"llm"`
	TestLocationStrategy TestLocationStrategy `yaml:"test_location_strategy"`
	VectorStoreDir       string               `yaml:"vector_store_dir"`
	MetadataDBPath       string               `yaml:"metadata_db_path"`
}

// DefaultConfig gives every field a conservative, working default so a
// project can run with zero configuration.
func DefaultConfig() *Config {
	return &Config{
		Language:      "go",
		TestFramework: "go-test",
		IncludePatterns: []string{
			"**/*.go",
		},
		ExcludePatterns: []string{
			"**/*_test.go",
			"vendor/**",
			".git/**",
			"node_modules/**",
		},
		TestDirectory:        "",
		CoverageThreshold:    0.0,
		MaxFileSize:          1 << 20,
		LLM: LLMConfig{
			Provider:    "openai-compatible",
			Model:       "gpt-4o-mini",
			MaxTokens:   4096,
			Temperature: 0.2,
		},
		TestLocationStrategy: LocationColocated,
		VectorStoreDir:       ".testmind/vectors",
		MetadataDBPath:       ".testmind/testmind.db",
	}
}

// Load reads a YAML config file, falling back to DefaultConfig for a
// missing file, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides layers environment variables over the loaded config:
// "*_MODEL", "*_API_BASE" and "*_MAX_TOKENS", keyed by the configured
// provider name.
func applyEnvOverrides(cfg *Config) {
	prefix := strings.ToUpper(cfg.LLM.Provider)
	prefix = strings.ReplaceAll(prefix, "-", "_")
	if v := os.Getenv(prefix + "_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv(prefix + "_API_BASE"); v != "" {
		cfg.LLM.APIBase = v
	}
	if v := os.Getenv(prefix + "_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = n
		}
	}
}

// APIKeyEnvVar is the environment variable name a provider's credential
// is expected under, e.g. "OPENAI_API_KEY".
func APIKeyEnvVar(provider string) string {
	p := strings.ToUpper(provider)
	p = strings.ReplaceAll(p, "-", "_")
	return p + "_API_KEY"
}
