// Package config loads taskgate configuration from the config directory
// and environment. Environment variables take precedence over file
// values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zen-systems/taskgate/pkg/router"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	GoogleAPIKey    string
	DeepSeekAPIKey  string
	OpenAIAPIKey    string

	Thresholds  router.Thresholds
	Pricing     router.Pricing
	SessionDB   string
	DocumentDir string
	LogLevel    string

	ConfigDir string
}

// FileConfig represents the structure of ~/.taskgate/config.yaml
type FileConfig struct {
	APIKeys    APIKeysConfig      `yaml:"api_keys,omitempty"`
	Thresholds *router.Thresholds `yaml:"thresholds,omitempty"`
	Pricing    router.Pricing     `yaml:"pricing,omitempty"`
	SessionDB  string             `yaml:"session_db,omitempty"`
	Documents  string             `yaml:"documents,omitempty"`
	LogLevel   string             `yaml:"log_level,omitempty"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic,omitempty"`
	Google    string `yaml:"google,omitempty"`
	DeepSeek  string `yaml:"deepseek,omitempty"`
	OpenAI    string `yaml:"openai,omitempty"`
}

// Load reads configuration from the config file and environment.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return loadFrom(configDir, filepath.Join(configDir, "config.yaml"))
}

// LoadFile reads configuration from a specific config file.
func LoadFile(path string) (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return loadFrom(configDir, path)
}

func loadFrom(configDir, path string) (*Config, error) {
	fileConfig := loadFileConfig(path)

	cfg := &Config{
		AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		GoogleAPIKey:    getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		DeepSeekAPIKey:  getEnvOrDefault("DEEPSEEK_API_KEY", fileConfig.APIKeys.DeepSeek),
		OpenAIAPIKey:    getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		Thresholds:      router.DefaultThresholds(),
		Pricing:         router.DefaultPricing(),
		SessionDB:       fileConfig.SessionDB,
		DocumentDir:     fileConfig.Documents,
		LogLevel:        fileConfig.LogLevel,
		ConfigDir:       configDir,
	}

	if fileConfig.Thresholds != nil {
		cfg.Thresholds = *fileConfig.Thresholds
	}
	// File pricing entries override defaults model by model.
	for model, entry := range fileConfig.Pricing {
		cfg.Pricing[model] = entry
	}
	if cfg.SessionDB == "" {
		cfg.SessionDB = filepath.Join(configDir, "sessions.db")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// HasAdapter returns true if the API key for the given adapter is configured.
func (c *Config) HasAdapter(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	case "deepseek":
		return c.DeepSeekAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	default:
		return false
	}
}

// SaveThresholds writes the thresholds block back to the config file,
// keeping the file's other settings. Long-running processes pick the
// change up through the file watcher.
func SaveThresholds(path string, th router.Thresholds) error {
	fileConfig := loadFileConfig(path)
	fileConfig.Thresholds = &th

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".taskgate")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
