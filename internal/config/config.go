package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Backend modes.
const (
	BackendModeRemote = "remote"
	BackendModeLocal  = "local"
)

// Config holds the application configuration.
type Config struct {
	Server       ServerConfig
	Backend      BackendConfig
	LLM          LLMConfig
	Storage      StorageConfig
	Intelligence IntelligenceConfig
	Log          LogConfig
}

// ServerConfig holds the gateway HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// BackendConfig selects and configures the assistant backend.
// Mode "remote" talks to the procurement platform's assistant API;
// mode "local" answers with the in-process LLM engine.
type BackendConfig struct {
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// LLMConfig holds the local engine's LLM configuration.
type LLMConfig struct {
	Provider     string `mapstructure:"provider"`
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	Model        string `mapstructure:"model"`
	SystemPrompt string `mapstructure:"system_prompt"`
}

// StorageConfig holds paths for conversation persistence.
type StorageConfig struct {
	SnapshotPath string `mapstructure:"snapshot_path"`
	HistoryPath  string `mapstructure:"history_path"`
}

// IntelligenceConfig tunes the procurement intelligence watcher.
type IntelligenceConfig struct {
	DebounceMS  int `mapstructure:"debounce_ms"`
	CacheTTLSec int `mapstructure:"cache_ttl_sec"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads the configuration from config.yaml, or from the file named by
// the CONFIG_PATH environment variable when set.
func Load() (*Config, error) {
	v := viper.New()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		dir, file := filepath.Split(path)
		ext := filepath.Ext(file)
		v.SetConfigName(file[:len(file)-len(ext)])
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("backend.mode", BackendModeRemote)
	v.SetDefault("storage.snapshot_path", "portiq-conversations.bolt")
	v.SetDefault("storage.history_path", "portiq-history.db")
	v.SetDefault("intelligence.debounce_ms", 500)
	v.SetDefault("intelligence.cache_ttl_sec", 30)
	v.SetDefault("log.level", "info")
}
