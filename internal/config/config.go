// The application's root configuration: endpoint credentials, cascade
// budgets, and logging.
package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	instance *Config
	mu       sync.RWMutex
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger"`
	Endpoint   EndpointConfig   `mapstructure:"endpoint"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" json:"level" yaml:"level"`
	Format      string `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" json:"compress" yaml:"compress"`
}

// EndpointConfig holds settings for the remote extraction endpoint. The
// endpoint is Basic-Auth protected and its request contract is unknown
// until probed.
type EndpointConfig struct {
	URL             string        `mapstructure:"url"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"`
	GenerateTimeout time.Duration `mapstructure:"generate_timeout"`
}

// ExtractionConfig holds the cascade budgets.
type ExtractionConfig struct {
	// MaxPromptChars caps the data excerpt embedded in the primary prompt.
	MaxPromptChars int `mapstructure:"max_prompt_chars"`
	// MinimalLines is how many leading summary lines the minimal-prompt
	// stage keeps.
	MinimalLines int `mapstructure:"minimal_lines"`
	// MaxTokens and MinimalMaxTokens are the generation budgets for the
	// primary and minimal stages.
	MaxTokens        int `mapstructure:"max_tokens"`
	MinimalMaxTokens int `mapstructure:"minimal_max_tokens"`
}

// SetDefaults registers default values so the app can run with a minimal
// config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "kgv2")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)

	v.SetDefault("endpoint.probe_timeout", 8*time.Second)
	v.SetDefault("endpoint.generate_timeout", 45*time.Second)

	v.SetDefault("extraction.max_prompt_chars", 2000)
	v.SetDefault("extraction.minimal_lines", 10)
	v.SetDefault("extraction.max_tokens", 600)
	v.SetDefault("extraction.minimal_max_tokens", 200)
}

// Validate checks the configuration for values that would break a run.
func (c *Config) Validate() error {
	if c.Extraction.MaxPromptChars <= 0 {
		return fmt.Errorf("extraction.max_prompt_chars must be positive, got %d", c.Extraction.MaxPromptChars)
	}
	if c.Extraction.MinimalLines <= 0 {
		return fmt.Errorf("extraction.minimal_lines must be positive, got %d", c.Extraction.MinimalLines)
	}
	if c.Endpoint.URL != "" && (c.Endpoint.ProbeTimeout <= 0 || c.Endpoint.GenerateTimeout <= 0) {
		return fmt.Errorf("endpoint timeouts must be positive")
	}
	return nil
}

// Set stores the loaded configuration globally.
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// Get returns the loaded configuration instance.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("Configuration not initialized. Call config.Set() in the root command.")
	}
	return instance
}
