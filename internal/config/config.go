package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OpenAI   OpenAIConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// OpenAIConfig holds the optional enrichment collaborator configuration.
// Enrichment is disabled entirely when APIKey is empty; the deterministic
// pipeline is complete without it.
type OpenAIConfig struct {
	APIKey         string
	Model          string
	FallbackModels []string
	CallDelay      time.Duration
	SampleSize     int
}

// StorageConfig holds Azure Blob Storage configuration for raw-export and
// report archival. Archival is skipped when credentials are absent.
type StorageConfig struct {
	AccountName     string
	AccountKey      string
	UploadContainer string
	ReportContainer string
}

// AnalysisConfig holds tuning knobs for the analysis pipeline
type AnalysisConfig struct {
	SilenceThresholdDays int
	ResponseCutoffHours  int
	ClassifyTimeout      time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// OpenAI defaults
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.fallbackmodels", []string{"gpt-4o", "gpt-3.5-turbo"})
	v.SetDefault("openai.calldelay", 500*time.Millisecond)
	v.SetDefault("openai.samplesize", 20)

	// Storage defaults
	v.SetDefault("storage.uploadcontainer", "chat-uploads")
	v.SetDefault("storage.reportcontainer", "relationship-reports")

	// Analysis defaults
	v.SetDefault("analysis.silencethresholddays", 3)
	v.SetDefault("analysis.responsecutoffhours", 24)
	v.SetDefault("analysis.classifytimeout", 2*time.Minute)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// OpenAI
	v.BindEnv("openai.apikey", "OPENAI_API_KEY")
	v.BindEnv("openai.model", "OPENAI_MODEL")

	// Azure Storage
	v.BindEnv("storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")

	// Analysis
	v.BindEnv("analysis.silencethresholddays", "SILENCE_THRESHOLD_DAYS")
	v.BindEnv("analysis.classifytimeout", "CLASSIFY_TIMEOUT")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	if c.Analysis.SilenceThresholdDays < 1 {
		return fmt.Errorf("analysis.silencethresholddays must be at least 1")
	}

	if c.Analysis.ClassifyTimeout <= 0 {
		return fmt.Errorf("analysis.classifytimeout must be positive")
	}

	if c.OpenAI.SampleSize < 0 {
		return fmt.Errorf("openai.samplesize must not be negative")
	}

	return nil
}
