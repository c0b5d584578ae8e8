package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/studylog/internal/inference"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Log      LogConfig      `mapstructure:"log"`
	Progress ProgressConfig `mapstructure:"progress"`
	Report   ReportConfig   `mapstructure:"report"`
}

type ServerConfig struct {
	Port                int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS                CORSConfig `mapstructure:"cors"`
	AdviceRatePerMinute int        `mapstructure:"advice_rate_per_minute" validate:"min=0"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects the learning_log backend. Path is used by sqlite,
// the connection fields by mysql.
type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=sqlite mysql"`
	Path            string            `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type GeminiConfig struct {
	APIKey           string `mapstructure:"api_key"`
	Model            string `mapstructure:"model" validate:"required"`
	BaseURL          string `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds" validate:"min=1"`
	MaxRetryAttempts uint   `mapstructure:"max_retry_attempts"`
}

// Timeout returns the per-request deadline for the suggestion API.
func (c GeminiConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type ProgressConfig struct {
	RecentWindowDays int `mapstructure:"recent_window_days" validate:"min=1"`
}

// ReportConfig overrides the embedded progress report template when set.
type ReportConfig struct {
	TemplateFile string `mapstructure:"template_file" validate:"omitempty,file"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/studylog")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.advice_rate_per_minute", 6)
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "learning_log.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "studylog")
	v.SetDefault("database.username", "user")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.timeout_seconds", 30)
	v.SetDefault("gemini.max_retry_attempts", inference.DefaultMaxRetryAttempts)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("progress.recent_window_days", 7)
	// Template is optional - the embedded one is used when empty
	v.SetDefault("report.template_file", "")

	// Secrets are bound to environment variables only
	if err := v.BindEnv("gemini.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("gemini.model", "GEMINI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_MODEL environment variable: %w", err)
	}
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// Load is a shorthand for NewConfigLoader(configFile).Load().
func Load(configFile string) (*Config, error) {
	loader, err := NewConfigLoader(configFile)
	if err != nil {
		return nil, err
	}
	return loader.Load()
}
