package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Delivery      DeliveryConfig
	Analytics     AnalyticsConfig
	AntiSpam      AntiSpamConfig
	Calculator    CalculatorConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

// DeliveryConfig controls where accepted lead submissions go.
// An empty WebhookURL means "log locally only".
type DeliveryConfig struct {
	WebhookURL     string
	TimeoutSeconds int
	LocalDelayMs   int
}

type AnalyticsConfig struct {
	Enabled   bool
	EventsDir string
}

type AntiSpamConfig struct {
	FormTokenSecret string
	FormTokenTTL    time.Duration
	MinFillTime     time.Duration
}

type CalculatorConfig struct {
	SessionTTL time.Duration
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	AlloyEndpoint     string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8082")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://stratsession.dev")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://stratsession.dev,https://www.stratsession.dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("LEAD_WEBHOOK_URL", "")
	v.SetDefault("LEAD_WEBHOOK_TIMEOUT_SECONDS", 10)
	v.SetDefault("LEAD_LOCAL_DELAY_MS", 800)
	v.SetDefault("ANALYTICS_ENABLED", false)
	v.SetDefault("ANALYTICS_EVENTS_DIR", "/app/logs")
	v.SetDefault("FORM_TOKEN_TTL_MINUTES", 60)
	v.SetDefault("MIN_FILL_TIME_MS", 3000)
	v.SetDefault("CALCULATOR_SESSION_TTL_MINUTES", 120)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "") // OTLP over HTTP, empty disables tracing
	v.SetDefault("O11Y_BE_SERVICE_NAME", "stratsession-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "stratsession-dev")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "stratsession-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: allowedOrigins,
		},
		Delivery: DeliveryConfig{
			WebhookURL:     v.GetString("LEAD_WEBHOOK_URL"),
			TimeoutSeconds: v.GetInt("LEAD_WEBHOOK_TIMEOUT_SECONDS"),
			LocalDelayMs:   v.GetInt("LEAD_LOCAL_DELAY_MS"),
		},
		Analytics: AnalyticsConfig{
			Enabled:   v.GetBool("ANALYTICS_ENABLED"),
			EventsDir: v.GetString("ANALYTICS_EVENTS_DIR"),
		},
		AntiSpam: AntiSpamConfig{
			FormTokenSecret: v.GetString("FORM_TOKEN_SECRET"),
			FormTokenTTL:    time.Duration(v.GetInt("FORM_TOKEN_TTL_MINUTES")) * time.Minute,
			MinFillTime:     time.Duration(v.GetInt("MIN_FILL_TIME_MS")) * time.Millisecond,
		},
		Calculator: CalculatorConfig{
			SessionTTL: time.Duration(v.GetInt("CALCULATOR_SESSION_TTL_MINUTES")) * time.Minute,
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			AlloyEndpoint:     v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.AntiSpam.FormTokenSecret == "" {
		return fmt.Errorf("FORM_TOKEN_SECRET is required")
	}
	if c.AntiSpam.MinFillTime < 0 {
		return fmt.Errorf("MIN_FILL_TIME_MS must not be negative")
	}

	if c.Delivery.TimeoutSeconds <= 0 {
		return fmt.Errorf("LEAD_WEBHOOK_TIMEOUT_SECONDS must be positive")
	}

	// Server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
