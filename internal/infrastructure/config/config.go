package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Catalog   CatalogConfig
	Assistant AssistantConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	TrustedProxies    []string
}

// Catalog sources
const (
	CatalogSourceFile     = "file"
	CatalogSourceDatabase = "database"
)

// CatalogConfig selects where the static product catalog is read from
type CatalogConfig struct {
	Source string // file or database
	Path   string // file source: .json, .yaml or .yml; empty uses the bundled catalog
	Driver string // database source: sqlite or postgres
	DSN    string
}

// Assistant providers
const (
	ProviderWebhook = "webhook"
	ProviderOpenAI  = "openai"
	ProviderNone    = "none"
)

// AssistantConfig configures the remote assistant and the chat session registry
type AssistantConfig struct {
	Provider   string
	WebhookURL string
	// WebhookResponsePath is the gjson path of the reply text in the webhook body
	WebhookResponsePath string
	Timeout             time.Duration
	SessionIdleTTL      time.Duration
	MaxSessions         int
	OpenAIBaseURL       string
	OpenAIAPIKey        string
	OpenAIModel         string
}

// TelemetryConfig holds OpenTelemetry configuration. Metrics and traces
// share the collector endpoint.
type TelemetryConfig struct {
	Enabled           bool // metrics export
	CollectorEndpoint string // e.g. "localhost:4317"
	ServiceName       string
	Insecure          bool
	ExportInterval    time.Duration
	Tracing           TracingConfig
}

// TracingConfig controls span export
type TracingConfig struct {
	Enabled       bool
	SamplingRatio float64 // 0.0 to 1.0
}

// Load reads configuration from environment variables and config file.
// Priority (highest to lowest):
// 1. Environment variables with STOREFRONT_ prefix (e.g., STOREFRONT_ASSISTANT_WEBHOOK_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// zero is a valid ratio, so the default cannot be applied afterwards
	v.SetDefault("telemetry.tracing.sampling_ratio", 1.0)

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  splitList(v.GetStringSlice("http.cors_allow_origins")),
			TrustedProxies:    splitList(v.GetStringSlice("http.trusted_proxies")),
		},
		Catalog: CatalogConfig{
			Source: v.GetString("catalog.source"),
			Path:   v.GetString("catalog.path"),
			Driver: v.GetString("catalog.driver"),
			DSN:    v.GetString("catalog.dsn"),
		},
		Assistant: AssistantConfig{
			Provider:            v.GetString("assistant.provider"),
			WebhookURL:          v.GetString("assistant.webhook_url"),
			WebhookResponsePath: v.GetString("assistant.webhook_response_path"),
			Timeout:             v.GetDuration("assistant.timeout"),
			SessionIdleTTL:      v.GetDuration("assistant.session_idle_ttl"),
			MaxSessions:         v.GetInt("assistant.max_sessions"),
			OpenAIBaseURL:       v.GetString("assistant.openai_base_url"),
			OpenAIAPIKey:        v.GetString("assistant.openai_api_key"),
			OpenAIModel:         v.GetString("assistant.openai_model"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			ExportInterval:    v.GetDuration("telemetry.export_interval"),
			Tracing: TracingConfig{
				Enabled:       v.GetBool("telemetry.tracing.enabled"),
				SamplingRatio: v.GetFloat64("telemetry.tracing.sampling_ratio"),
			},
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList accepts both list values and a single comma separated string
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	// must outlive the remote assistant timeout
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"http://localhost:3000"}
	}

	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = CatalogSourceFile
	}
	if cfg.Catalog.Source == CatalogSourceDatabase && cfg.Catalog.Driver == "" {
		cfg.Catalog.Driver = "sqlite"
	}

	if cfg.Assistant.Provider == "" {
		if cfg.Assistant.WebhookURL != "" {
			cfg.Assistant.Provider = ProviderWebhook
		} else {
			cfg.Assistant.Provider = ProviderNone
		}
	}
	if cfg.Assistant.WebhookResponsePath == "" {
		cfg.Assistant.WebhookResponsePath = "response"
	}
	if cfg.Assistant.Timeout == 0 {
		cfg.Assistant.Timeout = 10 * time.Second
	}
	if cfg.Assistant.SessionIdleTTL == 0 {
		cfg.Assistant.SessionIdleTTL = 30 * time.Minute
	}
	if cfg.Assistant.MaxSessions == 0 {
		cfg.Assistant.MaxSessions = 10000
	}

	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.ExportInterval == 0 {
		cfg.Telemetry.ExportInterval = 15 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Catalog.Source {
	case CatalogSourceFile:
	case CatalogSourceDatabase:
		if c.Catalog.Driver != "sqlite" && c.Catalog.Driver != "postgres" {
			return fmt.Errorf("catalog.driver must be sqlite or postgres, got %q", c.Catalog.Driver)
		}
		if c.Catalog.DSN == "" {
			return fmt.Errorf("catalog.dsn is required when catalog.source is database")
		}
	default:
		return fmt.Errorf("catalog.source must be file or database, got %q", c.Catalog.Source)
	}

	switch c.Assistant.Provider {
	case ProviderNone:
	case ProviderWebhook:
		if c.Assistant.WebhookURL == "" {
			return fmt.Errorf("assistant.webhook_url is required for the webhook provider")
		}
	case ProviderOpenAI:
		if c.Assistant.OpenAIModel == "" {
			return fmt.Errorf("assistant.openai_model is required for the openai provider")
		}
	default:
		return fmt.Errorf("assistant.provider must be webhook, openai or none, got %q", c.Assistant.Provider)
	}
	if c.Assistant.Timeout < 0 {
		return fmt.Errorf("assistant.timeout cannot be negative")
	}
	if c.Assistant.MaxSessions < 0 {
		return fmt.Errorf("assistant.max_sessions cannot be negative")
	}
	if c.Assistant.SessionIdleTTL < 0 {
		return fmt.Errorf("assistant.session_idle_ttl cannot be negative")
	}

	if c.HTTP.RateLimitRequests < 0 {
		return fmt.Errorf("http.rate_limit_requests cannot be negative")
	}
	// the window also paces the limiter cleanup ticker
	if c.HTTP.RateLimitEnabled && c.HTTP.RateLimitWindow <= 0 {
		return fmt.Errorf("http.rate_limit_window must be positive, got %s", c.HTTP.RateLimitWindow)
	}

	if c.Telemetry.ExportInterval < 0 {
		return fmt.Errorf("telemetry.export_interval cannot be negative")
	}
	if r := c.Telemetry.Tracing.SamplingRatio; r < 0 || r > 1 {
		return fmt.Errorf("telemetry.tracing.sampling_ratio must be between 0 and 1, got %v", r)
	}

	if c.App.Env == "production" {
		// CORS must not use wildcard with credentials
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
