// Package models - Service configuration and operational settings.
// This file defines the configuration structures for all service components.
//
// Configuration layout:
// - Server: HTTP server, TLS and CORS settings
// - Completion: language model provider, credentials and call bounds
// - Security: access password and per-client rate limiting
// - History: optional check history backend
// - Static: front-end file serving
// - Logging, Metrics, Observability: ambient operational settings
package models

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Completion provider constants
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// History backend constants
const (
	HistoryTypeNone     = "none"
	HistoryTypeMemory   = "memory"
	HistoryTypeJSON     = "json"
	HistoryTypeSQLite   = "sqlite"
	HistoryTypePostgres = "postgres"
)

// Config is the root configuration structure containing all service settings.
type Config struct {
	Server        ServerConfig        `yaml:"server" json:"server"`               // HTTP server configuration
	Completion    CompletionConfig    `yaml:"completion" json:"completion"`       // Language model provider
	Security      SecurityConfig      `yaml:"security" json:"security"`           // Access password and rate limiting
	History       HistoryConfig       `yaml:"history" json:"history"`             // Check history backend
	Static        StaticConfig        `yaml:"static" json:"static"`               // Front-end file serving
	Logging       LoggingConfig       `yaml:"logging" json:"logging"`             // Logging and output configuration
	Metrics       MetricsConfig       `yaml:"metrics" json:"metrics"`             // Monitoring and metrics
	Observability ObservabilityConfig `yaml:"observability" json:"observability"` // Tracing
}

type ServerConfig struct {
	Port         int           `yaml:"port" json:"port"`
	Host         string        `yaml:"host" json:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	TLSEnabled   bool          `yaml:"tls_enabled" json:"tls_enabled"`
	TLSCertFile  string        `yaml:"tls_cert_file" json:"tls_cert_file"`
	TLSKeyFile   string        `yaml:"tls_key_file" json:"tls_key_file"`
	CORS         CORSConfig    `yaml:"cors" json:"cors"`
}

type CORSConfig struct {
	Enabled        bool     `yaml:"enabled" json:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers"`
	MaxAge         int      `yaml:"max_age" json:"max_age"`
}

// CompletionConfig selects and bounds the language model collaborator.
// Timeout applies to a single completion call; RequestsPerMinute throttles
// outbound calls across all clients (0 disables the throttle).
type CompletionConfig struct {
	Provider          string        `yaml:"provider" json:"provider"`
	APIKey            string        `yaml:"api_key" json:"-"`
	Model             string        `yaml:"model" json:"model"`
	Endpoint          string        `yaml:"endpoint" json:"endpoint"`
	MaxTokens         int           `yaml:"max_tokens" json:"max_tokens"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// SecurityConfig holds the access password and the rate limiter settings.
// TrustedProxies lists the IPs or CIDR ranges whose X-Forwarded-For and
// X-Real-IP headers identify the client; requests from any other peer are
// keyed by their socket address.
type SecurityConfig struct {
	AccessPassword string          `yaml:"access_password" json:"-"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	TrustedProxies []string        `yaml:"trusted_proxies" json:"trusted_proxies"`
}

// RateLimitConfig configures the per-client fixed window limiter.
type RateLimitConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	Window      time.Duration `yaml:"window" json:"window"`
	MaxRequests int           `yaml:"max_requests" json:"max_requests"`
}

type HistoryConfig struct {
	Type string `yaml:"type" json:"type"`
	DSN  string `yaml:"dsn" json:"-"`
}

type StaticConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Dir     string `yaml:"dir" json:"dir"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	Output   string `yaml:"output" json:"output"`
	FilePath string `yaml:"file_path" json:"file_path"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
	Port    int    `yaml:"port" json:"port"`
}

type ObservabilityConfig struct {
	ServiceName string        `yaml:"service_name" json:"service_name"`
	Tracing     TracingConfig `yaml:"tracing" json:"tracing"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Exporter     string  `yaml:"exporter" json:"exporter"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" json:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate" json:"sample_rate"`
}

// NewDefaultConfig creates a configuration with defaults that run locally
// with only an API key supplied: port 3000, anthropic provider, 20 checks
// per client per hour, in-memory history and the front-end served from
// ./public.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         3000,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
			MaxBodyBytes: 10 << 20,
			CORS: CORSConfig{
				Enabled:        true,
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "X-Access-Password"},
				MaxAge:         86400,
			},
		},
		Completion: CompletionConfig{
			Provider:  ProviderAnthropic,
			MaxTokens: 4096,
			Timeout:   60 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled:     true,
				Window:      time.Hour,
				MaxRequests: 20,
			},
			TrustedProxies: []string{},
		},
		History: HistoryConfig{
			Type: HistoryTypeMemory,
		},
		Static: StaticConfig{
			Enabled: true,
			Dir:     "public",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Path:    "/metrics",
			Port:    9090,
		},
		Observability: ObservabilityConfig{
			ServiceName: "textchecker",
			Tracing: TracingConfig{
				Enabled:    false,
				Exporter:   "stdout",
				SampleRate: 1.0,
			},
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := c.Completion.Validate(); err != nil {
		return fmt.Errorf("invalid completion config: %w", err)
	}

	if err := c.Security.Validate(); err != nil {
		return fmt.Errorf("invalid security config: %w", err)
	}

	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("invalid history config: %w", err)
	}

	if err := c.Static.Validate(); err != nil {
		return fmt.Errorf("invalid static config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

func (sc *ServerConfig) Validate() error {
	if sc.Port <= 0 || sc.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if sc.Host == "" {
		return errors.New("host cannot be empty")
	}

	if sc.ReadTimeout < 0 {
		return errors.New("read timeout cannot be negative")
	}

	if sc.WriteTimeout < 0 {
		return errors.New("write timeout cannot be negative")
	}

	if sc.IdleTimeout < 0 {
		return errors.New("idle timeout cannot be negative")
	}

	if sc.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be positive")
	}

	if sc.TLSEnabled {
		if sc.TLSCertFile == "" {
			return errors.New("TLS cert file is required when TLS is enabled")
		}
		if sc.TLSKeyFile == "" {
			return errors.New("TLS key file is required when TLS is enabled")
		}
	}

	return nil
}

func (cc *CompletionConfig) Validate() error {
	if !contains([]string{ProviderAnthropic, ProviderGemini}, cc.Provider) {
		return fmt.Errorf("invalid completion provider: %s", cc.Provider)
	}

	if cc.APIKey == "" {
		return errors.New("API key is required")
	}

	if cc.MaxTokens <= 0 {
		return errors.New("max tokens must be positive")
	}

	if cc.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	if cc.RequestsPerMinute < 0 {
		return errors.New("requests per minute cannot be negative")
	}

	return nil
}

func (sec *SecurityConfig) Validate() error {
	if sec.RateLimit.Enabled {
		if sec.RateLimit.Window <= 0 {
			return errors.New("rate limit window must be positive")
		}
		if sec.RateLimit.MaxRequests < 1 {
			return errors.New("rate limit max requests must be at least 1")
		}
	}

	for _, proxy := range sec.TrustedProxies {
		if _, _, err := net.ParseCIDR(proxy); err == nil {
			continue
		}
		if net.ParseIP(proxy) == nil {
			return fmt.Errorf("invalid trusted proxy: %s", proxy)
		}
	}
	return nil
}

func (hc *HistoryConfig) Validate() error {
	validTypes := []string{HistoryTypeNone, HistoryTypeMemory, HistoryTypeJSON, HistoryTypeSQLite, HistoryTypePostgres}
	if !contains(validTypes, hc.Type) {
		return fmt.Errorf("invalid history type: %s", hc.Type)
	}

	if (hc.Type == HistoryTypeSQLite || hc.Type == HistoryTypePostgres) && hc.DSN == "" {
		return errors.New("DSN is required for database history")
	}

	if hc.Type == HistoryTypeJSON && hc.DSN == "" {
		return errors.New("DSN must name the history file for json history")
	}

	return nil
}

func (sc *StaticConfig) Validate() error {
	if sc.Enabled && sc.Dir == "" {
		return errors.New("static dir is required when static serving is enabled")
	}
	return nil
}

func (lc *LoggingConfig) Validate() error {
	if !contains([]string{"debug", "info", "warn", "error"}, lc.Level) {
		return fmt.Errorf("invalid log level: %s", lc.Level)
	}

	if !contains([]string{"json", "text"}, lc.Format) {
		return fmt.Errorf("invalid log format: %s", lc.Format)
	}

	if !contains([]string{"stdout", "stderr", "file"}, lc.Output) {
		return fmt.Errorf("invalid log output: %s", lc.Output)
	}

	if lc.Output == "file" && lc.FilePath == "" {
		return errors.New("file path is required when output is file")
	}

	return nil
}

func (mc *MetricsConfig) Validate() error {
	if !mc.Enabled {
		return nil
	}

	if mc.Path == "" {
		return errors.New("metrics path cannot be empty")
	}

	if mc.Port <= 0 || mc.Port > 65535 {
		return errors.New("metrics port must be between 1 and 65535")
	}

	return nil
}

func (oc *ObservabilityConfig) Validate() error {
	if oc.ServiceName == "" {
		return errors.New("service name cannot be empty")
	}

	if !oc.Tracing.Enabled {
		return nil
	}

	switch oc.Tracing.Exporter {
	case "stdout":
	case "otlp":
		if oc.Tracing.OTLPEndpoint == "" {
			return errors.New("OTLP endpoint is required when exporter is otlp")
		}
	default:
		return fmt.Errorf("invalid trace exporter: %s", oc.Tracing.Exporter)
	}

	if oc.Tracing.SampleRate < 0 || oc.Tracing.SampleRate > 1 {
		return errors.New("sample rate must be between 0 and 1")
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
