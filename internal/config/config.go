package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"textchecker/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is the dotenv file read by Load from the working directory.
const DefaultEnvFile = ".env"

// Load loads configuration from the .env file, the config file and
// environment variables
func Load(configPath string) (*models.Config, error) {
	return LoadWithEnvFile(configPath, DefaultEnvFile)
}

// LoadWithEnvFile is Load with an explicit dotenv path. Variables already set
// in the process environment win over the dotenv file. A missing dotenv file
// is not an error.
func LoadWithEnvFile(configPath, envFile string) (*models.Config, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	// Start with default configuration
	config := models.NewDefaultConfig()

	// Load from file if provided and exists
	if configPath != "" {
		if err := loadFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Override with environment variables
	loadFromEnvironment(config)

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadDotEnv(envFile string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(config *models.Config, filePath string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

// loadFromEnvironment loads configuration from environment variables
func loadFromEnvironment(config *models.Config) {
	// Server configuration. PORT is honoured for compatibility with hosting
	// platforms; TEXTCHECKER_PORT wins when both are set.
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if port := os.Getenv("TEXTCHECKER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if host := os.Getenv("TEXTCHECKER_HOST"); host != "" {
		config.Server.Host = host
	}

	if timeout := os.Getenv("TEXTCHECKER_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.ReadTimeout = d
		}
	}

	if timeout := os.Getenv("TEXTCHECKER_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.WriteTimeout = d
		}
	}

	if timeout := os.Getenv("TEXTCHECKER_IDLE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.IdleTimeout = d
		}
	}

	if maxBody := os.Getenv("TEXTCHECKER_MAX_BODY_BYTES"); maxBody != "" {
		if n, err := strconv.ParseInt(maxBody, 10, 64); err == nil {
			config.Server.MaxBodyBytes = n
		}
	}

	if tls := os.Getenv("TEXTCHECKER_TLS_ENABLED"); tls != "" {
		config.Server.TLSEnabled = strings.ToLower(tls) == "true"
	}

	if certFile := os.Getenv("TEXTCHECKER_TLS_CERT_FILE"); certFile != "" {
		config.Server.TLSCertFile = certFile
	}

	if keyFile := os.Getenv("TEXTCHECKER_TLS_KEY_FILE"); keyFile != "" {
		config.Server.TLSKeyFile = keyFile
	}

	if cors := os.Getenv("TEXTCHECKER_CORS_ENABLED"); cors != "" {
		config.Server.CORS.Enabled = strings.ToLower(cors) == "true"
	}

	if origins := os.Getenv("TEXTCHECKER_CORS_ALLOWED_ORIGINS"); origins != "" {
		config.Server.CORS.AllowedOrigins = splitList(origins)
	}

	// Completion configuration. The provider is read first so the matching
	// vendor key variable can be picked.
	if provider := os.Getenv("TEXTCHECKER_COMPLETION_PROVIDER"); provider != "" {
		config.Completion.Provider = strings.ToLower(provider)
	}

	switch config.Completion.Provider {
	case models.ProviderAnthropic:
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			config.Completion.APIKey = key
		}
	case models.ProviderGemini:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			config.Completion.APIKey = key
		}
	}

	if key := os.Getenv("TEXTCHECKER_COMPLETION_API_KEY"); key != "" {
		config.Completion.APIKey = key
	}

	if model := os.Getenv("TEXTCHECKER_COMPLETION_MODEL"); model != "" {
		config.Completion.Model = model
	}

	if endpoint := os.Getenv("TEXTCHECKER_COMPLETION_ENDPOINT"); endpoint != "" {
		config.Completion.Endpoint = endpoint
	}

	if maxTokens := os.Getenv("TEXTCHECKER_COMPLETION_MAX_TOKENS"); maxTokens != "" {
		if n, err := strconv.Atoi(maxTokens); err == nil {
			config.Completion.MaxTokens = n
		}
	}

	if timeout := os.Getenv("TEXTCHECKER_COMPLETION_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Completion.Timeout = d
		}
	}

	if rpm := os.Getenv("TEXTCHECKER_COMPLETION_REQUESTS_PER_MINUTE"); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			config.Completion.RequestsPerMinute = n
		}
	}

	// Security configuration
	if password := os.Getenv("ACCESS_PASSWORD"); password != "" {
		config.Security.AccessPassword = password
	}

	if password := os.Getenv("TEXTCHECKER_ACCESS_PASSWORD"); password != "" {
		config.Security.AccessPassword = password
	}

	if enabled := os.Getenv("TEXTCHECKER_RATE_LIMIT_ENABLED"); enabled != "" {
		config.Security.RateLimit.Enabled = strings.ToLower(enabled) == "true"
	}

	if window := os.Getenv("TEXTCHECKER_RATE_LIMIT_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil {
			config.Security.RateLimit.Window = d
		}
	}

	if maxRequests := os.Getenv("TEXTCHECKER_RATE_LIMIT_MAX_REQUESTS"); maxRequests != "" {
		if n, err := strconv.Atoi(maxRequests); err == nil {
			config.Security.RateLimit.MaxRequests = n
		}
	}

	if proxies := os.Getenv("TEXTCHECKER_TRUSTED_PROXIES"); proxies != "" {
		config.Security.TrustedProxies = splitList(proxies)
	}

	// History configuration
	if historyType := os.Getenv("TEXTCHECKER_HISTORY_TYPE"); historyType != "" {
		config.History.Type = historyType
	}

	if dsn := os.Getenv("TEXTCHECKER_HISTORY_DSN"); dsn != "" {
		config.History.DSN = dsn
	}

	// Static files
	if static := os.Getenv("TEXTCHECKER_STATIC_ENABLED"); static != "" {
		config.Static.Enabled = strings.ToLower(static) == "true"
	}

	if dir := os.Getenv("TEXTCHECKER_STATIC_DIR"); dir != "" {
		config.Static.Dir = dir
	}

	// Logging configuration
	if level := os.Getenv("TEXTCHECKER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if format := os.Getenv("TEXTCHECKER_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if output := os.Getenv("TEXTCHECKER_LOG_OUTPUT"); output != "" {
		config.Logging.Output = output
	}

	if filePath := os.Getenv("TEXTCHECKER_LOG_FILE_PATH"); filePath != "" {
		config.Logging.FilePath = filePath
	}

	// Metrics configuration
	if metrics := os.Getenv("TEXTCHECKER_METRICS_ENABLED"); metrics != "" {
		config.Metrics.Enabled = strings.ToLower(metrics) == "true"
	}

	if path := os.Getenv("TEXTCHECKER_METRICS_PATH"); path != "" {
		config.Metrics.Path = path
	}

	if port := os.Getenv("TEXTCHECKER_METRICS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Metrics.Port = p
		}
	}

	// Observability configuration
	if name := os.Getenv("TEXTCHECKER_SERVICE_NAME"); name != "" {
		config.Observability.ServiceName = name
	}

	if tracing := os.Getenv("TEXTCHECKER_TRACING_ENABLED"); tracing != "" {
		config.Observability.Tracing.Enabled = strings.ToLower(tracing) == "true"
	}

	if exporter := os.Getenv("TEXTCHECKER_TRACING_EXPORTER"); exporter != "" {
		config.Observability.Tracing.Exporter = exporter
	}

	if endpoint := os.Getenv("TEXTCHECKER_TRACING_OTLP_ENDPOINT"); endpoint != "" {
		config.Observability.Tracing.OTLPEndpoint = endpoint
	}

	if rate := os.Getenv("TEXTCHECKER_TRACING_SAMPLE_RATE"); rate != "" {
		if r, err := strconv.ParseFloat(rate, 64); err == nil {
			config.Observability.Tracing.SampleRate = r
		}
	}
}

// splitList parses a comma separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SaveExample saves an example configuration file
func SaveExample(filePath string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Get default config with some example values
	config := models.NewDefaultConfig()

	// api_key is left empty; set ANTHROPIC_API_KEY or GEMINI_API_KEY instead.
	config.History.Type = models.HistoryTypeSQLite
	config.History.DSN = "./data/history.db"

	// Example TLS configuration
	config.Server.TLSEnabled = false
	config.Server.TLSCertFile = "/path/to/cert.pem"
	config.Server.TLSKeyFile = "/path/to/key.pem"

	// Marshal to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write to file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
