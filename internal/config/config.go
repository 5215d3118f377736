package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Environment selects the backend deployment the client talks to.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

var baseURLs = map[Environment]string{
	Development: "http://localhost:8080/api",
	Staging:     "https://staging.fintrack.app/api",
	Production:  "https://api.fintrack.app/api",
}

type Config struct {
	// Backend
	Environment Environment
	APIBaseURL  string

	// HTTP client
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	SocketTimeout  time.Duration

	// Token store
	TokenBackend string
	TokenDBPath  string
	TokenKeyHex  string

	// Presentation
	PageSize int
	Locale   string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		Environment: Environment(getEnv("FINTRACK_ENV", string(Development))),
		APIBaseURL:  getEnv("FINTRACK_API_BASE_URL", ""),

		ConnectTimeout: getEnvDuration("FINTRACK_CONNECT_TIMEOUT", 10*time.Second),
		RequestTimeout: getEnvDuration("FINTRACK_REQUEST_TIMEOUT", 30*time.Second),
		SocketTimeout:  getEnvDuration("FINTRACK_SOCKET_TIMEOUT", 30*time.Second),

		TokenBackend: getEnv("FINTRACK_TOKEN_BACKEND", "sqlite"),
		TokenDBPath:  getEnv("FINTRACK_TOKEN_DB_PATH", "./data/fintrack.db"),
		TokenKeyHex:  getEnv("FINTRACK_TOKEN_KEY", ""),

		PageSize: getEnvInt("FINTRACK_PAGE_SIZE", 20),
		Locale:   getEnv("FINTRACK_LOCALE", "en-US"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// BaseURL returns the override when set, otherwise the URL of the selected
// environment.
func (c *Config) BaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return baseURLs[c.Environment]
}

// TokenKey decodes the optional token sealing key.
func (c *Config) TokenKey() ([]byte, error) {
	if c.TokenKeyHex == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.TokenKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode token key: %w", err)
	}
	return key, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if _, ok := baseURLs[c.Environment]; !ok {
		errors = append(errors, fmt.Sprintf("invalid environment '%s': must be one of [development staging production]", c.Environment))
	}

	if c.APIBaseURL != "" {
		if parsedURL, err := url.Parse(c.APIBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"connect", c.ConnectTimeout},
		{"request", c.RequestTimeout},
		{"socket", c.SocketTimeout},
	}
	for _, tt := range timeouts {
		name, d := tt.name, tt.d
		if d <= 0 {
			errors = append(errors, fmt.Sprintf("invalid %s timeout %v: must be positive", name, d))
		} else if d > 5*time.Minute {
			errors = append(errors, fmt.Sprintf("invalid %s timeout %v: must be at most 5 minutes", name, d))
		}
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.TokenBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid token backend '%s': must be one of %v", c.TokenBackend, validBackends))
	}

	if c.TokenBackend == "sqlite" {
		if c.TokenDBPath == "" {
			errors = append(errors, "token database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.TokenDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0o700); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create token database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if key, err := c.TokenKey(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid token key: %v", err))
	} else if key != nil && len(key) != 32 {
		errors = append(errors, fmt.Sprintf("invalid token key: must be 32 bytes, got %d", len(key)))
	}

	if c.PageSize < 1 || c.PageSize > 100 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be between 1 and 100", c.PageSize))
	}

	if _, err := language.Parse(c.Locale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
