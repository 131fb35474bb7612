package common

import (
	"fmt"
	"net/url"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/bikeracer4487/xray-mcp/internal/xrayerrors"
)

const defaultBaseURL = "https://xray.cloud.getxray.app"

// Config represents the application configuration
type Config struct {
	Xray    XrayConfig    `toml:"xray"`
	Logging LoggingConfig `toml:"logging"`
}

// XrayConfig carries the Xray Cloud API credentials and endpoint.
// Credentials are immutable after load and never logged.
type XrayConfig struct {
	ClientID     string `toml:"client_id" validate:"required"`
	ClientSecret string `toml:"client_secret" validate:"required"`
	BaseURL      string `toml:"base_url" validate:"required"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Output string `toml:"output"` // "console" or "file"
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Xray: XrayConfig{
			BaseURL: defaultBaseURL,
		},
		Logging: LoggingConfig{
			Level:  "warn", // Minimal logging to avoid cluttering MCP stdio
			Output: "console",
		},
	}
}

// LoadConfig loads configuration with priority: default -> file -> env.
// The path may be empty, in which case only defaults and environment
// variables apply. Environment variables always win.
func LoadConfig(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, xrayerrors.Wrap(xrayerrors.KindConfig, err, "failed to read config file %s: %v", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, xrayerrors.Wrap(xrayerrors.KindConfig, err, "failed to parse config file %s: %v", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if clientID := os.Getenv("XRAY_CLIENT_ID"); clientID != "" {
		config.Xray.ClientID = clientID
	}
	if clientSecret := os.Getenv("XRAY_CLIENT_SECRET"); clientSecret != "" {
		config.Xray.ClientSecret = clientSecret
	}
	if baseURL := os.Getenv("XRAY_BASE_URL"); baseURL != "" {
		config.Xray.BaseURL = baseURL
	}
	if level := os.Getenv("XRAY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("XRAY_LOG_OUTPUT"); output != "" {
		config.Logging.Output = output
	}
}

// Validate checks required credentials and the base URL shape. All failures
// surface as ConfigError.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return xrayerrors.New(xrayerrors.KindConfig, "missing required configuration: %s", envNameFor(errs[0].Field()))
		}
		return xrayerrors.Wrap(xrayerrors.KindConfig, err, "invalid configuration: %v", err)
	}

	parsed, err := url.Parse(c.Xray.BaseURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return xrayerrors.New(xrayerrors.KindConfig, "XRAY_BASE_URL is not a valid absolute URL: %q", c.Xray.BaseURL)
	}
	if parsed.Scheme != "https" {
		return xrayerrors.New(xrayerrors.KindConfig, "XRAY_BASE_URL must use https, got %q", parsed.Scheme)
	}

	return nil
}

func envNameFor(field string) string {
	switch field {
	case "ClientID":
		return "XRAY_CLIENT_ID"
	case "ClientSecret":
		return "XRAY_CLIENT_SECRET"
	case "BaseURL":
		return "XRAY_BASE_URL"
	default:
		return fmt.Sprintf("XRAY_%s", field)
	}
}
