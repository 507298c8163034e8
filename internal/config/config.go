package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Location struct {
		// Kept as text: an unusable value falls back to the ambient source.
		Latitude  string
		Longitude string
	}

	Forecast struct {
		BaseURL   string
		UserAgent string
		Hourly    bool
		Timeout   time.Duration
	}

	RateLimit struct {
		RequestsPerSecond float64
		Burst             int
	}

	CircuitBreaker struct {
		Threshold int
		Timeout   time.Duration
	}

	Display struct {
		InitialStyle string
		Title        string
	}

	Control struct {
		Enabled      bool
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}

	Scheduler struct {
		Refresh string
	}

	Ambient struct {
		Enabled bool
		URL     string
	}

	Log struct {
		Level string
		File  string
	}
}

// fileConfig is the optional YAML layer. Every value is text and is parsed
// the same way as its environment variable.
type fileConfig struct {
	Location struct {
		Latitude  string `yaml:"latitude"`
		Longitude string `yaml:"longitude"`
	} `yaml:"location"`
	Forecast struct {
		BaseURL   string `yaml:"baseUrl"`
		UserAgent string `yaml:"userAgent"`
		Hourly    string `yaml:"hourly"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"forecast"`
	RateLimit struct {
		RequestsPerSecond string `yaml:"requestsPerSecond"`
		Burst             string `yaml:"burst"`
	} `yaml:"rateLimit"`
	CircuitBreaker struct {
		Threshold string `yaml:"threshold"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"circuitBreaker"`
	Display struct {
		InitialStyle string `yaml:"style"`
		Title        string `yaml:"title"`
	} `yaml:"display"`
	Control struct {
		Enabled      string `yaml:"enabled"`
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"readTimeout"`
		WriteTimeout string `yaml:"writeTimeout"`
	} `yaml:"control"`
	Scheduler struct {
		Refresh string `yaml:"refresh"`
	} `yaml:"scheduler"`
	Ambient struct {
		Enabled string `yaml:"enabled"`
		URL     string `yaml:"url"`
	} `yaml:"ambient"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// LoadConfig reads .env, then the YAML file named by FORECAST_CONFIG
// (default forecast.yaml, optional), then the environment. Environment
// variables win over the file.
func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		zap.L().Info("No .env file found, using environment variables")
	}

	file, err := loadFile(getEnv("FORECAST_CONFIG", "forecast.yaml"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	// Location
	cfg.Location.Latitude = getEnv("FORECAST_LATITUDE", file.Location.Latitude)
	cfg.Location.Longitude = getEnv("FORECAST_LONGITUDE", file.Location.Longitude)

	// Forecast service
	cfg.Forecast.BaseURL = getEnv("NWS_URL", or(file.Forecast.BaseURL, "https://api.weather.gov"))
	cfg.Forecast.UserAgent = getEnv("NWS_USER_AGENT", or(file.Forecast.UserAgent, "nws-forecast/1.0"))
	cfg.Forecast.Hourly = parseBool(getEnv("FORECAST_HOURLY", or(file.Forecast.Hourly, "true")))
	cfg.Forecast.Timeout = parseDuration(getEnv("FORECAST_TIMEOUT", or(file.Forecast.Timeout, "30s")))

	// Rate limiting
	cfg.RateLimit.RequestsPerSecond = parseFloat(getEnv("RATE_LIMIT_RPS", or(file.RateLimit.RequestsPerSecond, "0.5")))
	cfg.RateLimit.Burst = parseInt(getEnv("RATE_LIMIT_BURST", or(file.RateLimit.Burst, "2")))

	// Circuit breaker configuration
	cfg.CircuitBreaker.Threshold = parseInt(getEnv("CIRCUIT_BREAKER_THRESHOLD", or(file.CircuitBreaker.Threshold, "3")))
	cfg.CircuitBreaker.Timeout = parseDuration(getEnv("CIRCUIT_BREAKER_TIMEOUT", or(file.CircuitBreaker.Timeout, "30s")))

	// Display
	cfg.Display.InitialStyle = getEnv("FORECAST_STYLE", or(file.Display.InitialStyle, "standard"))
	cfg.Display.Title = getEnv("FORECAST_TITLE", or(file.Display.Title, "*forecast*"))

	// Control server
	cfg.Control.Enabled = parseBool(getEnv("CONTROL_ENABLED", or(file.Control.Enabled, "false")))
	cfg.Control.Port = getEnv("CONTROL_PORT", or(file.Control.Port, "8080"))
	cfg.Control.ReadTimeout = parseDuration(getEnv("CONTROL_READ_TIMEOUT", or(file.Control.ReadTimeout, "10s")))
	cfg.Control.WriteTimeout = parseDuration(getEnv("CONTROL_WRITE_TIMEOUT", or(file.Control.WriteTimeout, "10s")))

	// Scheduler configuration
	cfg.Scheduler.Refresh = getEnv("REFRESH_SCHEDULE", file.Scheduler.Refresh)

	// Ambient location
	cfg.Ambient.Enabled = parseBool(getEnv("AMBIENT_LOCATION", or(file.Ambient.Enabled, "true")))
	cfg.Ambient.URL = getEnv("AMBIENT_LOCATION_URL", file.Ambient.URL)

	// Logging
	cfg.Log.Level = getEnv("LOG_LEVEL", or(file.Log.Level, "info"))
	cfg.Log.File = getEnv("LOG_FILE", or(file.Log.File, "forecast.log"))

	return cfg, nil
}

func loadFile(path string) (*fileConfig, error) {
	file := &fileConfig{}

	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Debug("No config file found", zap.String("path", path))
		return file, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(buf, file); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return file, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func or(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		zap.L().Warn("Failed to parse duration", zap.String("value", value), zap.Error(err))
		return 0
	}
	return duration
}

func parseInt(value string) int {
	intValue, err := strconv.Atoi(value)
	if err != nil {
		zap.L().Warn("Failed to parse int", zap.String("value", value), zap.Error(err))
		return 0
	}
	return intValue
}

func parseFloat(value string) float64 {
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		zap.L().Warn("Failed to parse float", zap.String("value", value), zap.Error(err))
		return 0
	}
	return floatValue
}

func parseBool(value string) bool {
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		zap.L().Warn("Failed to parse bool", zap.String("value", value), zap.Error(err))
		return false
	}
	return boolValue
}
