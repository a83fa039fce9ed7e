package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"aircare/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Draft      DraftConfig      `yaml:"draft"`
	Scope      ScopeConfig      `yaml:"scope"`
	Notify     NotifyConfig     `yaml:"notify"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type DraftConfig struct {
	// TTLSeconds ограничивает время жизни брошенного черновика в Redis.
	TTLSeconds int `yaml:"ttl_seconds"`
}

type ScopeConfig struct {
	// Prefixes перечисляет пути, внутри которых черновик остаётся живым.
	Prefixes []string `yaml:"prefixes"`
}

type NotifyConfig struct {
	Enabled        bool   `yaml:"enabled"`
	DefaultURL     string `yaml:"default_url"`
	PartnerURL     string `yaml:"partner_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
	// SessionHeader несёт идентификатор сессии витрины.
	SessionHeader string `yaml:"session_header"`
}

type APIHTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// Загружаем .env файл если существует
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Notify.Enabled {
		if c.Notify.DefaultURL == "" {
			return errors.New("notify.default_url is required when notify is enabled")
		}
		if c.Notify.PartnerURL == "" {
			return errors.New("notify.partner_url is required when notify is enabled")
		}
	}

	return ValidateScopePrefixes(c.Scope.Prefixes)
}

// ValidateScopePrefixes rejects empty, non-rooted or duplicate path prefixes.
func ValidateScopePrefixes(prefixes []string) error {
	seen := make(map[string]bool)
	for _, prefix := range prefixes {
		if prefix == "" || !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("scope prefix %q must start with /", prefix)
		}
		if seen[prefix] {
			return fmt.Errorf("duplicate scope prefix: %s", prefix)
		}
		seen[prefix] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if !c.API.HTTP.Enabled && c.API.Enabled {
		c.API.HTTP.Enabled = true
	}
	// auth enabled by default when API is enabled
	if !c.API.Auth.Enabled {
		c.API.Auth.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.SessionHeader == "" {
		c.API.SessionHeader = "x-session-id"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	if c.Draft.TTLSeconds == 0 {
		c.Draft.TTLSeconds = models.DefaultDraftTTL
	}
	if len(c.Scope.Prefixes) == 0 {
		c.Scope.Prefixes = []string{
			models.DefaultScopePrefixBooking,
			models.DefaultScopePrefixPartner,
		}
	}
	if c.Notify.TimeoutSeconds == 0 {
		c.Notify.TimeoutSeconds = models.DefaultNotifyTimeout
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
