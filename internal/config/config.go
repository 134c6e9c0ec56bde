// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "NJABOOT"

// Storage drivers accepted by ClientConfig.StorageDriver.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config is the full runtime configuration shared by the CLI and the API server.
type Config struct {
	App    AppConfig
	Server ServerConfig
	OIDC   OIDCConfig
	Client ClientConfig
}

// AppConfig holds settings common to every binary.
type AppConfig struct {
	Env       string `envconfig:"NJABOOT_ENV" default:"dev"`
	LogLevel  string `envconfig:"NJABOOT_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"NJABOOT_LOG_FORMAT" default:"json"`
}

// IsDev reports whether the app runs in a development environment.
func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev") || strings.EqualFold(a.Env, "development")
}

// ServerConfig configures the authentication API server.
type ServerConfig struct {
	Addr            string        `envconfig:"NJABOOT_ADDR" default:":8080"`
	DatabaseURL     string        `envconfig:"NJABOOT_DATABASE_URL"`
	SessionTTL      time.Duration `envconfig:"NJABOOT_SESSION_TTL" default:"24h"`
	ManagerEmail    string        `envconfig:"NJABOOT_MANAGER_EMAIL"`
	ManagerPassword string        `envconfig:"NJABOOT_MANAGER_PASSWORD"`
	ShutdownTimeout time.Duration `envconfig:"NJABOOT_SHUTDOWN_TIMEOUT" default:"10s"`
}

// OIDCConfig enables single sign-on when Issuer is set.
type OIDCConfig struct {
	Issuer       string `envconfig:"NJABOOT_OIDC_ISSUER"`
	ClientID     string `envconfig:"NJABOOT_OIDC_CLIENT_ID"`
	ClientSecret string `envconfig:"NJABOOT_OIDC_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"NJABOOT_OIDC_REDIRECT_URL"`
}

// Enabled reports whether SSO is configured.
func (o OIDCConfig) Enabled() bool {
	return o.Issuer != ""
}

// ClientConfig configures the storefront client core.
type ClientConfig struct {
	APIURL        string        `envconfig:"NJABOOT_API_URL" default:"http://localhost:8080"`
	HTTPTimeout   time.Duration `envconfig:"NJABOOT_HTTP_TIMEOUT" default:"15s"`
	StorageDriver string        `envconfig:"NJABOOT_STORAGE" default:"sqlite"`
	SQLitePath    string        `envconfig:"NJABOOT_SQLITE_PATH"`
	RedisURL      string        `envconfig:"NJABOOT_REDIS_URL"`
	CatalogPath   string        `envconfig:"NJABOOT_CATALOG" default:"catalog.yaml"`
}

// Load reads the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read parses the environment without validating it, for callers that
// layer flags on top and call Validate afterwards.
func Read() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Client.SQLitePath == "" {
		cfg.Client.SQLitePath = defaultSQLitePath()
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Client.StorageDriver {
	case StorageSQLite, StorageMemory:
	case StorageRedis:
		if c.Client.RedisURL == "" {
			return errors.New("NJABOOT_REDIS_URL is required when NJABOOT_STORAGE=redis")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Client.StorageDriver)
	}
	if (c.Server.ManagerEmail == "") != (c.Server.ManagerPassword == "") {
		return errors.New("NJABOOT_MANAGER_EMAIL and NJABOOT_MANAGER_PASSWORD must be set together")
	}
	if c.OIDC.Enabled() && (c.OIDC.ClientID == "" || c.OIDC.RedirectURL == "") {
		return errors.New("NJABOOT_OIDC_CLIENT_ID and NJABOOT_OIDC_REDIRECT_URL are required with NJABOOT_OIDC_ISSUER")
	}
	return nil
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "njaboot.db"
	}
	return filepath.Join(dir, "njaboot", "state.db")
}
