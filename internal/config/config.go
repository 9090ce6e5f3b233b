package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every setting shared by the console server and the terminal client.
// Values come from defaults, then an optional YAML file (CONFIG_FILE), then the environment.
type Config struct {
	APIBaseURL           string        `yaml:"api_base_url"`
	APITimeout           time.Duration `yaml:"api_timeout"`
	ServerPort           string        `yaml:"server_port"`
	AllowedOrigins       string        `yaml:"allowed_origins"`
	CookieSecret         string        `yaml:"cookie_secret"`
	CSRFKey              string        `yaml:"csrf_key"`
	SecureCookies        bool          `yaml:"secure_cookies"`
	StoreDriver          string        `yaml:"store_driver"` // "sqlite", "postgres" or "memory"
	SQLitePath           string        `yaml:"sqlite_path"`
	DatabaseURL          string        `yaml:"database_url"`
	VaultKey             string        `yaml:"vault_key"` // optional; seals stored values
	LogLevel             string        `yaml:"log_level"`
	DisplayTZ            string        `yaml:"display_tz"`
	WorkspaceIdleTTL     time.Duration `yaml:"workspace_idle_ttl"`
	LogoutOnUnauthorized bool          `yaml:"logout_on_unauthorized"`
	Profile              string        `yaml:"profile"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		APIBaseURL:           "http://localhost:3000/api",
		ServerPort:           "8080",
		StoreDriver:          "sqlite",
		SQLitePath:           "./data/backoffice.db",
		LogLevel:             "info",
		DisplayTZ:            "Asia/Seoul",
		WorkspaceIdleTTL:     12 * time.Hour,
		LogoutOnUnauthorized: true,
		Profile:              "default",
	}
}

// Load reads .env (if present), the optional CONFIG_FILE and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("API_BASE_URL", &c.APIBaseURL)
	setString("SERVER_PORT", &c.ServerPort)
	setString("ALLOWED_ORIGINS", &c.AllowedOrigins)
	setString("COOKIE_SECRET", &c.CookieSecret)
	setString("CSRF_KEY", &c.CSRFKey)
	setString("STORE_DRIVER", &c.StoreDriver)
	setString("SQLITE_PATH", &c.SQLitePath)
	setString("DATABASE_URL", &c.DatabaseURL)
	setString("VAULT_KEY", &c.VaultKey)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("DISPLAY_TZ", &c.DisplayTZ)
	setString("PROFILE", &c.Profile)

	for key, dst := range map[string]*time.Duration{
		"API_TIMEOUT":        &c.APITimeout,
		"WORKSPACE_IDLE_TTL": &c.WorkspaceIdleTTL,
	} {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = d
	}

	for key, dst := range map[string]*bool{
		"SECURE_COOKIES":         &c.SecureCookies,
		"LOGOUT_ON_UNAUTHORIZED": &c.LogoutOnUnauthorized,
	} {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

// Validate checks settings needed by every binary. Server-only requirements
// (cookie secret) are checked by RequireServer.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("config: API_BASE_URL is required")
	}
	switch c.StoreDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("config: SQLITE_PATH is required for the sqlite store")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres store")
		}
	case "memory":
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.VaultKey != "" && len(c.VaultKey) < 16 {
		return errors.New("config: VAULT_KEY must be at least 16 bytes")
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		return errors.New("config: CSRF_KEY must be exactly 32 bytes")
	}
	if _, err := time.LoadLocation(c.DisplayTZ); err != nil {
		return fmt.Errorf("config: DISPLAY_TZ: %w", err)
	}
	return nil
}

// RequireServer checks the settings only the console server needs.
func (c *Config) RequireServer() error {
	if len(c.CookieSecret) < 16 {
		return errors.New("config: COOKIE_SECRET must be at least 16 bytes")
	}
	return nil
}

// Location returns the display time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}
