package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	dc "fuel-dashboard/domain/config"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is set.
const DefaultPath = "./config.yml"

// Config represents the structure of config.yml used by the tool.
type Config struct {
	Pipeline dc.Pipeline `yaml:"pipeline"`
	Server   Server      `yaml:"server"`
	Auth     Auth        `yaml:"auth"`
}

type Server struct {
	Addr      string `yaml:"addr"`
	UIDir     string `yaml:"ui_dir"`
	MaxUpload string `yaml:"max_upload"` // echo body limit, e.g. "10M"

	// SessionTTL ends a session after this much idle time, e.g. "2h".
	// Zero keeps sessions until they are deleted.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// Auth configures the optional credential gate. The gate is active only when
// both fields are set.
type Auth struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

// Enabled reports whether the gate is configured.
func (a Auth) Enabled() bool {
	return a.Username != "" && a.PasswordHash != ""
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Pipeline: dc.DefaultPipeline(),
		Server: Server{
			Addr:       ":8080",
			UIDir:      "./ui/dist",
			MaxUpload:  "10M",
			SessionTTL: 2 * time.Hour,
		},
	}
}

// ResolvePath picks the config path: explicit flag, then CONFIG_PATH, then
// DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load parses the YAML configuration file at path over the defaults. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Info("config.default", "path", path)
	} else {
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		slog.Info(fmt.Sprintf("Loaded config: %s", path))
	}

	if v := os.Getenv("FUEL_USERNAME"); v != "" {
		c.Auth.Username = v
	}
	if v := os.Getenv("FUEL_PASSWORD_HASH"); v != "" {
		c.Auth.PasswordHash = v
	}
	c.Pipeline.TrailingMetric = dc.TrailingMetric(strings.ToLower(string(c.Pipeline.TrailingMetric)))

	if err := c.Pipeline.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if c.Server.SessionTTL < 0 {
		return nil, fmt.Errorf("server.session_ttl must not be negative, got %s", c.Server.SessionTTL)
	}
	if (c.Auth.Username == "") != (c.Auth.PasswordHash == "") {
		return nil, errors.New("auth.username and auth.password_hash must be set together")
	}
	return c, nil
}
