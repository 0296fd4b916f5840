package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// YAML-backed settings, overridden by FRUITS_* env vars, then by root flags.

const fileName = "fruits.yaml"

const (
	envURL         = "FRUITS_URL"
	envHost        = "FRUITS_HOST"
	envPort        = "FRUITS_PORT"
	envPath        = "FRUITS_PATH"
	envTimeout     = "FRUITS_TIMEOUT"
	envAllowUpdate = "FRUITS_ALLOW_UPDATE"
	envLogLevel    = "FRUITS_LOG_LEVEL"
	envLogFile     = "FRUITS_LOG_FILE"
	envTheme       = "FRUITS_THEME"
)

type Config struct {
	URL  string `yaml:"url"` // full collection URL; wins over host/port/path
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`

	// Zero means no timeout: a hung request just leaves the UI waiting.
	Timeout time.Duration `yaml:"timeout"`

	// AllowUpdate turns save-with-id into a PUT instead of the
	// "not supported" notice.
	AllowUpdate bool `yaml:"allow_update"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	Theme    string `yaml:"theme"`
}

func Default() Config {
	return Config{
		Host:     "localhost",
		Port:     8080,
		Path:     "/api/fruits",
		LogLevel: "info",
		Theme:    "classic",
	}
}

func defaultPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, fileName), nil
}

// Load reads path (or ./fruits.yaml when empty) on top of the defaults and
// applies env overrides. A missing default file is not an error; a missing
// explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := defaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str(envURL, &c.URL)
	str(envHost, &c.Host)
	str(envPath, &c.Path)
	str(envLogLevel, &c.LogLevel)
	str(envLogFile, &c.LogFile)
	str(envTheme, &c.Theme)

	if v := strings.TrimSpace(getenv(envPort)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envPort, err)
		}
		c.Port = n
	}
	if v := strings.TrimSpace(getenv(envTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTimeout, err)
		}
		c.Timeout = d
	}
	if v := strings.TrimSpace(getenv(envAllowUpdate)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envAllowUpdate, err)
		}
		c.AllowUpdate = b
	}
	return nil
}

func (c Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", c.Timeout)
	}
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return fmt.Errorf("url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("url: %q is not absolute", c.URL)
		}
		return nil
	}
	if strings.TrimSpace(c.Host) == "" {
		return errors.New("host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	return nil
}

// BaseURL is the collection endpoint, http://{host}:{port}{path} unless URL is set.
func (c Config) BaseURL() string {
	if c.URL != "" {
		return strings.TrimRight(c.URL, "/")
	}
	p := "/" + strings.Trim(c.Path, "/")
	u := url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   p,
	}
	return u.String()
}
