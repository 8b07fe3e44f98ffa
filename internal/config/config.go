// Package config loads dashboardctl settings from defaults, an optional YAML
// file, and DASHBOARD_* environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "DASHBOARD_"

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" envPrefix:"SERVER_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Catalog   CatalogConfig   `yaml:"catalog" envPrefix:"CATALOG_"`
	Widgets   WidgetsConfig   `yaml:"widgets" envPrefix:"WIDGETS_"`
	Analytics AnalyticsConfig `yaml:"analytics" envPrefix:"ANALYTICS_"`
	Viewer    ViewerConfig    `yaml:"viewer" envPrefix:"VIEWER_"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr      string `yaml:"addr" env:"ADDR"`
	BasePath  string `yaml:"base_path" env:"BASE_PATH"`
	Locale    string `yaml:"locale" env:"LOCALE"`
	// Transport is "http" (net/http ServeMux) or "fiber" (go-router).
	Transport string `yaml:"transport" env:"TRANSPORT"`
	// Templates is a directory whose files shadow the embedded dashboard
	// templates, e.g. widgets/order_list.html.
	Templates string `yaml:"templates" env:"TEMPLATES"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// CatalogConfig points at the order/product store.
type CatalogConfig struct {
	DSN  string `yaml:"dsn" env:"DSN"`
	Seed bool   `yaml:"seed" env:"SEED"`
}

// WidgetsConfig tunes the interactive widgets.
type WidgetsConfig struct {
	TablePageSize  int           `yaml:"table_page_size" env:"TABLE_PAGE_SIZE"`
	SelectPageSize int           `yaml:"select_page_size" env:"SELECT_PAGE_SIZE"`
	DebounceDelay  time.Duration `yaml:"debounce_delay" env:"DEBOUNCE_DELAY"`
	ChartCacheTTL  time.Duration `yaml:"chart_cache_ttl" env:"CHART_CACHE_TTL"`
}

// AnalyticsConfig selects the KPI and revenue source. Mode "mock" serves the
// built-in data set, "http" calls a remote BI service.
type AnalyticsConfig struct {
	Mode    string        `yaml:"mode" env:"MODE"`
	BaseURL string        `yaml:"base_url" env:"BASE_URL"`
	APIKey  string        `yaml:"api_key" env:"API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// ViewerConfig is the identity used by the terminal dashboard.
type ViewerConfig struct {
	UserID string   `yaml:"user_id" env:"USER_ID"`
	Roles  []string `yaml:"roles" env:"ROLES" envSeparator:","`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:      ":9090",
			BasePath:  "/admin",
			Locale:    "en",
			Transport: "http",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Catalog: CatalogConfig{
			DSN:  "file:dashboard.db?cache=shared",
			Seed: true,
		},
		Widgets: WidgetsConfig{
			TablePageSize:  5,
			SelectPageSize: 20,
			DebounceDelay:  300 * time.Millisecond,
			ChartCacheTTL:  time.Minute,
		},
		Analytics: AnalyticsConfig{
			Mode:    "mock",
			Timeout: 10 * time.Second,
		},
		Viewer: ViewerConfig{
			UserID: "admin",
			Roles:  []string{"admin"},
		},
	}
}

// Load applies the YAML file at path (when non-empty) and the environment on
// top of Default, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Decode(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode reads YAML into cfg, rejecting unknown keys. Keys missing from the
// document keep their current values.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// ParseEnv applies DASHBOARD_* overrides to cfg.
func ParseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("config: server.addr is required"))
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		errs = append(errs, fmt.Errorf("config: server.base_path %q must start with /", c.Server.BasePath))
	}
	if c.Server.Templates != "" {
		if info, err := os.Stat(c.Server.Templates); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("config: server.templates %q must be a directory", c.Server.Templates))
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log.format %q must be text or json", c.Log.Format))
	}
	if c.Widgets.TablePageSize <= 0 {
		errs = append(errs, errors.New("config: widgets.table_page_size must be positive"))
	}
	if c.Widgets.SelectPageSize <= 0 {
		errs = append(errs, errors.New("config: widgets.select_page_size must be positive"))
	}
	if c.Widgets.DebounceDelay < 0 {
		errs = append(errs, errors.New("config: widgets.debounce_delay must not be negative"))
	}
	switch c.Server.Transport {
	case "http", "fiber":
	default:
		errs = append(errs, fmt.Errorf("config: server.transport %q must be http or fiber", c.Server.Transport))
	}
	switch c.Analytics.Mode {
	case "mock":
	case "http":
		if strings.TrimSpace(c.Analytics.BaseURL) == "" {
			errs = append(errs, errors.New("config: analytics.base_url is required in http mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: analytics.mode %q must be mock or http", c.Analytics.Mode))
	}
	return errors.Join(errs...)
}
