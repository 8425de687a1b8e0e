package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override file settings.
// Nested keys use a double underscore: LASTSTART_SCHEDULING__MAX_ITEMS.
const EnvPrefix = "LASTSTART_"

type Config struct {
	DB         DBConfig         `json:"db"`
	Logging    LoggingConfig    `json:"logging"`
	Scheduling SchedulingConfig `json:"scheduling"`
	Calendar   CalendarConfig   `json:"calendar"`
	Metrics    MetricsConfig    `json:"metrics"`
}

// Load reads the optional config file at path, applies environment
// overrides and fills in defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	prefix := strings.ToLower(EnvPrefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), prefix)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// SetDefaults fills every unset section value.
func (c *Config) SetDefaults() {
	c.DB.SetDefaults()
	c.Logging.SetDefaults()
	c.Scheduling.SetDefaults()
	c.Calendar.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Scheduling.Validate(); err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}
	if err := c.Calendar.Validate(); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	return nil
}

// DBConfig locates the SQLite database.
type DBConfig struct {
	Path string `json:"path"`
}

// SetDefaults places the database under ~/.laststart.
func (c *DBConfig) SetDefaults() {
	if c.Path != "" {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		c.Path = "laststart.db"
		return
	}
	c.Path = filepath.Join(home, ".laststart", "laststart.db")
}

func (c DBConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// MetricsConfig enables the Prometheus endpoint of long-running commands.
type MetricsConfig struct {
	// Addr is the listen address, e.g. ":9091". Empty disables the endpoint.
	Addr string `json:"addr"`
}
