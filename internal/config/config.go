package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/jask/vitaflow/internal/flow"
	"github.com/jask/vitaflow/internal/session"
)

// Drivers lists the accepted storage.driver values.
var Drivers = []string{"memory", "file", "sqlite", "postgres", "s3"}

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	Flow    FlowConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// StorageConfig selects and configures the kv driver.
type StorageConfig struct {
	Driver   string
	Layout   string
	File     FileConfig
	SQLite   SQLiteConfig `mapstructure:"sqlite"`
	Postgres PostgresConfig
	S3       S3Config `mapstructure:"s3"`
}

type FileConfig struct {
	Path string
}

type SQLiteConfig struct {
	Path string
}

type PostgresConfig struct {
	DSN   string `mapstructure:"dsn"`
	Table string
}

// S3Config holds bucket settings. Credentials fall back to the default AWS
// chain when AccessKeyID is empty.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	Prefix          string
	PathStyle       bool   `mapstructure:"path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type FlowConfig struct {
	Persistence string
}

type LogConfig struct {
	Level string
	File  string
}

type MetricsConfig struct {
	Addr string
}

// DefaultPath is where the config file lives unless VITAFLOW_CONFIG says otherwise.
func DefaultPath() string {
	if p := os.Getenv("VITAFLOW_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "vitaflow", "config.toml")
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "vitaflow")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.layout", string(session.LayoutRecord))
	v.SetDefault("storage.file.path", filepath.Join(dataDir(), "session.json"))
	v.SetDefault("storage.sqlite.path", filepath.Join(dataDir(), "vitaflow.db"))
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.postgres.table", "vitaflow_entries")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.prefix", "vitaflow")
	v.SetDefault("storage.s3.path_style", false)
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("flow.persistence", string(flow.WriteThrough))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(os.Getenv("HOME"), ".local", "state", "vitaflow", "vitaflow.log"))
	v.SetDefault("metrics.addr", "")
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Load reads configuration from path (DefaultPath when empty) and env. Env var
// overrides use prefix VITAFLOW_, e.g. VITAFLOW_STORAGE_DRIVER. A missing file
// is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("VITAFLOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects unknown enum values and drivers missing their required settings.
func (c Config) Validate() error {
	if !slices.Contains(Drivers, c.Storage.Driver) {
		return fmt.Errorf("config: unknown storage.driver %q (want one of %s)", c.Storage.Driver, strings.Join(Drivers, ", "))
	}
	if _, err := session.ParseLayout(c.Storage.Layout); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := flow.ParsePolicy(c.Flow.Persistence); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Storage.Driver {
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return errors.New("config: storage.postgres.dsn is required for the postgres driver")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("config: storage.s3.bucket is required for the s3 driver")
		}
	}
	return nil
}

// Save writes the provided config to path (DefaultPath when empty), creating
// the config directory if needed. Secret keys are never written; supply them
// through the environment.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.driver", cfg.Storage.Driver)
	v.Set("storage.layout", cfg.Storage.Layout)
	v.Set("storage.file.path", cfg.Storage.File.Path)
	v.Set("storage.sqlite.path", cfg.Storage.SQLite.Path)
	v.Set("storage.postgres.dsn", cfg.Storage.Postgres.DSN)
	v.Set("storage.postgres.table", cfg.Storage.Postgres.Table)
	v.Set("storage.s3.bucket", cfg.Storage.S3.Bucket)
	v.Set("storage.s3.region", cfg.Storage.S3.Region)
	v.Set("storage.s3.endpoint", cfg.Storage.S3.Endpoint)
	v.Set("storage.s3.prefix", cfg.Storage.S3.Prefix)
	v.Set("storage.s3.path_style", cfg.Storage.S3.PathStyle)
	v.Set("flow.persistence", cfg.Flow.Persistence)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("metrics.addr", cfg.Metrics.Addr)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
