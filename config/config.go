package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Lock      LockConfig      `mapstructure:"lock"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // memory, postgres
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ProvidersConfig locates the external verification endpoints.
type ProvidersConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	SameBankPath      string        `mapstructure:"same_bank_path"`
	SameWalletPath    string        `mapstructure:"same_wallet_path"`
	CrossProviderPath string        `mapstructure:"cross_provider_path"`
}

// LockConfig tunes the per-claim exclusive lock.
type LockConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	WaitTimeout   time.Duration `mapstructure:"wait_timeout"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// WorkflowConfig tunes operator interactions.
type WorkflowConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`             // idle workflows are dropped after this
	SweepInterval time.Duration `mapstructure:"sweep_interval"`  // how often idle workflows are swept
	MaxOutcomeAge time.Duration `mapstructure:"max_outcome_age"` // oldest verification an approval accepts
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"` // empty = operator API unauthenticated
	Issuer string        `mapstructure:"issuer"`
	Expiry time.Duration `mapstructure:"expiry"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: DRS_ (Deposit Reconciliation Service).
// Nested keys use underscore: DRS_DATABASE_HOST, DRS_PROVIDERS_BASE_URL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "deposits")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("providers.base_url", "http://localhost:3001")
	v.SetDefault("providers.timeout", "15s")
	v.SetDefault("providers.same_bank_path", "/api/verify/cbe")
	v.SetDefault("providers.same_wallet_path", "/api/verify/telebirr")
	v.SetDefault("providers.cross_provider_path", "/api/verify/cbe-telebirr")
	v.SetDefault("lock.ttl", "30s")
	v.SetDefault("lock.wait_timeout", "5s")
	v.SetDefault("lock.retry_interval", "50ms")
	v.SetDefault("workflow.ttl", "30m")
	v.SetDefault("workflow.sweep_interval", "1m")
	v.SetDefault("workflow.max_outcome_age", "15m")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "deposit-reconciler")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("metrics.enabled", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// DRS_DATABASE_HOST -> database.host
	v.SetEnvPrefix("DRS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The file is optional; env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unsupported driver %q", c.Storage.Driver))
	}
	if c.Providers.BaseURL == "" {
		errs = append(errs, errors.New("providers.base_url: required"))
	}
	if c.Providers.Timeout <= 0 {
		errs = append(errs, errors.New("providers.timeout: must be positive"))
	}
	if c.Lock.TTL <= 0 || c.Lock.WaitTimeout <= 0 || c.Lock.RetryInterval <= 0 {
		errs = append(errs, errors.New("lock: ttl, wait_timeout and retry_interval must be positive"))
	}
	if c.Workflow.TTL <= 0 || c.Workflow.SweepInterval <= 0 || c.Workflow.MaxOutcomeAge <= 0 {
		errs = append(errs, errors.New("workflow: ttl, sweep_interval and max_outcome_age must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
