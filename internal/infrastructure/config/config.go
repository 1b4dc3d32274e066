package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration. Every key has a default, so a
// missing config file is not an error.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Numbering NumberingConfig `mapstructure:"numbering"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, or file path
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN returns the connection URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisConfig backs the shared read cache; disabled means in-process only
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds the settings used to verify caller tokens
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
	// Leeway tolerates clock skew between the token issuer and this service
	Leeway time.Duration `mapstructure:"leeway"`
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxHeaderBytes    int           `mapstructure:"max_header_bytes"`
	MaxBodySize       int64         `mapstructure:"max_body_size"`
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	CORSAllowOrigins  []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods  []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders  []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies    []string      `mapstructure:"trusted_proxies"`
}

// NumberingConfig holds invoice number allocation settings
type NumberingConfig struct {
	SalePrefix     string        `mapstructure:"sale_prefix"`
	PurchasePrefix string        `mapstructure:"purchase_prefix"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
}

type InventoryConfig struct {
	// EnforceStockFloor rejects sales that would drive derived stock below zero
	EnforceStockFloor bool `mapstructure:"enforce_stock_floor"`
}

type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	StockTTL  time.Duration `mapstructure:"stock_ttl"`
	ReportTTL time.Duration `mapstructure:"report_ttl"`
}

// StorageConfig is the archive target for exported workbooks
type StorageConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
	Prefix          string `mapstructure:"prefix"`
}

type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"` // OTLP gRPC, e.g. localhost:4317
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"` // dev only
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
}

// Load reads configuration with this precedence, highest first:
//  1. PARTSHOP_ environment variables (PARTSHOP_DATABASE_PASSWORD, ...)
//  2. config.toml in ., ./config or /etc/partshop
//  3. built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/partshop")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("PARTSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key. Unmarshal only sees environment
// overrides for keys viper already knows about.
func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"app.name": "partshop-backend",
		"app.env":  "development",
		"app.port": "8080",

		"database.host":               "localhost",
		"database.port":               5432,
		"database.user":               "postgres",
		"database.password":           "",
		"database.dbname":             "partshop",
		"database.sslmode":            "disable",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  60,
		"database.conn_max_idle_time": 30,

		"redis.enabled":  false,
		"redis.host":     "localhost",
		"redis.port":     6379,
		"redis.password": "",
		"redis.db":       0,

		"jwt.secret": "",
		"jwt.issuer": "partshop",
		"jwt.leeway": 30 * time.Second,

		"log.level":  "info",
		"log.format": "console",
		"log.output": "stdout",

		"http.read_timeout":        15 * time.Second,
		"http.write_timeout":       30 * time.Second,
		"http.idle_timeout":        60 * time.Second,
		"http.request_timeout":     20 * time.Second,
		"http.max_header_bytes":    1 << 20,
		"http.max_body_size":       int64(10 << 20), // part imports are xlsx uploads
		"http.rate_limit_enabled":  false,
		"http.rate_limit_requests": 100,
		"http.rate_limit_window":   time.Minute,
		"http.cors_allow_origins":  []string{},
		"http.cors_allow_methods":  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		"http.cors_allow_headers":  []string{"Content-Type", "Authorization", "X-Request-ID"},
		"http.trusted_proxies":     []string{},

		"numbering.sale_prefix":     "JCB",
		"numbering.purchase_prefix": "PUR",
		"numbering.max_retries":     5,
		"numbering.retry_backoff":   20 * time.Millisecond,

		"inventory.enforce_stock_floor": false,

		"cache.enabled":    false,
		"cache.key_prefix": "partshop:",
		"cache.stock_ttl":  5 * time.Minute,
		"cache.report_ttl": 15 * time.Minute,

		"storage.enabled":           false,
		"storage.endpoint":          "",
		"storage.region":            "ap-south-1",
		"storage.bucket":            "",
		"storage.access_key_id":     "",
		"storage.secret_access_key": "",
		"storage.use_path_style":    false,
		"storage.prefix":            "exports/",

		"telemetry.enabled":                 false,
		"telemetry.collector_endpoint":      "localhost:4317",
		"telemetry.sampling_ratio":          1.0,
		"telemetry.service_name":            "partshop-backend",
		"telemetry.insecure":                false,
		"telemetry.metrics_enabled":         false,
		"telemetry.metrics_interval":        30 * time.Second,
		"telemetry.db_trace_enabled":        false,
		"telemetry.db_log_full_sql":         false,
		"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// validate reports every problem at once
func (c *Config) validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Database.MaxOpenConns <= 0 {
		fail("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		fail("database.max_idle_conns must be between 0 and database.max_open_conns (%d)", c.Database.MaxOpenConns)
	}

	if c.Numbering.MaxRetries < 1 {
		fail("numbering.max_retries must be at least 1")
	}
	for key, prefix := range map[string]string{
		"numbering.sale_prefix":     c.Numbering.SalePrefix,
		"numbering.purchase_prefix": c.Numbering.PurchasePrefix,
	} {
		// '/' separates number parts, '%' and '_' are LIKE wildcards
		if prefix == "" || strings.ContainsAny(prefix, "/%_ ") {
			fail("%s must be non-empty without '/', '%%', '_' or spaces", key)
		}
	}
	if strings.EqualFold(c.Numbering.SalePrefix, c.Numbering.PurchasePrefix) {
		fail("numbering.sale_prefix and numbering.purchase_prefix must differ")
	}

	if c.Storage.Enabled && c.Storage.Bucket == "" {
		fail("storage.bucket is required when storage is enabled")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		fail("telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			fail("jwt.secret of at least 32 characters is required in production")
		}
		if c.Database.Password == "" {
			fail("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			fail("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				fail("http.cors_allow_origins cannot be '*' in production")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			fail("telemetry.db_log_full_sql must be false in production")
		}
	}
	return errors.Join(errs...)
}
