package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults applied by Validate when the corresponding field is empty.
const (
	DefaultSearchEndpoint   = "https://vit-tm-task.api.trademarkia.app/api/v3/us"
	DefaultSearchQuery      = "check"
	DefaultStaleAfter       = "5m"
	DefaultCacheMaxEntries  = 1000
	DefaultRedisPrefix      = "tmsearch"
	DefaultSessionIdle      = "30m"
	DefaultSessionMaxActive = 10000
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Search   SearchConfig   `koanf:"search"`
	Cache    CacheConfig    `koanf:"cache"`
	Session  SessionConfig  `koanf:"session"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host       string     `koanf:"host"`
	Port       int        `koanf:"port"`
	Mode       string     `koanf:"mode"`
	CSRFSecret string     `koanf:"csrf_secret"`
	CORS       CORSConfig `koanf:"cors"`
}

// CORSConfig holds CORS middleware settings.
type CORSConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
}

// SearchConfig holds the remote trademark search settings.
type SearchConfig struct {
	Endpoint     string `koanf:"endpoint"`
	DefaultQuery string `koanf:"default_query"`
	StaleAfter   string `koanf:"stale_after"`
}

// CacheConfig selects the staleness cache backend.
type CacheConfig struct {
	Driver     string      `koanf:"driver"`
	MaxEntries int         `koanf:"max_entries"`
	Redis      RedisConfig `koanf:"redis"`
}

// RedisConfig holds Redis connection settings for the "redis" cache driver.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// SessionConfig holds page session settings.
type SessionConfig struct {
	IdleTimeout string `koanf:"idle_timeout"`
	MaxActive   int    `koanf:"max_active"`
}

// DatabaseConfig holds the optional search log database settings.
type DatabaseConfig struct {
	Enabled  bool           `koanf:"enabled"`
	Driver   string         `koanf:"driver"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	Pool     PoolConfig     `koanf:"pool"`
}

// SQLiteConfig holds SQLite-specific settings.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"dbname"`
	SSLMode  string `koanf:"sslmode"`
}

// PoolConfig holds database connection pool settings.
type PoolConfig struct {
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	ConnMaxLifetime string `koanf:"conn_max_lifetime"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// Load reads configuration from a YAML file and overlays environment variables.
// Environment variables use the prefix "APP__" and double-underscore as the
// hierarchy separator; single underscores stay part of the key name.
// For example, APP__SEARCH__STALE_AFTER=1m overrides search.stale_after.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints, normalizes values, and fills defaults.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	return c.validateLog()
}

func (c *Config) validateServer() error {
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	origins := make([]string, 0, len(c.Server.CORS.AllowOrigins))
	for idx, o := range c.Server.CORS.AllowOrigins {
		o = strings.TrimSpace(o)
		if o == "" {
			return fmt.Errorf("server.cors.allow_origins[%d] cannot be empty", idx)
		}
		origins = append(origins, o)
	}
	c.Server.CORS.AllowOrigins = origins
	return nil
}

func (c *Config) validateSearch() error {
	endpoint := strings.TrimSpace(c.Search.Endpoint)
	if endpoint == "" {
		endpoint = DefaultSearchEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid search.endpoint %q: must be an absolute http(s) URL", c.Search.Endpoint)
	}
	c.Search.Endpoint = endpoint

	// The query is passed through as-is, so only an unset value gets the default.
	if c.Search.DefaultQuery == "" {
		c.Search.DefaultQuery = DefaultSearchQuery
	}

	staleAfter, err := positiveDuration("search.stale_after", c.Search.StaleAfter, DefaultStaleAfter)
	if err != nil {
		return err
	}
	c.Search.StaleAfter = staleAfter
	return nil
}

func (c *Config) validateCache() error {
	driver := strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	if driver == "" {
		driver = "memory"
	}
	switch driver {
	case "memory", "redis":
		c.Cache.Driver = driver
	default:
		return fmt.Errorf("invalid cache.driver %q: must be one of %q, %q", c.Cache.Driver, "memory", "redis")
	}

	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("invalid cache.max_entries %d: must not be negative", c.Cache.MaxEntries)
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = DefaultCacheMaxEntries
	}

	if driver == "redis" {
		addr := strings.TrimSpace(c.Cache.Redis.Address)
		if addr == "" {
			return fmt.Errorf("cache.redis.address is required when driver is redis")
		}
		c.Cache.Redis.Address = addr
		if c.Cache.Redis.DB < 0 {
			return fmt.Errorf("invalid cache.redis.db %d: must not be negative", c.Cache.Redis.DB)
		}
		prefix := strings.TrimSpace(c.Cache.Redis.Prefix)
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		c.Cache.Redis.Prefix = prefix
	}
	return nil
}

func (c *Config) validateSession() error {
	idle, err := positiveDuration("session.idle_timeout", c.Session.IdleTimeout, DefaultSessionIdle)
	if err != nil {
		return err
	}
	c.Session.IdleTimeout = idle

	if c.Session.MaxActive < 0 {
		return fmt.Errorf("invalid session.max_active %d: must not be negative", c.Session.MaxActive)
	}
	if c.Session.MaxActive == 0 {
		c.Session.MaxActive = DefaultSessionMaxActive
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.Database.Enabled {
		return nil
	}

	switch c.Database.Driver {
	case "sqlite":
		sqlitePath := strings.TrimSpace(c.Database.SQLite.Path)
		if sqlitePath == "" {
			return fmt.Errorf("database.sqlite.path is required when driver is sqlite")
		}
		c.Database.SQLite.Path = sqlitePath
	case "postgres":
		pg := &c.Database.Postgres
		pg.Host = strings.TrimSpace(pg.Host)
		pg.User = strings.TrimSpace(pg.User)
		pg.DBName = strings.TrimSpace(pg.DBName)
		pg.SSLMode = strings.TrimSpace(pg.SSLMode)
		if pg.Host == "" {
			return fmt.Errorf("database.postgres.host is required when driver is postgres")
		}
		if pg.Port < 1 || pg.Port > 65535 {
			return fmt.Errorf("invalid database.postgres.port %d: must be between 1 and 65535", pg.Port)
		}
		if pg.User == "" {
			return fmt.Errorf("database.postgres.user is required when driver is postgres")
		}
		if pg.DBName == "" {
			return fmt.Errorf("database.postgres.dbname is required when driver is postgres")
		}
		switch pg.SSLMode {
		case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid database.postgres.sslmode %q: must be one of %q, %q, %q, %q, %q, %q", pg.SSLMode, "disable", "allow", "prefer", "require", "verify-ca", "verify-full")
		}
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of %q, %q", c.Database.Driver, "sqlite", "postgres")
	}

	c.Database.Pool.ConnMaxLifetime = strings.TrimSpace(c.Database.Pool.ConnMaxLifetime)
	if lm := c.Database.Pool.ConnMaxLifetime; lm != "" {
		if _, err := positiveDuration("database.pool.conn_max_lifetime", lm, ""); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateLog() error {
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}
	return nil
}

// positiveDuration trims value, substitutes def when it is empty, and checks
// that the result parses as a duration greater than zero.
func positiveDuration(name, value, def string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		v = def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if d <= 0 {
		return "", fmt.Errorf("invalid %s %q: must be greater than 0", name, value)
	}
	return v, nil
}

// Duration parses a duration string that Validate has already checked.
// It returns 0 for values that do not parse.
func Duration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
