package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	AuthModeSession = "session"
	AuthModeClaims  = "claims"

	// DefaultMaxUploadBytes caps a single photo upload (10 MB).
	DefaultMaxUploadBytes = 10 << 20
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	User            string        `mapstructure:"user"`
	Pass            string        `mapstructure:"pass"`
	Name            string        `mapstructure:"name"`
	Port            int           `mapstructure:"port"`
	SSLMode         string        `mapstructure:"sslmode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
}

// DSN renders the postgres connection string in the key=value form gorm's
// postgres driver expects.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Pass, d.Name, d.Port, d.SSLMode,
	)
}

type AuthConfig struct {
	// Mode selects exactly one identity strategy: "session" or "claims".
	Mode            string        `mapstructure:"mode"`
	SessionCookie   string        `mapstructure:"session_cookie"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	CookieSecure    bool          `mapstructure:"cookie_secure"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
	ClaimsSecret    string        `mapstructure:"claims_secret"`
	ClaimsIssuer    string        `mapstructure:"claims_issuer"`
	ClaimsAudience  string        `mapstructure:"claims_audience"`
}

type UploadsConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type RateLimitConfig struct {
	// AuthPerMinute limits login/register attempts per client IP. Zero disables it.
	AuthPerMinute int `mapstructure:"auth_per_minute"`
	AuthBurst     int `mapstructure:"auth_burst"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "release"
}

// Load reads configuration from a .env file, an optional YAML file and the
// environment, in increasing order of precedence. An empty path looks for
// ./config.yaml and tolerates its absence.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "development")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.pass", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "./data/clubhouse.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.slow_threshold", "200ms")

	v.SetDefault("auth.mode", AuthModeSession)
	v.SetDefault("auth.session_cookie", "club_sid")
	v.SetDefault("auth.session_ttl", "168h")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.janitor_interval", "1h")
	v.SetDefault("auth.claims_secret", "")
	v.SetDefault("auth.claims_issuer", "")
	v.SetDefault("auth.claims_audience", "")

	v.SetDefault("uploads.dir", "./uploads")
	v.SetDefault("uploads.max_bytes", DefaultMaxUploadBytes)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")

	v.SetDefault("rate_limit.auth_per_minute", 10)
	v.SetDefault("rate_limit.auth_burst", 5)

	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})
}

func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short names used by existing .env files.
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("server.env", "SERVER_ENV", "APP_ENV")
	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.host", "DB_HOST")
	_ = v.BindEnv("database.user", "DB_USER")
	_ = v.BindEnv("database.pass", "DB_PASS")
	_ = v.BindEnv("database.name", "DB_NAME")
	_ = v.BindEnv("database.port", "DB_PORT")
	_ = v.BindEnv("database.sslmode", "DB_SSLMODE")
	_ = v.BindEnv("database.sqlite_path", "DB_SQLITE_PATH")
	_ = v.BindEnv("auth.mode", "AUTH_MODE")
	_ = v.BindEnv("auth.claims_secret", "AUTH_CLAIMS_SECRET", "JWT_SECRET")
	_ = v.BindEnv("auth.claims_issuer", "AUTH_CLAIMS_ISSUER")
	_ = v.BindEnv("auth.claims_audience", "AUTH_CLAIMS_AUDIENCE")
	_ = v.BindEnv("auth.cookie_secure", "AUTH_COOKIE_SECURE")
	_ = v.BindEnv("uploads.dir", "UPLOAD_DIR")
	_ = v.BindEnv("uploads.max_bytes", "UPLOAD_MAX_BYTES")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.encoding", "LOG_ENCODING")
	_ = v.BindEnv("cors.allow_origins", "CORS_ALLOW_ORIGINS")
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be positive, got %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			return errors.New("DB_HOST, DB_USER and DB_NAME are required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Auth.Mode {
	case AuthModeSession:
		if c.Auth.SessionCookie == "" || c.Auth.SessionTTL <= 0 {
			return errors.New("auth.session_cookie and a positive auth.session_ttl are required in session mode")
		}
		if c.Auth.JanitorInterval <= 0 {
			return fmt.Errorf("auth.janitor_interval must be positive in session mode, got %s", c.Auth.JanitorInterval)
		}
	case AuthModeClaims:
		if c.Auth.ClaimsSecret == "" {
			return errors.New("AUTH_CLAIMS_SECRET is required in claims mode")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}

	if c.Uploads.Dir == "" {
		return errors.New("uploads.dir is required")
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("uploads.max_bytes must be positive, got %d", c.Uploads.MaxBytes)
	}
	return nil
}
