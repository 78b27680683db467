// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
	Security  SecurityConfig  `koanf:"security"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Directory DirectoryConfig `koanf:"directory"`
	Quote     QuoteConfig     `koanf:"quote"`
	Bootstrap BootstrapConfig `koanf:"bootstrap"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	PrivateKeyPath     string        `koanf:"private_key_path"`
	PublicKeyPath      string        `koanf:"public_key_path"`
	AccessTokenExpire  time.Duration `koanf:"access_token_expire"`
	RefreshTokenExpire time.Duration `koanf:"refresh_token_expire"`
	Issuer             string        `koanf:"issuer"`
	Audience           string        `koanf:"audience"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

type SecurityConfig struct {
	PasswordPepper string `koanf:"password_pepper"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// DirectoryConfig controls how entity rosters are counted.
// CountAdminsAsInstructors puts admins in the instructor set used for
// cfi counts and cfi listings.
type DirectoryConfig struct {
	CountAdminsAsInstructors bool `koanf:"count_admins_as_instructors"`
}

type QuoteConfig struct {
	Enabled  bool          `koanf:"enabled"`
	URL      string        `koanf:"url"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// BootstrapConfig names the platform operator created on startup when
// no account with GlobalEmail exists yet.
type BootstrapConfig struct {
	GlobalEmail    string `koanf:"global_email"`
	GlobalPassword string `koanf:"global_password"`
}

// envPrefix namespaces generic overrides: FLIGHTLOG_SERVER__PORT sets
// server.port. The unprefixed names in envAliases cover the common ones.
const envPrefix = "FLIGHTLOG_"

// Load layers defaults, the optional YAML file at configPath and the
// environment, in that order, then validates the result.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// loadDotEnv applies the files that exist. A missing file is skipped; a
// malformed one is an error.
func loadDotEnv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

var defaults = map[string]map[string]any{
	"app": {
		"name":        "Flightlog",
		"version":     "1.0.0",
		"environment": "development",
	},
	"server": {
		"host":             "0.0.0.0",
		"port":             8080,
		"read_timeout":     "30s",
		"write_timeout":    "30s",
		"idle_timeout":     "120s",
		"shutdown_timeout": "15s",
	},
	"database": {
		"driver":             DriverPostgres,
		"auto_migrate":       true,
		"max_open_conns":     25,
		"max_idle_conns":     5,
		"conn_max_lifetime":  "1h",
		"conn_max_idle_time": "30m",
	},
	"redis": {
		"pool_size":      10,
		"min_idle_conns": 5,
	},
	"jwt": {
		"access_token_expire":  "15m",
		"refresh_token_expire": "168h",
		"issuer":               "flightlog",
		"audience":             "flightlog-api",
		"private_key_path":     "keys/private.pem",
		"public_key_path":      "keys/public.pem",
	},
	"rate_limit": {
		"requests": 100,
		"window":   "1m",
		"burst":    20,
	},
	"cors": {
		"allowed_origins": []string{"http://localhost:3000"},
		"allowed_methods": []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		"allowed_headers": []string{
			"Accept", "Authorization", "Content-Type", "X-Request-ID",
		},
		"allow_credentials": true,
		"max_age":           300,
	},
	"log": {
		"level":  "info",
		"format": "json",
	},
	"otel": {
		"enabled":      false,
		"insecure":     true,
		"sample_rate":  0.1,
		"service_name": "flightlog",
	},
	"metrics": {
		"enabled": true,
		"path":    "/metrics",
	},
	"directory": {
		"count_admins_as_instructors": true,
	},
	"quote": {
		"enabled":   true,
		"url":       "https://zenquotes.io/api/random",
		"timeout":   "3s",
		"cache_ttl": "1h",
	},
}

func loadDefaults(k *koanf.Koanf) error {
	for section, values := range defaults {
		for key, value := range values {
			path := section + "." + key
			if err := k.Set(path, value); err != nil {
				return fmt.Errorf("set default %s: %w", path, err)
			}
		}
	}
	return nil
}

var envAliases = map[string]string{
	"ENVIRONMENT": "app.environment",
	"HOST":        "server.host",
	"PORT":        "server.port",

	"DATABASE_DRIVER":       "database.driver",
	"DATABASE_URL":          "database.url",
	"DATABASE_AUTO_MIGRATE": "database.auto_migrate",
	"REDIS_URL":             "redis.url",

	"JWT_PRIVATE_KEY_PATH":     "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":      "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":  "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE": "jwt.refresh_token_expire",
	"PASSWORD_PEPPER":          "security.password_pepper",

	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"METRICS_ENABLED":             "metrics.enabled",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",

	"COUNT_ADMINS_AS_INSTRUCTORS": "directory.count_admins_as_instructors",
	"QUOTE_ENABLED":               "quote.enabled",
	"BOOTSTRAP_GLOBAL_EMAIL":      "bootstrap.global_email",
	"BOOTSTRAP_GLOBAL_PASSWORD":   "bootstrap.global_password",
}

// envKeyReplacer maps an environment variable to a config path, or to ""
// when the variable is not ours.
func envKeyReplacer(name string) string {
	if path, ok := envAliases[name]; ok {
		return path
	}

	rest, ok := strings.CutPrefix(name, envPrefix)
	if !ok {
		return ""
	}
	section, key, ok := strings.Cut(rest, "__")
	if !ok || section == "" || key == "" {
		return ""
	}
	return strings.ToLower(section) + "." + strings.ToLower(key)
}

// validate reports every problem at once rather than the first.
func validate(c *Config) error {
	return errors.Join(
		c.validateStorage(),
		c.validateCORS(),
		c.validateProduction(),
		c.validateFeatures(),
	)
}

func (c *Config) validateStorage() error {
	var errs []error

	switch c.Database.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required"))
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Redis.URL == "" {
		errs = append(errs, errors.New("REDIS_URL is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateCORS() error {
	if !c.CORS.AllowCredentials {
		return nil
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" {
			return errors.New("CORS wildcard '*' cannot be used with allow_credentials")
		}
	}
	return nil
}

func (c *Config) validateProduction() error {
	if !c.IsProduction() {
		return nil
	}

	var errs []error
	if c.Otel.Enabled && c.Otel.Insecure {
		errs = append(errs, errors.New("otel.insecure must be false in production"))
	}
	if c.Security.PasswordPepper == "" {
		errs = append(errs, errors.New("PASSWORD_PEPPER is required in production"))
	}
	if c.Database.Driver == DriverMemory {
		errs = append(errs, errors.New("memory database driver is not allowed in production"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateFeatures() error {
	var errs []error

	if c.JWT.PrivateKeyPath == "" || c.JWT.PublicKeyPath == "" {
		errs = append(errs, errors.New("jwt key paths are required"))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Quote.Enabled && c.Quote.URL == "" {
		errs = append(errs, errors.New("quote.url is required when quotes are enabled"))
	}
	if (c.Bootstrap.GlobalEmail == "") != (c.Bootstrap.GlobalPassword == "") {
		errs = append(errs, errors.New(
			"BOOTSTRAP_GLOBAL_EMAIL and BOOTSTRAP_GLOBAL_PASSWORD must be set together",
		))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
