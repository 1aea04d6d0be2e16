package internal

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultMongoURI     = "mongodb://127.0.0.1:27017/employeedb"
	defaultDatabaseName = "employeedb"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Source       string `mapstructure:"source"`
	Database     string `mapstructure:"name"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type SecurityConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret"`
	BCryptCost int    `mapstructure:"bcrypt_cost"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads <path>/.env, <path>/config.yml (both optional) and the
// process environment, in increasing order of precedence.
func LoadConfig(path string) (*Config, error) {
	// godotenv.Load never overrides variables that are already set.
	_ = godotenv.Load(filepath.Join(path, ".env"))

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", EnvDevelopment)

	v.SetDefault("http_server.port", 5000)
	v.SetDefault("http_server.allowed_origins", "*")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("http_server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.source", defaultMongoURI)
	v.SetDefault("database.name", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("observability.logging.level", "info")
	v.SetDefault("observability.logging.format", "text")
}

// bindEnvs maps the short variable names used by existing deployments.
func bindEnvs(v *viper.Viper) {
	aliases := map[string][]string{
		"app.env":                      {"APP_ENV"},
		"http_server.port":             {"PORT"},
		"http_server.allowed_origins":  {"ALLOWED_ORIGINS"},
		"database.driver":              {"DB_DRIVER"},
		"database.source":              {"MONGO_URI", "DATABASE_URL"},
		"database.name":                {"DB_NAME"},
		"security.jwt_secret":          {"JWT_SECRET"},
		"security.bcrypt_cost":         {"BCRYPT_COST"},
		"observability.logging.level":  {"LOG_LEVEL"},
		"observability.logging.format": {"LOG_FORMAT"},
	}

	for key, names := range aliases {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if c.App.Env != EnvDevelopment && c.App.Env != EnvProduction {
		errs = append(errs, fmt.Sprintf("app config: unknown env %q", c.App.Env))
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(c.IsProduction()); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *ServerConfig) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverMongo, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxOpenConns > 0 && c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	if c.Driver == DriverMongo {
		if _, err := connstring.ParseAndValidate(c.Source); err != nil {
			return fmt.Errorf("invalid mongo uri: %w", err)
		}
	}
	return nil
}

// Name is the mongo database to use: the explicit setting, else the path of
// the connection string, else "employeedb".
func (c *DatabaseConfig) Name() string {
	if c.Database != "" {
		return c.Database
	}
	if cs, err := connstring.ParseAndValidate(c.Source); err == nil && cs.Database != "" {
		return cs.Database
	}
	return defaultDatabaseName
}

// Validate rejects an empty signing secret only in production. Development
// processes get a random per-process secret at startup instead of a shared default.
func (c *SecurityConfig) Validate(production bool) error {
	if c.JWTSecret == "" && production {
		return errors.New("jwt_secret (JWT_SECRET) is required in production")
	}
	if c.JWTSecret != "" && production && len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters in production")
	}
	if c.BCryptCost < 10 || c.BCryptCost > 15 {
		return fmt.Errorf("bcrypt_cost must be between 10 and 15, got %d", c.BCryptCost)
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}
