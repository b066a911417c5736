package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Validation policies for contact fields.
const (
	PolicyStrict  = "strict"
	PolicyLenient = "lenient"
)

// Config contains server configuration parameters.
type Config struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            string        `env:"PORT" envDefault:"10000"`
	Environment     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel        int           `env:"LOG_LEVEL" envDefault:"0"`
	GinMode         string        `env:"GIN_MODE" envDefault:"release"`
	GinLogging      string        `env:"GIN_LOGGING" envDefault:"on"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StoreDriver        string        `env:"STORE_DRIVER" envDefault:"mongo"`
	StoreRetryInterval time.Duration `env:"STORE_RETRY_INTERVAL" envDefault:"5s"`
	Mongo              Mongo
	MySQL              MySQL

	Auth       Auth
	Validation Validation
	CORS       CORS
}

// Mongo contains document database connection parameters.
type Mongo struct {
	URI            string        `env:"CONNECTION_STRING" envDefault:"mongodb://localhost:27017"`
	Database       string        `env:"MONGO_DATABASE" envDefault:"mycontacts"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"5s"`
}

// MySQL contains relational database connection parameters.
type MySQL struct {
	User     string `env:"DBUSER" envDefault:"root"`
	Password string `env:"DBPWD"`
	Host     string `env:"DBHOST" envDefault:"localhost:3306"`
	Name     string `env:"DBNAME" envDefault:"mycontacts"`
}

// DSN builds the go-sql-driver/mysql data source name.
func (m MySQL) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC", m.User, m.Password, m.Host, m.Name)
}

// Auth contains session token and password hashing parameters.
type Auth struct {
	TokenSecret string        `env:"ACCESS_TOKEN_SECRET" envDefault:"devsecret"`
	TokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`
}

// Validation contains the contact validation policy.
type Validation struct {
	Policy string `env:"VALIDATION_POLICY" envDefault:"strict"`
}

// CORS contains the browser origins allowed to call the API.
type CORS struct {
	AllowedOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`
}

// Address is the listen address of the HTTP server.
func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

// NewConfig loads configuration from environment variables. A .env file in the working
// directory is read first if present; real environment variables take precedence.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMySQL, DriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.Validation.Policy {
	case PolicyStrict, PolicyLenient:
	default:
		return fmt.Errorf("invalid VALIDATION_POLICY %q", c.Validation.Policy)
	}
	if c.Auth.TokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("invalid ACCESS_TOKEN_TTL %s", c.Auth.TokenTTL)
	}
	return nil
}
