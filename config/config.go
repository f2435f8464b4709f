package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is everything the host reads from the environment.
type Config struct {
	MongoURI          string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase     string `env:"MONGO_DATABASE" envDefault:"balcao"`
	MongoTransactions bool   `env:"MONGO_TRANSACTIONS" envDefault:"false"`
	StoreDriver       string `env:"STORE_DRIVER" envDefault:"mongo"`
	CheckoutMode      string `env:"CHECKOUT_MODE" envDefault:"conditional"`

	Port        string   `env:"PORT" envDefault:"1414"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	AlertFrom    string `env:"ALERT_FROM"`
	AlertTo      string `env:"ALERT_TO"`
	AlertAt      string `env:"ALERT_AT" envDefault:"07:00"`
	Timezone     string `env:"TIMEZONE" envDefault:"America/Sao_Paulo"`
}

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Load reads files (default .env) into the process environment when they
// exist and then binds the environment. Variables already set win over the
// files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.StoreDriver)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	return nil
}

// SMTPEnabled reports whether alert e-mails can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.AlertTo != ""
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
