// Package config reads the settings of the service and the client from environment variables.
// A .env file in the working directory is loaded first if present; variables that are already
// set take precedence over it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Service is the configuration of the contacts service.
type Service struct {
	Port       int    `env:"PORT"        envDefault:"8080"`
	GinMode    string `env:"GIN_MODE"    envDefault:"debug"`
	GinLogging string `env:"GIN_LOGGING" envDefault:"on"`

	DBDriver    string `env:"DBDRIVER"     envDefault:"mysql"`
	DBUser      string `env:"DBUSER"`
	DBPassword  string `env:"DBPWD"`
	DBHost      string `env:"DBHOST"       envDefault:"localhost:3306"`
	DBName      string `env:"DBNAME"       envDefault:"test"`
	SQLitePath  string `env:"SQLITE_PATH"  envDefault:"contacts.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	Log Log

	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES"   envDefault:"10485760"`
	CORSOrigins     []string      `env:"CORS_ORIGINS"     envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Log configures the logger.
type Log struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Output string `env:"LOG_OUTPUT" envDefault:"stdout"`
}

// RequestLogging reports whether every HTTP request shall be logged.
func (s Service) RequestLogging() bool {
	return !strings.EqualFold(s.GinLogging, "off")
}

// Client is the configuration of the command line client.
type Client struct {
	APIURL          string `env:"CONTACTS_API_URL"  envDefault:"http://localhost:8080/api/contacts"`
	FormProfile     string `env:"FORM_PROFILE"      envDefault:"strict"`
	MaxPictureBytes int    `env:"MAX_PICTURE_BYTES" envDefault:"1048576"`
	Log             Log
}

// LoadService returns the service configuration.
func LoadService() (Service, error) {
	var cfg Service
	if err := parse(&cfg); err != nil {
		return Service{}, err
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Service{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.MaxBodyBytes < 1 {
		return Service{}, fmt.Errorf("invalid MAX_BODY_BYTES %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}

// LoadClient returns the client configuration.
func LoadClient() (Client, error) {
	var cfg Client
	if err := parse(&cfg); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

func parse(target any) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
