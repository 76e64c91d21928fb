// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// Server configures cmd/server.
type Server struct {
	HTTPAddr      string        `env:"HOOPS_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string        `env:"HOOPS_GRPC_ADDR" envDefault:":9090"`
	ConfigDir     string        `env:"HOOPS_CONFIG_DIR" envDefault:"config"`
	WatchInterval time.Duration `env:"HOOPS_WATCH_INTERVAL" envDefault:"5s"`
	MaxGames      int           `env:"HOOPS_MAX_GAMES" envDefault:"1000"`
	Workers       int           `env:"HOOPS_WORKERS" envDefault:"0"`
	LogLevel      string        `env:"HOOPS_LOG_LEVEL" envDefault:"info"`
}

// Simulate holds the cmd/simulate defaults that flags may override.
type Simulate struct {
	ConfigDir string `env:"HOOPS_CONFIG_DIR" envDefault:"config"`
	Version   string `env:"HOOPS_COEFF_VERSION"`
	LogLevel  string `env:"HOOPS_LOG_LEVEL" envDefault:"warn"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Logger builds a text logger on stderr at the named level.
func Logger(level string) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logrus.NewEntry(l), nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
