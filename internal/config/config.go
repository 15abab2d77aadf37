// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/nisimpson/dynaroute"
	"github.com/nisimpson/dynaroute/docstore"
)

// Config holds the settings shared by the handler binaries and the dev server.
type Config struct {
	// Collections
	DealerTable  string `env:"DEALER_TABLE"`
	ProductTable string `env:"PRODUCT_TABLE"`

	// Store selection
	StoreBackend     string `env:"STORE_BACKEND" envDefault:"dynamodb"`
	AWSRegion        string `env:"AWS_REGION"`
	DynamoDBEndpoint string `env:"DYNAMODB_ENDPOINT"`
	SQLitePath       string `env:"SQLITE_PATH" envDefault:"data/dynaroute.db"`
	PostgresURL      string `env:"POSTGRES_URL"`
	MongoURI         string `env:"MONGODB_URI"`
	MongoDatabase    string `env:"MONGODB_DATABASE" envDefault:"dynaroute"`
	RedisAddr        string `env:"REDIS_ADDR"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Dev server
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the store backend is known.
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	for _, b := range docstore.Backends() {
		if c.StoreBackend == b {
			return nil
		}
	}
	return fmt.Errorf("invalid STORE_BACKEND %q: must be one of %s", c.StoreBackend, strings.Join(docstore.Backends(), ", "))
}

// Collection returns the collection configured for a domain.
func (c *Config) Collection(d dynaroute.Domain) (string, error) {
	var name, variable string
	switch d.Name {
	case dynaroute.Dealer.Name:
		name, variable = c.DealerTable, "DEALER_TABLE"
	case dynaroute.Product.Name:
		name, variable = c.ProductTable, "PRODUCT_TABLE"
	default:
		return "", fmt.Errorf("unknown domain %q", d.Name)
	}
	if name == "" {
		return "", fmt.Errorf("%w: %s is not set", dynaroute.ErrMissingArgument, variable)
	}
	return name, nil
}

// StoreOptions returns the docstore options selected by the configuration.
func (c *Config) StoreOptions() docstore.Options {
	return docstore.Options{
		Backend:          c.StoreBackend,
		AWSRegion:        c.AWSRegion,
		DynamoDBEndpoint: c.DynamoDBEndpoint,
		SQLitePath:       c.SQLitePath,
		PostgresURL:      c.PostgresURL,
		MongoURI:         c.MongoURI,
		MongoDatabase:    c.MongoDatabase,
		RedisAddr:        c.RedisAddr,
	}
}
