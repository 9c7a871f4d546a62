package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs at startup. It is built
// once in app.SetupAndRunApp and handed to the auth middleware and the
// handlers explicitly; nothing reads the JWT secret from a global.
type Config struct {
	Port          string
	PostgresURI   string
	JWTSecret     []byte
	TokenLifetime time.Duration
}

// Load reads .env (when present) and assembles the config from the
// environment. POSTGRESQL_URI and JWT_SECRET are required.
func Load() (*Config, error) {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	uri := os.Getenv("POSTGRESQL_URI")
	if uri == "" {
		return nil, errors.New("you must set your 'POSTGRESQL_URI' environmental variable")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("you must set your 'JWT_SECRET' environmental variable")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	return &Config{
		Port:          port,
		PostgresURI:   uri,
		JWTSecret:     []byte(secret),
		TokenLifetime: 24 * time.Hour,
	}, nil
}
