// Package creds resolves the LinkedIn credentials consumed by the browser
// engine's login step. Resolution order: process environment (optionally
// seeded from a .env file), then the OS keyring. Missing credentials are a
// configuration fault reported before any browser session is launched.
package creds

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name used for keyring storage.
	KeyringService = "jobscrape"

	usernameEnv = "LINKEDIN_USERNAME"
	passwordEnv = "LINKEDIN_PASSWORD"

	usernameKey = "linkedin-username"
	passwordKey = "linkedin-password"
)

// Credentials holds a platform username/password pair.
type Credentials struct {
	Username string
	Password string
}

var loadEnvOnce sync.Once

// Resolve returns LinkedIn credentials or an error naming what is missing.
func Resolve() (Credentials, error) {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg("No .env file found, relying on environment and keyring")
		}
	})

	c := Credentials{
		Username: os.Getenv(usernameEnv),
		Password: os.Getenv(passwordEnv),
	}

	if c.Username == "" {
		if v, err := keyring.Get(KeyringService, usernameKey); err == nil {
			c.Username = v
		}
	}
	if c.Password == "" {
		if v, err := keyring.Get(KeyringService, passwordKey); err == nil {
			c.Password = v
		}
	}

	if c.Username == "" || c.Password == "" {
		return Credentials{}, fmt.Errorf(
			"linkedin credentials not configured: set %s and %s (or store them with 'jobscrape login')",
			usernameEnv, passwordEnv)
	}
	return c, nil
}

// Store writes credentials to the OS keyring.
func Store(c Credentials) error {
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("username and password are both required")
	}
	if err := keyring.Set(KeyringService, usernameKey, c.Username); err != nil {
		return fmt.Errorf("store username: %w", err)
	}
	if err := keyring.Set(KeyringService, passwordKey, c.Password); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	return nil
}

// Clear removes stored credentials from the OS keyring.
func Clear() error {
	if err := keyring.Delete(KeyringService, usernameKey); err != nil && err != keyring.ErrNotFound {
		return err
	}
	if err := keyring.Delete(KeyringService, passwordKey); err != nil && err != keyring.ErrNotFound {
		return err
	}
	return nil
}
