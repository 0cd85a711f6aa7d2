// Package keyring stores provider API keys and the database connection
// string in the OS keyring so they do not have to live in the config file.
package keyring

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zalando/go-keyring"
)

// Service is the keyring service name all secrets are stored under.
const Service = "kidtimer"

// DatabaseKey names the secret holding the postgres connection string.
const DatabaseKey = "database"

// Names lists every secret the application reads.
var Names = []string{"anthropic", "openai", "gemini", "openrouter", DatabaseKey}

var (
	// ErrNotFound is returned when no secret is stored under the name.
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	// ErrUnknownName is returned for names outside Names.
	ErrUnknownName = errors.New("unknown secret name")
)

func checkName(name string) error {
	if !slices.Contains(Names, name) {
		return fmt.Errorf("%w: %q (valid: %v)", ErrUnknownName, name, Names)
	}
	return nil
}

// Get returns the secret stored under name.
func Get(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	v, err := keyring.Get(Service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

// Set stores value under name.
func Set(name, value string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if value == "" {
		return errors.New("secret value cannot be empty")
	}
	if err := keyring.Set(Service, name, value); err != nil {
		return fmt.Errorf("store secret in keyring: %w", err)
	}
	return nil
}

// Delete removes the secret stored under name.
func Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := keyring.Delete(Service, name); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete secret from keyring: %w", err)
	}
	return nil
}

// Lookup returns the secret or "" when it is missing or the keyring
// cannot be reached. Used for optional fallbacks during config loading.
func Lookup(name string) string {
	v, err := Get(name)
	if err != nil {
		return ""
	}
	return v
}

// IsAvailable reports whether the OS keyring can be reached.
func IsAvailable() bool {
	_, err := keyring.Get(Service, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
