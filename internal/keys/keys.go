// Package keys stores the geo API key in the operating system keyring so it
// never has to live in shell history or config files.
package keys

import (
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	service = "scout"
	user    = "geo-api-key"
)

// SetGeoAPIKey persists the key in the system keyring
func SetGeoAPIKey(key string) error {
	if key == "" {
		return fmt.Errorf("key must not be empty")
	}
	if err := keyring.Set(service, user, key); err != nil {
		return fmt.Errorf("storing key in keyring: %w", err)
	}
	return nil
}

// GeoAPIKey resolves the key: explicit value first, then the SCOUT_GEO_API_KEY
// environment variable, then the system keyring. Empty when none is set.
func GeoAPIKey(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv("SCOUT_GEO_API_KEY"); v != "" {
		return v
	}
	key, err := keyring.Get(service, user)
	if err != nil {
		return ""
	}
	return key
}

// DeleteGeoAPIKey removes the key from the keyring
func DeleteGeoAPIKey() error {
	if err := keyring.Delete(service, user); err != nil {
		return fmt.Errorf("deleting key from keyring: %w", err)
	}
	return nil
}
