package database

import (
	"fmt"
	"strings"

	"github.com/northway/migrator/registry"
	"github.com/northway/migrator/types"
)

// NormalizeURI canonicalizes the scheme of a database URL:
//   - the scheme is lower-cased
//   - a "+driver" suffix is dropped (postgresql+psycopg2 -> postgresql)
//   - the legacy postgres scheme becomes postgresql
//
// The rest of the URL is returned untouched.
func NormalizeURI(uri string) (string, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", fmt.Errorf("database URL is empty")
	}

	idx := strings.Index(uri, "://")
	if idx <= 0 {
		return "", fmt.Errorf("invalid database URL: missing scheme")
	}

	scheme := strings.ToLower(uri[:idx])
	if plus := strings.IndexByte(scheme, '+'); plus >= 0 {
		scheme = scheme[:plus]
	}
	if scheme == "postgres" {
		scheme = "postgresql"
	}

	return scheme + uri[idx:], nil
}

// DriverTypeOf reports which backend a database URL targets
func DriverTypeOf(uri string) (types.DriverType, error) {
	normalized, err := NormalizeURI(uri)
	if err != nil {
		return "", err
	}
	_, driverType, err := registry.ParseURI(normalized)
	if err != nil {
		return "", err
	}
	return driverType, nil
}
