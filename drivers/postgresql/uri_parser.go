package postgresql

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/northway/migrator/types"
)

// PostgreSQLURIParser implements URIParser for PostgreSQL
type PostgreSQLURIParser struct{}

// NewPostgreSQLURIParser creates a new PostgreSQL URI parser
func NewPostgreSQLURIParser() *PostgreSQLURIParser {
	return &PostgreSQLURIParser{}
}

// ParseURI validates a PostgreSQL connection URL and returns it with the
// canonical postgresql:// scheme. Query parameters such as sslmode and host
// are kept.
func (p *PostgreSQLURIParser) ParseURI(uri string) (string, error) {
	parsedURI, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid URI format: %w", err)
	}

	// Check scheme
	scheme := strings.ToLower(parsedURI.Scheme)
	if scheme != "postgresql" && scheme != "postgres" {
		return "", fmt.Errorf("invalid scheme: %s, expected postgresql or postgres", parsedURI.Scheme)
	}
	parsedURI.Scheme = "postgresql"

	// a Unix socket directory may be given as ?host=/var/run/postgresql
	if parsedURI.Hostname() == "" && parsedURI.Query().Get("host") == "" {
		return "", fmt.Errorf("host is required, in the authority or as a host query parameter")
	}

	if port := parsedURI.Port(); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return "", fmt.Errorf("invalid port: %s", port)
		}
	}

	if strings.TrimPrefix(parsedURI.Path, "/") == "" {
		return "", fmt.Errorf("database name is required")
	}

	return parsedURI.String(), nil
}

// GetSupportedSchemes returns the URI schemes supported by this parser
func (p *PostgreSQLURIParser) GetSupportedSchemes() []string {
	return []string{"postgresql", "postgres"}
}

// GetDriverType returns the driver type this parser is for
func (p *PostgreSQLURIParser) GetDriverType() types.DriverType {
	return types.DriverPostgreSQL
}
