package sqlite

import (
	"fmt"
	"strings"

	"github.com/northway/migrator/types"
)

// SQLiteURIParser implements URIParser for SQLite databases
type SQLiteURIParser struct{}

// NewSQLiteURIParser creates a new SQLite URI parser
func NewSQLiteURIParser() *SQLiteURIParser {
	return &SQLiteURIParser{}
}

// ParseURI converts a SQLite URL into a file path the drivers accept.
// Supported formats:
//   - sqlite:///relative/path.db   (three slashes, relative to the working directory)
//   - sqlite:////absolute/path.db  (four slashes, absolute)
//   - sqlite://relative/path.db
//   - sqlite://, sqlite:///:memory:, sqlite://:memory:  (in-memory)
//
// A query string is passed through to the driver.
func (p *SQLiteURIParser) ParseURI(uri string) (string, error) {
	idx := strings.Index(uri, "://")
	if idx < 0 {
		return "", fmt.Errorf("invalid SQLite URI: %q", uri)
	}

	scheme := strings.ToLower(uri[:idx])
	if scheme != "sqlite" && scheme != "sqlite3" {
		return "", fmt.Errorf("unsupported URI scheme: %s", scheme)
	}

	rest := uri[idx+3:]
	query := ""
	if q := strings.IndexByte(rest, '?'); q >= 0 {
		rest, query = rest[:q], rest[q:]
	}

	var path string
	switch {
	case rest == "", rest == "/", rest == ":memory:", rest == "/:memory:":
		path = ":memory:"
	case strings.HasPrefix(rest, "/"):
		// the first slash separates the empty host from the path
		path = rest[1:]
	default:
		path = rest
	}

	return path + query, nil
}

// GetSupportedSchemes returns the URI schemes this parser supports
func (p *SQLiteURIParser) GetSupportedSchemes() []string {
	return []string{"sqlite", "sqlite3"}
}

// GetDriverType returns the driver type this parser is for
func (p *SQLiteURIParser) GetDriverType() types.DriverType {
	return types.DriverSQLite
}
