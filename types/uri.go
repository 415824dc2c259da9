package types

// URIParser turns a normalized database URL into the DSN its backend's
// database/sql driver expects. Parsers are registered per scheme.
type URIParser interface {
	// ParseURI returns the native DSN, or an error when the URL is malformed
	// or names a scheme this parser does not own.
	ParseURI(uri string) (string, error)
	GetSupportedSchemes() []string
	GetDriverType() DriverType
}
