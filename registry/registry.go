package registry

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/northway/migrator/types"
)

// DriverFactory creates a database instance from a native URI/DSN
type DriverFactory func(nativeURI string, opts types.ConnectOptions) (types.Database, error)

var (
	drivers    = make(map[types.DriverType]DriverFactory)
	uriParsers = make(map[string]types.URIParser) // keyed by scheme
	mu         sync.RWMutex
)

// Register registers a database driver factory
func Register(driverType types.DriverType, factory DriverFactory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := drivers[driverType]; exists {
		panic(fmt.Sprintf("driver %s already registered", driverType))
	}

	drivers[driverType] = factory
}

// Get retrieves a registered driver factory
func Get(driverType types.DriverType) (DriverFactory, error) {
	mu.RLock()
	defer mu.RUnlock()

	factory, exists := drivers[driverType]
	if !exists {
		return nil, fmt.Errorf("driver %s not registered", driverType)
	}

	return factory, nil
}

// RegisterURIParser registers a parser for every scheme it supports
func RegisterURIParser(parser types.URIParser) {
	mu.Lock()
	defer mu.Unlock()

	for _, scheme := range parser.GetSupportedSchemes() {
		uriParsers[scheme] = parser
	}
}

// ParseURI finds the parser for the URI scheme and returns the native URI
// together with the driver that understands it.
func ParseURI(uri string) (string, types.DriverType, error) {
	scheme, err := schemeOf(uri)
	if err != nil {
		return "", "", err
	}

	mu.RLock()
	parser, exists := uriParsers[scheme]
	mu.RUnlock()
	if !exists {
		return "", "", fmt.Errorf("unsupported URI scheme: %s", scheme)
	}

	nativeURI, err := parser.ParseURI(uri)
	if err != nil {
		return "", "", err
	}
	return nativeURI, parser.GetDriverType(), nil
}

func schemeOf(uri string) (string, error) {
	idx := strings.Index(uri, "://")
	if idx <= 0 {
		// Let url.Parse produce the diagnostic for obviously broken input
		if _, err := url.Parse(uri); err != nil {
			return "", fmt.Errorf("invalid URI: %w", err)
		}
		return "", fmt.Errorf("invalid URI: missing scheme in %q", uri)
	}
	return strings.ToLower(uri[:idx]), nil
}
