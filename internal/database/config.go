package database

import (
	"fmt"
	"net/url"
)

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Driver specifies the database driver (postgres, sqlite)
	Driver string

	// URL is a full PostgreSQL connection URL, e.g. DATABASE_URL on hosted platforms.
	URL string

	// SQLite-specific configuration
	Path string

	// ConnectRetries is the number of connection attempts before giving up.
	ConnectRetries int
}

// String returns a string representation with sensitive data masked
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, URL: %s, Path: %s, ConnectRetries: %d}",
		c.Driver, redactURL(c.URL), c.Path, c.ConnectRetries)
}

// DSN builds a Data Source Name string based on the driver
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "postgres", "postgresql":
		return c.URL
	case "sqlite", "":
		return c.Path
	default:
		return ""
	}
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}
	return parsed.Redacted()
}
