package ciutil

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Connection defaults applied to CI database URLs.
const (
	StandardCIUser     = "postgres"
	StandardCIPassword = "postgres"
	StandardCIPort     = "5432"
	StandardCIDatabase = "todo_test"
	StandardCIOptions  = "sslmode=disable"
)

// databaseURLEnvVars lists the variables consulted for a test database, in order.
var databaseURLEnvVars = []string{EnvDatabaseURL, EnvTodoTestDBURL, EnvTodoDatabaseURL}

// GetTestDatabaseURL returns the connection string integration tests should
// use, or "" when none is configured. Under CI the URL is normalized to the
// standard postgres credentials, port, database name and options.
func GetTestDatabaseURL(logger *slog.Logger) string {
	dbURL := GetEnvWithFallbacks(databaseURLEnvVars, "", logger)
	if dbURL == "" || !IsCI() {
		return dbURL
	}

	standardized, err := StandardizeDatabaseURL(dbURL)
	if err != nil {
		if logger != nil {
			logger.Error("failed to standardize database URL",
				"error", err,
				"original_url", MaskSensitiveValue(dbURL))
		}
		return dbURL
	}

	if standardized != dbURL && logger != nil {
		logger.Info("standardized database URL for CI environment",
			"original", MaskSensitiveValue(dbURL),
			"standardized", MaskSensitiveValue(standardized))
	}
	return standardized
}

// StandardizeDatabaseURL rewrites a postgres URL to use the CI credentials.
// Local hosts without a port get StandardCIPort; an empty database name and
// empty query get StandardCIDatabase and StandardCIOptions. Non-postgres URLs
// are returned unchanged.
func StandardizeDatabaseURL(dbURL string) (string, error) {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}

	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return dbURL, nil
	}

	standardized := *parsed
	standardized.User = url.UserPassword(StandardCIUser, StandardCIPassword)

	host := parsed.Hostname()
	if (host == "" || host == "localhost" || host == "127.0.0.1") && parsed.Port() == "" {
		if host == "" {
			host = "localhost"
		}
		standardized.Host = host + ":" + StandardCIPort
	}

	if strings.TrimPrefix(parsed.Path, "/") == "" {
		standardized.Path = "/" + StandardCIDatabase
	}

	if parsed.RawQuery == "" {
		standardized.RawQuery = StandardCIOptions
	}

	return standardized.String(), nil
}
