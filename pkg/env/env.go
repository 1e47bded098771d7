// package env contains simple getters for the configuration shared by the
// geoapi binaries. Values come from the process environment, optionally
// seeded from a .env file in the working directory.
package env

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/xhit/go-str2duration/v2"

	"github.com/manzanit0/geoapi/pkg/geoapi"
)

const DefaultHTTPTimeout = 10 * time.Second

// LoadDotEnv reads .env if it exists. Variables already set in the
// environment take precedence.
func LoadDotEnv() {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		slog.Warn("unable to load .env file", "error", err.Error())
	}
}

func GeoAPIKey() (string, error) {
	var apiKey string
	if apiKey = os.Getenv("GEOAPI_API_KEY"); apiKey == "" {
		return "", fmt.Errorf("missing GEOAPI_API_KEY environment variable. Please check your environment.")
	}

	return apiKey, nil
}

func GeoAPIBaseURL() string {
	if base := os.Getenv("GEOAPI_BASE_URL"); base != "" {
		return base
	}

	return geoapi.DefaultBaseURL
}

// HTTPTimeout accepts anything go-str2duration understands, e.g. "1500ms",
// "30s" or "1m30s".
func HTTPTimeout() (time.Duration, error) {
	raw := os.Getenv("GEOAPI_HTTP_TIMEOUT")
	if raw == "" {
		return DefaultHTTPTimeout, nil
	}

	d, err := str2duration.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse GEOAPI_HTTP_TIMEOUT as duration: %s", err.Error())
	}

	return d, nil
}

func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}

	return "8080"
}

// DatabaseURL is optional: without it the server runs without history.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func Debug() bool {
	return boolean("DEBUG")
}

func OSMFallback() bool {
	return boolean("GEOCODE_OSM_FALLBACK")
}

func boolean(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
