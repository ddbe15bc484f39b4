package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxRetries     = 2
	DefaultRetryDelay     = 300 * time.Millisecond
	DefaultSearchDebounce = 300 * time.Millisecond
)

// Config captures everything the server needs at startup. The catalog core
// receives the Catalog value; transport gets Addr. Keeping this flat and
// env-driven keeps main lean.
type Config struct {
	Addr    string
	Catalog Catalog
}

// Catalog configures the retrieval controller and its remote source.
type Catalog struct {
	// CountriesURL is the remote endpoint serving the country list.
	// Required; a malformed value is a fatal misconfiguration.
	CountriesURL string

	// RequestTimeout bounds a single fetch round trip.
	RequestTimeout time.Duration

	// MaxRetries is the number of retries after the first attempt, so total
	// attempts = MaxRetries + 1.
	MaxRetries int

	// RetryDelay is the constant wait between attempts.
	RetryDelay time.Duration

	// SearchDebounce is the quiet period before a search filter runs.
	SearchDebounce time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr: envString("ATLAS_ADDR", DefaultAddr),
		Catalog: Catalog{
			CountriesURL:   os.Getenv("ATLAS_COUNTRIES_URL"),
			RequestTimeout: envDuration("ATLAS_REQUEST_TIMEOUT", DefaultRequestTimeout),
			MaxRetries:     envInt("ATLAS_MAX_RETRIES", DefaultMaxRetries),
			RetryDelay:     envDuration("ATLAS_RETRY_DELAY", DefaultRetryDelay),
			SearchDebounce: envDuration("ATLAS_SEARCH_DEBOUNCE", DefaultSearchDebounce),
		},
	}

	if err := cfg.Catalog.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects fatal misconfiguration up front. The endpoint URL is the
// only required value; everything else has a working default.
func (c Catalog) Validate() error {
	if c.CountriesURL == "" {
		return fmt.Errorf("ATLAS_COUNTRIES_URL is required")
	}
	u, err := url.Parse(c.CountriesURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ATLAS_COUNTRIES_URL %q is not a valid absolute URL", c.CountriesURL)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("ATLAS_MAX_RETRIES must not be negative")
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
