package catalog

import (
	"net/http"
	"os"
	"time"
)

// Config holds the client configuration.
type Config struct {
	// HTTPClient performs all catalog requests
	HTTPClient *http.Client

	// BaseURL is the catalog API root, without a trailing slash
	BaseURL string

	// Org is the catalog organization owning the firmware repositories
	Org string

	// Token is the optional bearer credential. Empty means anonymous
	// access, which only lowers the catalog's rate limits.
	Token string

	// UserAgent is sent with every request; the catalog rejects requests
	// without one
	UserAgent string

	// PerPage and Page control listing pagination
	PerPage int
	Page    int

	// TempDir receives downloaded assets
	TempDir string

	// Logger is used for request tracing (optional)
	Logger Logger

	// now stamps download file names; overridable in tests
	now func() time.Time
}

// Logger is an optional logging interface, satisfied by any implementation
// of Debug/Info/Error with key-value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

func defaultConfig() Config {
	return Config{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    "https://api.github.com",
		Org:        "loftmidi",
		UserAgent:  "go-fwupdate",
		PerPage:    30,
		Page:       1,
		TempDir:    os.TempDir(),
		now:        time.Now,
	}
}

// Option is a functional option for configuring the Client.
type Option func(*Config)

// WithToken sets the bearer credential sent with catalog requests. The
// token is an explicit configuration value; the library never reads the
// environment itself.
func WithToken(token string) Option {
	return func(c *Config) {
		c.Token = token
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		if client != nil {
			c.HTTPClient = client
		}
	}
}

// WithBaseURL points the client at a different catalog root, e.g. a
// GitHub Enterprise host or a test server.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		if url != "" {
			c.BaseURL = url
		}
	}
}

// WithOrg sets the catalog organization owning the firmware repositories.
func WithOrg(org string) Option {
	return func(c *Config) {
		if org != "" {
			c.Org = org
		}
	}
}

// WithPagination sets the listing page size and page number.
func WithPagination(perPage, page int) Option {
	return func(c *Config) {
		if perPage > 0 {
			c.PerPage = perPage
		}
		if page > 0 {
			c.Page = page
		}
	}
}

// WithTempDir sets the directory receiving downloaded assets.
func WithTempDir(dir string) Option {
	return func(c *Config) {
		if dir != "" {
			c.TempDir = dir
		}
	}
}

// WithLogger sets a logger for catalog operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// withNow overrides the clock used for download file names. Test hook.
func withNow(now func() time.Time) Option {
	return func(c *Config) {
		if now != nil {
			c.now = now
		}
	}
}
