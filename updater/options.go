package updater

import (
	"net/http"
	"time"

	"github.com/loftmidi/go-fwupdate/dfu"
	"github.com/loftmidi/go-fwupdate/massstorage"
)

// Logger is an optional logging interface, satisfied by any implementation
// of Debug/Info/Error with key-value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// OpenDFUFunc opens and claims the DFU-mode USB device.
type OpenDFUFunc func() (dfu.Device, error)

// Config holds the updater configuration.
type Config struct {
	// Token is the optional catalog credential. Empty means anonymous
	// access. The updater never reads the environment itself; resolving
	// the token from wherever it lives is the caller's job.
	Token string

	// HTTPClient overrides the catalog's HTTP client (optional)
	HTTPClient *http.Client

	// BaseURL overrides the catalog root (optional, for tests and mirrors)
	BaseURL string

	// TempDir overrides where downloaded assets land (optional)
	TempDir string

	// OpenDFU opens the DFU-mode device; defaults to gousb enumeration
	// with the Bridge bootloader IDs
	OpenDFU OpenDFUFunc

	// DiskLister overrides bootloader volume discovery (optional)
	DiskLister massstorage.Lister

	// SettleDelay overrides the mass-storage mount wait (negative means
	// default)
	SettleDelay time.Duration

	// Logger is used across the pipeline (optional)
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		SettleDelay: -1,
		OpenDFU: func() (dfu.Device, error) {
			return dfu.Open(dfu.VendorID, dfu.ProductID, dfu.InterfaceNumber, dfu.AltSetting)
		},
	}
}

// Option is a functional option for configuring the Updater.
type Option func(*Config)

// WithToken sets the catalog credential.
func WithToken(token string) Option {
	return func(c *Config) {
		c.Token = token
	}
}

// WithHTTPClient replaces the catalog's HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithBaseURL points the catalog at a different API root.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTempDir sets the directory receiving downloaded assets.
func WithTempDir(dir string) Option {
	return func(c *Config) {
		c.TempDir = dir
	}
}

// WithOpenDFU replaces how the DFU-mode device is opened.
func WithOpenDFU(open OpenDFUFunc) Option {
	return func(c *Config) {
		if open != nil {
			c.OpenDFU = open
		}
	}
}

// WithDiskLister replaces bootloader volume discovery.
func WithDiskLister(lister massstorage.Lister) Option {
	return func(c *Config) {
		c.DiskLister = lister
	}
}

// WithSettleDelay overrides the mass-storage mount wait.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.SettleDelay = d
		}
	}
}

// WithLogger sets a logger used across the pipeline.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
