package dfu

import "github.com/loftmidi/go-fwupdate/progress"

// Config holds the session configuration.
type Config struct {
	// Address is the flash address the image is programmed at
	Address uint32

	// TransferSize is the block size for DNLOAD transfers
	TransferSize int

	// PageSize is the flash erase granularity
	PageSize int

	// Interface is the wIndex sent with every class request
	Interface uint16

	// Progress is called after every transferred block (optional)
	Progress progress.Func

	// Logger is used for session tracing (optional)
	Logger Logger
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
		Address:      DefaultAddress,
		TransferSize: DefaultTransferSize,
		PageSize:     DefaultPageSize,
		Interface:    InterfaceNumber,
	}
}

// Option is a functional option for configuring a Session.
type Option func(*Config)

// WithAddress overrides the default flash start address.
func WithAddress(addr uint32) Option {
	return func(c *Config) {
		c.Address = addr
	}
}

// WithTransferSize sets the DNLOAD block size. Values outside
// (0, MaxTransferSize] are ignored.
func WithTransferSize(size int) Option {
	return func(c *Config) {
		if size > 0 && size <= MaxTransferSize {
			c.TransferSize = size
		}
	}
}

// WithPageSize sets the flash erase granularity.
func WithPageSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.PageSize = size
		}
	}
}

// WithInterface sets the interface number addressed by class requests.
func WithInterface(intf uint16) Option {
	return func(c *Config) {
		c.Interface = intf
	}
}

// WithProgress sets a callback invoked after every transferred block.
// The callback runs on the goroutine performing the transfer and must
// return quickly.
func WithProgress(fn progress.Func) Option {
	return func(c *Config) {
		c.Progress = fn
	}
}

// WithLogger sets a logger for session operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
