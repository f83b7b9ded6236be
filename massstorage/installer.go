package massstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/loftmidi/go-fwupdate/progress"
)

// DefaultVolumeLabel is the RP2040 bootloader's volume label.
const DefaultVolumeLabel = "RPI-RP2"

// DefaultSettleDelay is how long the installer waits for the operating
// system to finish mounting the bootloader volume after the device
// re-enumerates. A fixed delay, not a poll loop: mount latency has no
// completion signal portable across platforms.
const DefaultSettleDelay = 3 * time.Second

// DefaultCopyBufferSize is the chunk size for the firmware copy.
const DefaultCopyBufferSize = 512

// Config holds the installer configuration.
type Config struct {
	// Lister enumerates mounted volumes
	Lister Lister

	// VolumeLabel is the bootloader volume to look for (case-insensitive)
	VolumeLabel string

	// SettleDelay is the wait before disk enumeration
	SettleDelay time.Duration

	// CopyBufferSize is the chunk size for the firmware copy
	CopyBufferSize int

	// Progress is called with incremental byte counts during the copy
	// (optional)
	Progress progress.Func

	// Logger is used for install tracing (optional)
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
		Lister:         SystemLister{},
		VolumeLabel:    DefaultVolumeLabel,
		SettleDelay:    DefaultSettleDelay,
		CopyBufferSize: DefaultCopyBufferSize,
	}
}

// Option is a functional option for configuring the Installer.
type Option func(*Config)

// WithLister replaces the default system disk lister.
func WithLister(lister Lister) Option {
	return func(c *Config) {
		if lister != nil {
			c.Lister = lister
		}
	}
}

// WithVolumeLabel sets the bootloader volume label to look for.
func WithVolumeLabel(label string) Option {
	return func(c *Config) {
		if label != "" {
			c.VolumeLabel = label
		}
	}
}

// WithSettleDelay sets the wait before disk enumeration. Zero is valid and
// useful in tests.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.SettleDelay = d
		}
	}
}

// WithCopyBufferSize sets the chunk size for the firmware copy.
func WithCopyBufferSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.CopyBufferSize = size
		}
	}
}

// WithProgress sets a callback invoked with incremental byte counts during
// the copy. The callback runs on the goroutine performing the copy and
// must return quickly.
func WithProgress(fn progress.Func) Option {
	return func(c *Config) {
		c.Progress = fn
	}
}

// WithLogger sets a logger for install operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Installer copies firmware onto a bootloader volume. An Installer performs
// blocking I/O; run it off any latency-sensitive goroutine.
type Installer struct {
	config Config
}

// New creates an Installer.
func New(opts ...Option) *Installer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Installer{config: cfg}
}

// Install copies the firmware file at path onto the root of the bootloader
// volume, keeping its original file name, and returns the number of bytes
// written. One attempt: a missing volume or a failed copy is terminal.
func (i *Installer) Install(ctx context.Context, path string) (int64, error) {
	if i.config.SettleDelay > 0 {
		i.logDebug("waiting for volume to settle", "delay", i.config.SettleDelay.String())
		select {
		case <-time.After(i.config.SettleDelay):
		case <-ctx.Done():
			return 0, fmt.Errorf("cancelled: %w", ctx.Err())
		}
	}

	target, err := i.findTarget(ctx)
	if err != nil {
		return 0, err
	}
	i.logInfo("target volume found", "label", target.Label, "mount", target.MountPoint)

	return i.copyTo(target, path)
}

// findTarget enumerates mounted disks and picks the removable volume whose
// label matches the configured bootloader label.
func (i *Installer) findTarget(ctx context.Context) (Disk, error) {
	disks, err := i.config.Lister.List(ctx)
	if err != nil {
		return Disk{}, fmt.Errorf("enumerate disks: %w", err)
	}
	i.logDebug("enumerated disks", "count", len(disks))

	for _, d := range disks {
		if d.Removable && strings.EqualFold(d.Label, i.config.VolumeLabel) {
			return d, nil
		}
	}
	return Disk{}, &DiskNotFoundError{Label: i.config.VolumeLabel}
}

// copyTo streams the firmware file to the volume root in fixed-size
// chunks, reporting progress after every chunk.
func (i *Installer) copyTo(target Disk, path string) (int64, error) {
	src, err := os.Open(path)
	if err != nil {
		return 0, &CopyError{Path: path, Err: err}
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return 0, &CopyError{Path: path, Err: err}
	}
	total := info.Size()

	dstPath := filepath.Join(target.MountPoint, filepath.Base(path))
	dst, err := os.Create(dstPath)
	if err != nil {
		return 0, &CopyError{Path: dstPath, Err: err}
	}

	i.reportProgress(0, total)

	buf := make([]byte, i.config.CopyBufferSize)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				dst.Close()
				return written, &CopyError{Path: dstPath, Err: werr}
			}
			written += int64(n)
			i.reportProgress(written, total)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			dst.Close()
			return written, &CopyError{Path: path, Err: rerr}
		}
	}

	// The bootloader reflashes as soon as the file lands; make sure every
	// byte actually reached the volume before reporting success.
	if err := dst.Sync(); err != nil {
		dst.Close()
		return written, &CopyError{Path: dstPath, Err: err}
	}
	if err := dst.Close(); err != nil {
		return written, &CopyError{Path: dstPath, Err: err}
	}

	i.logInfo("firmware copied", "path", dstPath, "bytes", written)
	return written, nil
}

func (i *Installer) reportProgress(written, total int64) {
	if i.config.Progress != nil {
		i.config.Progress(progress.Progress{Bytes: written, Total: total})
	}
}

func (i *Installer) logDebug(msg string, keysAndValues ...interface{}) {
	if i.config.Logger != nil {
		i.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (i *Installer) logInfo(msg string, keysAndValues ...interface{}) {
	if i.config.Logger != nil {
		i.config.Logger.Info(msg, keysAndValues...)
	}
}
