package updater

import (
	"context"
	"fmt"

	"github.com/loftmidi/go-fwupdate/catalog"
	"github.com/loftmidi/go-fwupdate/device"
	"github.com/loftmidi/go-fwupdate/dfu"
	"github.com/loftmidi/go-fwupdate/massstorage"
	"github.com/loftmidi/go-fwupdate/progress"
)

// Updater runs the release-to-device update pipeline. Safe for concurrent
// use, with the caveat that at most one Install may target a physical
// device at a time.
type Updater struct {
	catalog *catalog.Client
	config  Config
}

// New creates an Updater.
//
// Example:
//
//	u := updater.New(
//	    updater.WithToken(os.Getenv("GITHUB_TOKEN")),
//	    updater.WithLogger(myLogger),
//	)
func New(opts ...Option) *Updater {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	catalogOpts := []catalog.Option{}
	if cfg.Token != "" {
		catalogOpts = append(catalogOpts, catalog.WithToken(cfg.Token))
	}
	if cfg.HTTPClient != nil {
		catalogOpts = append(catalogOpts, catalog.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.BaseURL != "" {
		catalogOpts = append(catalogOpts, catalog.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TempDir != "" {
		catalogOpts = append(catalogOpts, catalog.WithTempDir(cfg.TempDir))
	}
	if cfg.Logger != nil {
		catalogOpts = append(catalogOpts, catalog.WithLogger(cfg.Logger))
	}

	return &Updater{
		catalog: catalog.New(catalogOpts...),
		config:  cfg,
	}
}

// FetchReleases lists the catalog releases installable on the device, in
// catalog order. Bootloader-mode and unrecognized devices fail with
// *device.UnsupportedError before any network call.
func (u *Updater) FetchReleases(ctx context.Context, dev device.Device) ([]catalog.Release, error) {
	return u.catalog.Releases(ctx, dev)
}

// FetchAsset downloads the release's asset compatible with the device and
// returns the local file path once the file is durably written.
func (u *Updater) FetchAsset(ctx context.Context, dev device.Device, release catalog.Release) (string, error) {
	return u.catalog.Download(ctx, dev, release)
}

// Install flashes the firmware file at path onto the device, dispatching
// to the install strategy its hardware family requires. The call blocks
// for the whole transfer; fn receives progress samples from the
// transferring goroutine and may be nil.
func (u *Updater) Install(ctx context.Context, dev device.Device, path string, fn progress.Func) error {
	strategy, err := dev.Type.InstallStrategy()
	if err != nil {
		return err
	}

	u.logInfo("installing firmware",
		"device", dev.Type.String(),
		"strategy", strategy.String(),
		"path", path,
	)

	switch strategy {
	case device.StrategyDFU:
		return u.installDFU(ctx, path, fn)
	case device.StrategyMassStorage:
		_, err := u.installMassStorage(ctx, path, fn)
		return err
	default:
		// InstallStrategy is exhaustive; reaching this means a variant was
		// added without a dispatch arm.
		return fmt.Errorf("no installer wired for strategy %v (device %s)", strategy, dev.Type)
	}
}

func (u *Updater) installDFU(ctx context.Context, path string, fn progress.Func) error {
	usb, err := u.config.OpenDFU()
	if err != nil {
		return err
	}
	defer usb.Close()

	session := dfu.New(usb,
		dfu.WithProgress(fn),
		dfu.WithLogger(u.config.Logger),
	)
	return session.InstallFile(ctx, path)
}

func (u *Updater) installMassStorage(ctx context.Context, path string, fn progress.Func) (int64, error) {
	opts := []massstorage.Option{
		massstorage.WithProgress(fn),
	}
	if u.config.DiskLister != nil {
		opts = append(opts, massstorage.WithLister(u.config.DiskLister))
	}
	if u.config.SettleDelay >= 0 {
		opts = append(opts, massstorage.WithSettleDelay(u.config.SettleDelay))
	}
	if u.config.Logger != nil {
		opts = append(opts, massstorage.WithLogger(u.config.Logger))
	}

	installer := massstorage.New(opts...)
	return installer.Install(ctx, path)
}

func (u *Updater) logInfo(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Info(msg, keysAndValues...)
	}
}
