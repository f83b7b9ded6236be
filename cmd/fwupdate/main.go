// Command fwupdate lists and installs firmware releases for a connected
// Loft MIDI device.
//
// Usage:
//
//	fwupdate --device bridge6 --list
//	fwupdate --device bridge6                    # install the newest release
//	fwupdate --device click --release v0.9.1
//	fwupdate --device uloop --file ./uloop.uf2   # flash a local image
//
// A GitHub token is read from --token, the GITHUB_TOKEN environment
// variable or a .env file; without one the catalog's anonymous rate limits
// apply.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/cheggaaa/pb"
	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/loftmidi/go-fwupdate/catalog"
	"github.com/loftmidi/go-fwupdate/device"
	"github.com/loftmidi/go-fwupdate/dfu"
	"github.com/loftmidi/go-fwupdate/firmware"
	"github.com/loftmidi/go-fwupdate/progress"
	"github.com/loftmidi/go-fwupdate/updater"
)

type options struct {
	Device  string `short:"d" long:"device" required:"true" description:"connected device family: bridge6, bridge4, click or uloop"`
	List    bool   `short:"l" long:"list" description:"list installable releases and exit"`
	Release string `short:"r" long:"release" description:"release tag to install (default: newest listed)"`
	File    string `short:"f" long:"file" description:"flash a local firmware file instead of downloading"`
	Token   string `long:"token" description:"catalog API token (default: GITHUB_TOKEN)"`
	Verbose bool   `short:"v" long:"verbose" description:"enable debug logging"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, "fwupdate:", userMessage(err))
		os.Exit(1)
	}
}

func run(opts options) error {
	typ, err := device.ParseType(opts.Device)
	if err != nil {
		return err
	}
	dev := device.Device{Type: typ}

	// Not an error when absent: a token only raises catalog rate limits.
	_ = godotenv.Load()
	token := opts.Token
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	updaterOpts := []updater.Option{updater.WithToken(token)}
	if opts.Verbose {
		updaterOpts = append(updaterOpts, updater.WithLogger(&stderrLogger{
			debug: true,
			out:   log.New(os.Stderr, "", log.LstdFlags),
		}))
	}
	u := updater.New(updaterOpts...)

	ctx := context.Background()

	if opts.List {
		return listReleases(ctx, u, dev)
	}

	path := opts.File
	if path == "" {
		path, err = downloadRelease(ctx, u, dev, opts.Release)
		if err != nil {
			return err
		}
	}

	if format, err := firmware.Detect(path); err == nil {
		fmt.Printf("installing %s image onto %s\n", format, dev.Type)
	}

	return install(ctx, u, dev, path)
}

func listReleases(ctx context.Context, u *updater.Updater, dev device.Device) error {
	releases, err := u.FetchReleases(ctx, dev)
	if err != nil {
		return err
	}
	if len(releases) == 0 {
		fmt.Printf("no installable releases for %s\n", dev.Type)
		return nil
	}

	for _, r := range releases {
		marker := " "
		if r.Prerelease {
			marker = "*"
		}
		asset, _ := r.CompatibleAsset(dev)
		fmt.Printf("%s %-12s %s  %s\n", marker, r.Version(), r.PublishedAt.Format("2006-01-02"), asset.Name)
	}
	return nil
}

func downloadRelease(ctx context.Context, u *updater.Updater, dev device.Device, tag string) (string, error) {
	releases, err := u.FetchReleases(ctx, dev)
	if err != nil {
		return "", err
	}
	if len(releases) == 0 {
		return "", fmt.Errorf("no installable releases for %s", dev.Type)
	}

	chosen := releases[0]
	if tag != "" {
		found := false
		for _, r := range releases {
			if r.Version() == tag {
				chosen = r
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("release %q not found for %s (try --list)", tag, dev.Type)
		}
	}

	fmt.Printf("downloading %s for %s\n", chosen.Version(), dev.Type)
	return u.FetchAsset(ctx, dev, chosen)
}

func install(ctx context.Context, u *updater.Updater, dev device.Device, path string) error {
	var bar *pb.ProgressBar
	fn := func(p progress.Progress) {
		if bar == nil {
			bar = pb.New64(p.Total)
			bar.Units = pb.U_BYTES
			bar.ShowSpeed = true
			bar.Start()
		}
		bar.Set64(p.Bytes)
	}

	err := u.Install(ctx, dev, path, fn)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Println("firmware installed")
	return nil
}

// userMessage turns pipeline error kinds into actionable operator text.
func userMessage(err error) string {
	switch {
	case catalog.IsRateLimit(err):
		return fmt.Sprintf("%v (wait a while, or pass --token)", err)
	case dfu.IsTeardown(err):
		return fmt.Sprintf("%v", err)
	default:
		var notFound *dfu.NotFoundError
		if errors.As(err, &notFound) {
			return fmt.Sprintf("%v (put the device into bootloader mode and retry)", notFound)
		}
		return err.Error()
	}
}

// stderrLogger adapts the standard logger to the pipeline's logging
// interface.
type stderrLogger struct {
	debug bool
	out   *log.Logger
}

func (l *stderrLogger) Debug(msg string, keysAndValues ...interface{}) {
	if l.debug {
		l.print("DEBUG", msg, keysAndValues)
	}
}

func (l *stderrLogger) Info(msg string, keysAndValues ...interface{}) {
	l.print("INFO", msg, keysAndValues)
}

func (l *stderrLogger) Error(msg string, keysAndValues ...interface{}) {
	l.print("ERROR", msg, keysAndValues)
}

func (l *stderrLogger) print(level, msg string, keysAndValues []interface{}) {
	line := level + " " + msg
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		line += fmt.Sprintf(" %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.out.Println(line)
}
