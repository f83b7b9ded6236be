// Package updater is the caller-facing surface of the firmware update
// pipeline: list installable releases for a connected device, download the
// matching asset, and flash it with the strategy the device's hardware
// family requires.
//
// # Overview
//
//	u := updater.New(updater.WithToken(token))
//
//	releases, err := u.FetchReleases(ctx, dev)   // network
//	path, err := u.FetchAsset(ctx, dev, rel)     // network -> temp file
//	err = u.Install(ctx, dev, path, progressFn)  // blocking hardware I/O
//
// FetchReleases and FetchAsset are I/O-bound network calls and respect
// context cancellation. Install blocks for the full transfer (tens of
// seconds) and must be run on a worker goroutine; progress samples are
// delivered through the callback, or through progress.Channel when the
// consumer lives on another goroutine. Once a transfer has started it runs
// to completion or failure; cancel before calling Install, not during.
//
// Install dispatches on the device type: Bridge hardware flashes over USB
// DFU, the RP2040-based families by copying onto their bootloader volume.
// There is no fallback between strategies. The updater assumes at most one
// install per physical device at a time; serializing calls is the
// caller's job.
package updater
