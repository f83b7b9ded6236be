// Package catalog queries the remote firmware release catalog and downloads
// release assets.
//
// # Overview
//
// The catalog is a GitHub-releases style HTTP listing: one repository per
// hardware family, each release carrying one or more downloadable assets.
// The client resolves a connected device to its repository, fetches the
// listing and returns only the releases that carry at least one asset
// compatible with that device.
//
// # Basic Usage
//
//	client := catalog.New(catalog.WithToken(os.Getenv("GITHUB_TOKEN")))
//
//	releases, err := client.Releases(ctx, dev)
//	if err != nil {
//	    // typed: *device.UnsupportedError, *catalog.RateLimitError, ...
//	}
//
//	path, err := client.Download(ctx, dev, releases[0])
//
// # Compatibility
//
// Asset.CompatibleWith is the single compatibility predicate. Releases and
// Download both consult it, so an asset filtered in during listing is judged
// by the same rule when it is re-selected at download time. If the device
// changed between the two calls, Download fails closed with NoAssetError.
//
// # Error Handling
//
// Failures are reported as distinct types so callers can present actionable
// messages:
//   - *device.UnsupportedError: device class has no release channel
//   - *RateLimitError: catalog answered 403 or 429
//   - *StatusError: any other non-success HTTP status
//   - *TransportError: DNS, connection or timeout failure
//   - *ParseError: malformed body on a success status
//   - *NoAssetError: release has no asset for this device
//   - *DownloadIOError: local file creation or write failure
//
// The client never retries; rate-limit backoff belongs to the caller.
package catalog
