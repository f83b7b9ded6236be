package catalog

import "fmt"

// TransportError indicates a network-level failure (DNS, connection,
// timeout) before any HTTP status was received.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError indicates a non-success HTTP status other than the rate-limit
// statuses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned status %d for %s", e.StatusCode, e.URL)
}

// RateLimitError indicates the catalog answered 403 or 429. Distinct from
// StatusError because callers may want to back off or prompt for a token.
type RateLimitError struct {
	StatusCode int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("catalog rate limit hit (status %d); set a token to raise the limit", e.StatusCode)
}

// ParseError indicates a malformed response body on an otherwise successful
// request.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse catalog response from %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NoAssetError indicates that a release carries no asset compatible with the
// device. This can happen at download time even for a release returned by
// the listing, if the connected device changed in between.
type NoAssetError struct {
	Release string
	Device  string
}

func (e *NoAssetError) Error() string {
	return fmt.Sprintf("release %q has no asset compatible with %s", e.Release, e.Device)
}

// DownloadIOError indicates a local filesystem failure while creating or
// writing the downloaded asset. Distinct from TransportError so a full disk
// is never mistaken for a flaky network.
type DownloadIOError struct {
	Path string
	Err  error
}

func (e *DownloadIOError) Error() string {
	return fmt.Sprintf("cannot write download to %s: %v", e.Path, e.Err)
}

func (e *DownloadIOError) Unwrap() error { return e.Err }

// IsRateLimit returns true if the error is a RateLimitError.
func IsRateLimit(err error) bool {
	_, ok := err.(*RateLimitError)
	return ok
}
