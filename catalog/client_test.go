package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/loftmidi/go-fwupdate/device"
)

const listingBody = `[
  {
    "name": "bridgeOS 1.2.0",
    "tag_name": "v1.2.0",
    "prerelease": false,
    "assets": [
      {"name": "bridgeOS_1.2.0_bridge6.bin", "size": 4, "browser_download_url": "http://example.invalid/b6"},
      {"name": "bridgeOS_1.2.0_bridge4.bin", "size": 4, "browser_download_url": "http://example.invalid/b4"}
    ]
  },
  {
    "name": "tooling only",
    "tag_name": "v1.1.9",
    "prerelease": false,
    "assets": [
      {"name": "release-notes.txt", "size": 1, "browser_download_url": "http://example.invalid/notes"}
    ]
  },
  {
    "name": "bridgeOS 1.1.0",
    "tag_name": "v1.1.0",
    "prerelease": true,
    "assets": [
      {"name": "bridgeOS_1.1.0_bridge6.bin", "size": 4, "browser_download_url": "http://example.invalid/old"}
    ]
  }
]`

func TestReleasesFiltersAndPreservesOrder(t *testing.T) {
	var gotPath, gotQuery, gotUA, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(listingBody))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithToken("secret"), WithPagination(50, 2))

	releases, err := client.Releases(context.Background(), device.Device{Type: device.TypeBridge6})
	if err != nil {
		t.Fatalf("Releases: %v", err)
	}

	if gotPath != "/repos/loftmidi/bridge-firmware/releases" {
		t.Errorf("request path = %q", gotPath)
	}
	if gotQuery != "per_page=50&page=2" {
		t.Errorf("request query = %q", gotQuery)
	}
	if gotUA != "go-fwupdate" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}

	// The release with no compatible asset is dropped; the rest keep order.
	if len(releases) != 2 {
		t.Fatalf("got %d releases, want 2", len(releases))
	}
	if releases[0].TagName != "v1.2.0" || releases[1].TagName != "v1.1.0" {
		t.Errorf("catalog order not preserved: %q, %q", releases[0].TagName, releases[1].TagName)
	}
	for _, r := range releases {
		if !r.CompatibleWith(device.Device{Type: device.TypeBridge6}) {
			t.Errorf("release %q has no compatible asset", r.Version())
		}
	}
}

func TestReleasesOmitsAuthorizationWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("Authorization header must be absent without a token")
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))
	if _, err := client.Releases(context.Background(), device.Device{Type: device.TypeClick}); err != nil {
		t.Fatalf("Releases: %v", err)
	}
}

func TestReleasesBootloaderDeviceSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))

	for _, typ := range []device.Type{device.TypeBridgeBootloader, device.TypeRP2040Bootloader, device.TypeUnknown} {
		_, err := client.Releases(context.Background(), device.Device{Type: typ})
		if err == nil {
			t.Fatalf("%s: expected error", typ)
		}
		var unsupported *device.UnsupportedError
		if !errors.As(err, &unsupported) {
			t.Errorf("%s: error is %T, want *device.UnsupportedError", typ, err)
		}
	}

	if hits.Load() != 0 {
		t.Errorf("bootloader device caused %d network calls, want 0", hits.Load())
	}
}

func TestReleasesRateLimitIsDistinct(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusTooManyRequests} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client := New(WithBaseURL(server.URL))
		_, err := client.Releases(context.Background(), device.Device{Type: device.TypeULoop})
		server.Close()

		var rate *RateLimitError
		if !errors.As(err, &rate) {
			t.Fatalf("status %d: error is %T (%v), want *RateLimitError", status, err, err)
		}
		if rate.StatusCode != status {
			t.Errorf("RateLimitError.StatusCode = %d, want %d", rate.StatusCode, status)
		}
		if !IsRateLimit(err) {
			t.Errorf("IsRateLimit should report true for %v", err)
		}
	}
}

func TestReleasesGenericStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))
	_, err := client.Releases(context.Background(), device.Device{Type: device.TypeBridge4})

	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("error is %T (%v), want *StatusError", err, err)
	}
	if status.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", status.StatusCode)
	}
	if IsRateLimit(err) {
		t.Error("a 500 must not be classified as a rate limit")
	}
}

func TestReleasesMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"this is": "not a listing"`))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL))
	_, err := client.Releases(context.Background(), device.Device{Type: device.TypeBridge6})

	var parse *ParseError
	if !errors.As(err, &parse) {
		t.Fatalf("error is %T (%v), want *ParseError", err, err)
	}
}

func TestReleasesTransportError(t *testing.T) {
	// A server that is already closed produces a connection failure.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(WithBaseURL(url))
	_, err := client.Releases(context.Background(), device.Device{Type: device.TypeBridge6})

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("error is %T (%v), want *TransportError", err, err)
	}
	if !strings.Contains(err.Error(), url) {
		t.Errorf("transport error should name the URL, got: %s", err.Error())
	}
}
