package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/loftmidi/go-fwupdate/device"
)

func TestDownloadWritesTimestampedFile(t *testing.T) {
	payload := []byte("uf2 payload bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	tmp := t.TempDir()
	fixed := time.UnixMilli(1700000000000)
	client := New(WithTempDir(tmp), withNow(func() time.Time { return fixed }))

	release := Release{
		TagName: "v0.9.1",
		Assets: []Asset{
			{Name: "click_0.9.1.uf2", BrowserDownloadURL: server.URL + "/click_0.9.1.uf2"},
		},
	}

	path, err := client.Download(context.Background(), device.Device{Type: device.TypeClick}, release)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}

	if filepath.Dir(path) != tmp {
		t.Errorf("download landed in %s, want %s", filepath.Dir(path), tmp)
	}
	if got := filepath.Base(path); got != "1700000000000-click_0.9.1.uf2" {
		t.Errorf("file name = %q, want timestamp-asset form", got)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(content) != string(payload) {
		t.Errorf("downloaded content mismatch: %q", content)
	}
}

func TestDownloadPathsNeverCollide(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	var millis atomic.Int64
	millis.Store(1700000000000)
	client := New(
		WithTempDir(t.TempDir()),
		withNow(func() time.Time { return time.UnixMilli(millis.Add(1)) }),
	)

	release := Release{
		TagName: "v1.0.0",
		Assets:  []Asset{{Name: "uloop_1.0.0.uf2", BrowserDownloadURL: server.URL + "/a"}},
	}
	dev := device.Device{Type: device.TypeULoop}

	first, err := client.Download(context.Background(), dev, release)
	if err != nil {
		t.Fatal(err)
	}
	second, err := client.Download(context.Background(), dev, release)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Errorf("sequential downloads of the same asset collided on %s", first)
	}
}

func TestDownloadConcurrentSameStamp(t *testing.T) {
	// All workers see the same wall-clock millisecond; exclusive creation
	// must still hand every download its own file.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer server.Close()

	fixed := time.UnixMilli(1700000000000)
	client := New(
		WithTempDir(t.TempDir()),
		withNow(func() time.Time { return fixed }),
	)

	release := Release{
		TagName: "v1.0.0",
		Assets:  []Asset{{Name: "click_1.0.0.uf2", BrowserDownloadURL: server.URL + "/a"}},
	}
	dev := device.Device{Type: device.TypeClick}

	const workers = 8
	paths := make([]string, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = client.Download(context.Background(), dev, release)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]int)
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("download %d: %v", i, errs[i])
		}
		seen[paths[i]]++
		content, err := os.ReadFile(paths[i])
		if err != nil {
			t.Fatalf("reading %s: %v", paths[i], err)
		}
		if string(content) != "payload" {
			t.Errorf("file %s content = %q", paths[i], content)
		}
	}
	for path, n := range seen {
		if n > 1 {
			t.Errorf("%d downloads returned the same path %s", n, path)
		}
	}
}

func TestDownloadNoCompatibleAsset(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := New(WithTempDir(t.TempDir()))

	// Listed for Bridge6, but the connected device is now a Click.
	release := Release{
		TagName: "v1.2.0",
		Assets:  []Asset{{Name: "bridgeOS_1.2.0_bridge6.bin", BrowserDownloadURL: server.URL + "/b6"}},
	}

	_, err := client.Download(context.Background(), device.Device{Type: device.TypeClick}, release)

	var noAsset *NoAssetError
	if !errors.As(err, &noAsset) {
		t.Fatalf("error is %T (%v), want *NoAssetError", err, err)
	}
	if hits.Load() != 0 {
		t.Errorf("incompatible release caused %d downloads, want 0", hits.Load())
	}
	if !strings.Contains(err.Error(), "v1.2.0") {
		t.Errorf("error should name the release, got: %s", err.Error())
	}
}

func TestDownloadStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(WithTempDir(t.TempDir()))
	release := Release{
		TagName: "v1.0.0",
		Assets:  []Asset{{Name: "click_1.0.0.uf2", BrowserDownloadURL: server.URL + "/gone"}},
	}

	_, err := client.Download(context.Background(), device.Device{Type: device.TypeClick}, release)

	var status *StatusError
	if !errors.As(err, &status) {
		t.Fatalf("error is %T (%v), want *StatusError", err, err)
	}
}

func TestDownloadCreateFailureIsIOError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer server.Close()

	client := New(WithTempDir(filepath.Join(t.TempDir(), "missing", "dir")))
	release := Release{
		TagName: "v1.0.0",
		Assets:  []Asset{{Name: "click_1.0.0.uf2", BrowserDownloadURL: server.URL + "/a"}},
	}

	_, err := client.Download(context.Background(), device.Device{Type: device.TypeClick}, release)

	var ioErr *DownloadIOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("error is %T (%v), want *DownloadIOError", err, err)
	}
}
