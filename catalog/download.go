package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/loftmidi/go-fwupdate/device"
)

// downloadBufferSize is the chunk size for streaming an asset body to disk.
const downloadBufferSize = 32 * 1024

// Download re-selects the release's compatible asset for the device, streams
// it to a fresh file under the configured temp directory and returns its
// path once every byte is durably written.
//
// The file name is "{unix-millis}-{asset name}"; the file is created
// exclusively, and an occupied stamp is bumped until a free one is found,
// so concurrent or repeated downloads of the same asset never collide.
func (c *Client) Download(ctx context.Context, dev device.Device, release Release) (string, error) {
	asset, ok := release.CompatibleAsset(dev)
	if !ok {
		return "", &NoAssetError{Release: release.Version(), Device: dev.Type.String()}
	}

	url := asset.BrowserDownloadURL
	c.logInfo("downloading asset", "asset", asset.Name, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return "", &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	file, path, err := c.createTarget(asset.Name)
	if err != nil {
		return "", err
	}

	written, err := c.stream(resp.Body, file, url, path)
	if err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}

	// The installer reads this file back; make sure it hit the disk first.
	if err := file.Sync(); err != nil {
		file.Close()
		return "", &DownloadIOError{Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return "", &DownloadIOError{Path: path, Err: err}
	}

	c.logInfo("asset downloaded", "path", path, "bytes", written)
	return path, nil
}

// createTarget opens a fresh "{unix-millis}-{asset}" file under the temp
// directory. O_EXCL keeps two downloads landing on the same millisecond
// from truncating each other; the loser bumps its stamp and retries.
func (c *Client) createTarget(assetName string) (*os.File, string, error) {
	stamp := c.config.now().UnixMilli()
	for {
		path := filepath.Join(c.config.TempDir, fmt.Sprintf("%d-%s", stamp, assetName))
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return file, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", &DownloadIOError{Path: path, Err: err}
		}
		stamp++
	}
}

// stream copies the response body to the file in fixed-size chunks so that a
// network read failure and a disk write failure surface as different error
// types.
func (c *Client) stream(body io.Reader, file *os.File, url, path string) (int64, error) {
	buf := make([]byte, downloadBufferSize)
	var written int64
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return written, &DownloadIOError{Path: path, Err: werr}
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, &TransportError{URL: url, Err: rerr}
		}
	}
}
