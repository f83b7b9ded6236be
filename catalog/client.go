package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/loftmidi/go-fwupdate/device"
)

// Client queries the release catalog. Safe for concurrent use after
// construction.
type Client struct {
	config Config
}

// New creates a catalog client.
//
// Example:
//
//	client := catalog.New(
//	    catalog.WithToken(token),
//	    catalog.WithPagination(50, 1),
//	)
func New(opts ...Option) *Client {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{config: cfg}
}

// Releases fetches the release listing for the device's firmware repository
// and returns, in catalog order, the releases carrying at least one
// compatible asset.
//
// Devices in a bootloader mode and unrecognized devices fail immediately
// with *device.UnsupportedError; no network request is made for them.
func (c *Client) Releases(ctx context.Context, dev device.Device) ([]Release, error) {
	repo, err := dev.Type.Repository()
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d&page=%d",
		c.config.BaseURL, c.config.Org, repo, c.config.PerPage, c.config.Page)

	c.logDebug("fetching release listing", "url", url, "device", dev.Type.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	c.setHeaders(req)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests:
		c.logError("catalog rate limit hit", "status", resp.StatusCode)
		return nil, &RateLimitError{StatusCode: resp.StatusCode}
	default:
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var releases []Release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	compatible := make([]Release, 0, len(releases))
	for _, r := range releases {
		if r.CompatibleWith(dev) {
			compatible = append(compatible, r)
		}
	}

	c.logInfo("release listing fetched",
		"total", len(releases),
		"compatible", len(compatible),
	)
	return compatible, nil
}

// setHeaders attaches the client identification header and, when a token is
// configured, the bearer credential.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.config.UserAgent)
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
}

func (c *Client) logDebug(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (c *Client) logInfo(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Info(msg, keysAndValues...)
	}
}

func (c *Client) logError(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Error(msg, keysAndValues...)
	}
}
