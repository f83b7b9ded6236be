package catalog

import "time"

// Release is one versioned publication in the catalog. Immutable once
// fetched; the listing preserves catalog order and does not hide
// prereleases.
type Release struct {
	Name        string    `json:"name"`
	TagName     string    `json:"tag_name"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
	Assets      []Asset   `json:"assets"`
}

// Asset is a single downloadable binary attached to a release.
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	ContentType        string `json:"content_type"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Version returns the release's human-facing version identifier, preferring
// the tag name.
func (r Release) Version() string {
	if r.TagName != "" {
		return r.TagName
	}
	return r.Name
}
