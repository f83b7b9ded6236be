package catalog

import (
	"strings"

	"github.com/loftmidi/go-fwupdate/device"
)

// CompatibleWith reports whether this asset targets the given device's
// hardware family. Asset names carry the family tag by publishing
// convention (for example "bridgeOS_1.2.0_bridge6.bin"); matching is
// case-insensitive. Pure and deterministic: this is the single
// compatibility predicate, used both when filtering the release listing and
// when re-selecting the asset at download time.
func (a Asset) CompatibleWith(d device.Device) bool {
	tag, ok := d.Type.AssetTag()
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(a.Name), tag)
}

// CompatibleWith reports whether the release carries at least one asset
// compatible with the device.
func (r Release) CompatibleWith(d device.Device) bool {
	for _, a := range r.Assets {
		if a.CompatibleWith(d) {
			return true
		}
	}
	return false
}

// CompatibleAsset returns the first asset compatible with the device,
// preserving the release's asset order.
func (r Release) CompatibleAsset(d device.Device) (Asset, bool) {
	for _, a := range r.Assets {
		if a.CompatibleWith(d) {
			return a, true
		}
	}
	return Asset{}, false
}
