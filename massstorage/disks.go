package massstorage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// Disk is one mounted volume as seen by a Lister.
type Disk struct {
	// Label is the volume label
	Label string

	// MountPoint is where the volume's root is reachable
	MountPoint string

	// Removable marks hot-pluggable media
	Removable bool
}

// Lister enumerates mounted volumes.
type Lister interface {
	List(ctx context.Context) ([]Disk, error)
}

// SystemLister enumerates the host's mounted partitions via gopsutil.
type SystemLister struct{}

func (SystemLister) List(ctx context.Context) ([]Disk, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	disks := make([]Disk, 0, len(parts))
	for _, p := range parts {
		disks = append(disks, Disk{
			// Automounters expose the volume label as the mount point's
			// base name (/Volumes/RPI-RP2, /media/<user>/RPI-RP2).
			Label:      filepath.Base(p.Mountpoint),
			MountPoint: p.Mountpoint,
			Removable:  removable(p),
		})
	}
	return disks, nil
}

// removable decides whether a partition sits on hot-pluggable media. Linux
// exposes this in sysfs; elsewhere the automount location is the signal.
func removable(p disk.PartitionStat) bool {
	switch runtime.GOOS {
	case "linux":
		if sysfsRemovable(p.Device) {
			return true
		}
		return hasMountPrefix(p.Mountpoint, "/media/", "/run/media/")
	case "darwin":
		return hasMountPrefix(p.Mountpoint, "/Volumes/")
	case "windows":
		// UF2 volumes mount as lettered drives; the label match does the
		// real filtering.
		return true
	default:
		return hasMountPrefix(p.Mountpoint, "/media/", "/run/media/", "/Volumes/")
	}
}

func hasMountPrefix(mount string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(mount, prefix) {
			return true
		}
	}
	return false
}

// sysfsRemovable reads the block device's removable attribute, e.g.
// /sys/block/sda/removable for /dev/sda1.
func sysfsRemovable(device string) bool {
	name := filepath.Base(device)
	// Strip the partition number to get the parent block device.
	name = strings.TrimRight(name, "0123456789")
	if name == "" {
		return false
	}

	data, err := os.ReadFile(filepath.Join("/sys/block", name, "removable"))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "1"
}
