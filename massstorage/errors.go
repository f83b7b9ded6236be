package massstorage

import "fmt"

// DiskNotFoundError indicates that no removable volume with the expected
// label was mounted after the settle wait.
type DiskNotFoundError struct {
	Label string
}

func (e *DiskNotFoundError) Error() string {
	return fmt.Sprintf("target disk not available: no removable volume labeled %q is mounted", e.Label)
}

// CopyError indicates an I/O failure while reading the firmware file or
// writing it to the target volume.
type CopyError struct {
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("firmware copy failed at %s: %v", e.Path, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }
