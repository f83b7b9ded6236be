package device

import "fmt"

// UnsupportedError indicates that a device type has no firmware release
// channel. Bootloader modes and unrecognized hardware report this before any
// network call is made.
type UnsupportedError struct {
	Type Type
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("no firmware releases exist for device class %q", e.Type)
}

// IsUnsupported returns true if the error is an UnsupportedError.
func IsUnsupported(err error) bool {
	_, ok := err.(*UnsupportedError)
	return ok
}
