package dfu

import "fmt"

// NotFoundError indicates that no attached USB device matches the expected
// DFU vendor/product IDs. The device may simply not have re-enumerated into
// bootloader mode yet; waiting and re-opening is the caller's decision.
type NotFoundError struct {
	VendorID  uint16
	ProductID uint16
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no DFU device with ID %04x:%04x attached (is the device in bootloader mode?)",
		e.VendorID, e.ProductID)
}

// FileError indicates the local firmware file could not be opened or read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("cannot read firmware file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// SizeError indicates the firmware image exceeds the protocol's addressable
// transfer size.
type SizeError struct {
	Size int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("firmware image is too large for a DFU transfer: %d bytes", e.Size)
}

// TransferError indicates a control transfer failed at the USB layer:
// open, claim, block write or status read. Usually a cable, port or
// permissions problem rather than a bad image.
type TransferError struct {
	Op  string
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("usb transfer failed during %s: %v", e.Op, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// StatusError indicates the device reported a DFU error status. The USB
// link worked; the device rejected the operation.
type StatusError struct {
	Op    string
	Code  byte
	State byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %s (status 0x%02X, state 0x%02X)",
		e.Op, statusName(e.Code), e.Code, e.State)
}

// TeardownError indicates detach or bus reset failed after the firmware
// image was fully transferred. The device most likely holds the new image;
// operators should verify manually rather than reflash blindly.
type TeardownError struct {
	Stage string
	Err   error
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("firmware transferred, but %s failed: %v (device likely updated; confirm manually)",
		e.Stage, e.Err)
}

func (e *TeardownError) Unwrap() error { return e.Err }

// IsTeardown returns true if the error is a TeardownError.
func IsTeardown(err error) bool {
	_, ok := err.(*TeardownError)
	return ok
}

// statusName returns a human-readable name for a DFU status code.
func statusName(code byte) string {
	switch code {
	case StatusOK:
		return "ok"
	case StatusErrTarget:
		return "file is not targeted for this device"
	case StatusErrFile:
		return "file fails vendor verification"
	case StatusErrWrite:
		return "device is unable to write memory"
	case StatusErrErase:
		return "memory erase failed"
	case StatusErrCheckErased:
		return "memory erase check failed"
	case StatusErrProg:
		return "program memory write failed"
	case StatusErrVerify:
		return "programmed memory failed verification"
	case StatusErrAddress:
		return "address out of range"
	case StatusErrNotDone:
		return "received unexpected end of download"
	case StatusErrFirmware:
		return "firmware is corrupt"
	case StatusErrVendor:
		return "vendor-specific error"
	case StatusErrUSBReset:
		return "unexpected usb reset"
	case StatusErrPOR:
		return "unexpected power-on reset"
	case StatusErrUnknown:
		return "unknown error"
	case StatusErrStalledPkt:
		return "device stalled an unexpected request"
	default:
		return fmt.Sprintf("unknown status code 0x%02X", code)
	}
}
