package dfu

// Device is the minimal USB surface a Session drives. Open returns a
// gousb-backed implementation for real hardware; tests and embedders may
// supply their own.
type Device interface {
	// Control performs a control transfer and returns the number of bytes
	// exchanged in the data stage.
	Control(requestType, request uint8, value, index uint16, data []byte) (int, error)

	// Reset performs a USB bus reset on the device.
	Reset() error

	// Close releases the claimed interface and the device handle.
	Close() error
}
