package dfu

import (
	"encoding/binary"
	"fmt"
	"time"
)

// SetAddressCommand builds the DfuSe block-zero payload that aims the
// address pointer.
//
// Payload structure:
//
//	[0x21][ADDR_0][ADDR_1][ADDR_2][ADDR_3]  (address little-endian)
func SetAddressCommand(addr uint32) []byte {
	cmd := make([]byte, 5)
	cmd[0] = CmdSetAddress
	binary.LittleEndian.PutUint32(cmd[1:], addr)
	return cmd
}

// ErasePageCommand builds the DfuSe block-zero payload that erases the
// flash page containing addr.
//
// Payload structure:
//
//	[0x41][ADDR_0][ADDR_1][ADDR_2][ADDR_3]  (address little-endian)
func ErasePageCommand(addr uint32) []byte {
	cmd := make([]byte, 5)
	cmd[0] = CmdErasePage
	binary.LittleEndian.PutUint32(cmd[1:], addr)
	return cmd
}

// Status is a parsed DFU_GETSTATUS reply.
type Status struct {
	// Code is the status code (StatusOK or one of the StatusErr values)
	Code byte

	// PollTimeout is how long the host must wait before the next
	// GETSTATUS while the device is busy
	PollTimeout time.Duration

	// State is the device state after this reply
	State byte
}

// ParseStatus validates and decodes a GETSTATUS reply.
//
// Reply structure:
//
//	[STATUS][TIMEOUT_0][TIMEOUT_1][TIMEOUT_2][STATE][ISTRING]
//	(timeout in milliseconds, little-endian, 24-bit)
func ParseStatus(buf []byte) (Status, error) {
	if len(buf) < statusLength {
		return Status{}, fmt.Errorf("status reply too short: got %d bytes, minimum is %d", len(buf), statusLength)
	}

	ms := uint32(buf[1]) | uint32(buf[2])<<8 | uint32(buf[3])<<16
	return Status{
		Code:        buf[0],
		PollTimeout: time.Duration(ms) * time.Millisecond,
		State:       buf[4],
	}, nil
}
