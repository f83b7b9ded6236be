// Package firmware identifies the container format of a firmware image.
//
// Detection is advisory: the install pipeline never gates on it, but the
// CLI uses it to tell the operator what kind of image a release asset
// turned out to be.
package firmware

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Format is a recognized firmware container format.
type Format int

const (
	// FormatRaw is a bare binary image with no recognizable container
	FormatRaw Format = iota

	// FormatUF2 is the UF2 block container used by mass-storage bootloaders
	FormatUF2

	// FormatDfuSe is a raw image carrying the 16-byte DFU suffix
	FormatDfuSe
)

// UF2 block magic words, per the UF2 family specification.
const (
	uf2MagicStart0 = 0x0A324655 // "UF2\n"
	uf2MagicStart1 = 0x9E5D5157
)

// dfuSuffixLength is the size of the DFU file suffix; its signature bytes
// spell "UFD" in reverse order.
const dfuSuffixLength = 16

func (f Format) String() string {
	switch f {
	case FormatUF2:
		return "uf2"
	case FormatDfuSe:
		return "dfu"
	case FormatRaw:
		return "raw binary"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Detect sniffs the firmware image at path. Unrecognized content is
// reported as FormatRaw, not as an error; errors are reserved for files
// that cannot be read.
func Detect(path string) (Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormatRaw, fmt.Errorf("cannot read firmware image %s: %w", path, err)
	}
	return Sniff(data), nil
}

// Sniff identifies the container format of an in-memory image.
func Sniff(data []byte) Format {
	if len(data) >= 8 &&
		binary.LittleEndian.Uint32(data[0:4]) == uf2MagicStart0 &&
		binary.LittleEndian.Uint32(data[4:8]) == uf2MagicStart1 {
		return FormatUF2
	}

	// The suffix ends with bLength(1) + dwCRC(4), so the 3 signature bytes
	// sit 8 bytes from the end of the file.
	if len(data) >= dfuSuffixLength {
		sig := data[len(data)-8 : len(data)-5]
		if sig[0] == 'U' && sig[1] == 'F' && sig[2] == 'D' {
			return FormatDfuSe
		}
	}

	return FormatRaw
}
