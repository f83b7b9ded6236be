package device

import (
	"fmt"
	"strings"
)

// Type identifies a supported hardware family, including the bootloader-only
// modes a unit presents while waiting for firmware.
type Type int

const (
	// TypeUnknown is any attached unit this library does not recognize.
	TypeUnknown Type = iota

	// TypeBridge6 is the six-switch Bridge controller (STM32, DFU install).
	TypeBridge6

	// TypeBridge4 is the four-switch Bridge controller (STM32, DFU install).
	TypeBridge4

	// TypeClick is the Click relay interface (RP2040, UF2 install).
	TypeClick

	// TypeULoop is the uLoop looper (RP2040, UF2 install).
	TypeULoop

	// TypeBridgeBootloader is a Bridge held in the STM32 system bootloader.
	// No release channel exists for this mode; it is the DFU target itself.
	TypeBridgeBootloader

	// TypeRP2040Bootloader is a Click or uLoop exposing its RPI-RP2
	// mass-storage volume. No release channel exists for this mode.
	TypeRP2040Bootloader
)

// Strategy selects how a firmware image reaches the hardware.
type Strategy int

const (
	// StrategyDFU streams the image over the USB DFU protocol.
	StrategyDFU Strategy = iota + 1

	// StrategyMassStorage copies the image onto the bootloader volume.
	StrategyMassStorage
)

// Device is the identity of the currently attached hardware, captured by the
// caller at enumeration time. It is read-only to this library.
type Device struct {
	Type      Type
	Serial    string
	VendorID  uint16
	ProductID uint16
}

func (t Type) String() string {
	switch t {
	case TypeBridge6:
		return "Bridge6"
	case TypeBridge4:
		return "Bridge4"
	case TypeClick:
		return "Click"
	case TypeULoop:
		return "uLoop"
	case TypeBridgeBootloader:
		return "Bridge bootloader"
	case TypeRP2040Bootloader:
		return "RP2040 bootloader"
	case TypeUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyDFU:
		return "dfu"
	case StrategyMassStorage:
		return "mass-storage"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Repository returns the firmware repository for the family, or
// UnsupportedError for the bootloader and unknown types, which have no
// release channel.
func (t Type) Repository() (string, error) {
	switch t {
	case TypeBridge6, TypeBridge4:
		return "bridge-firmware", nil
	case TypeClick:
		return "click-firmware", nil
	case TypeULoop:
		return "uloop-firmware", nil
	case TypeBridgeBootloader, TypeRP2040Bootloader, TypeUnknown:
		return "", &UnsupportedError{Type: t}
	default:
		return "", &UnsupportedError{Type: t}
	}
}

// InstallStrategy returns the install strategy for the family, or
// UnsupportedError for the bootloader and unknown types. The mapping is
// total: every type that has a repository also has exactly one strategy.
func (t Type) InstallStrategy() (Strategy, error) {
	switch t {
	case TypeBridge6, TypeBridge4:
		return StrategyDFU, nil
	case TypeClick, TypeULoop:
		return StrategyMassStorage, nil
	case TypeBridgeBootloader, TypeRP2040Bootloader, TypeUnknown:
		return 0, &UnsupportedError{Type: t}
	default:
		return 0, &UnsupportedError{Type: t}
	}
}

// AssetTag returns the lower-case token that release asset names carry for
// this family, and whether the family has one. The compatibility predicate in
// package catalog matches on this tag.
func (t Type) AssetTag() (string, bool) {
	switch t {
	case TypeBridge6:
		return "bridge6", true
	case TypeBridge4:
		return "bridge4", true
	case TypeClick:
		return "click", true
	case TypeULoop:
		return "uloop", true
	default:
		return "", false
	}
}

// Types lists every Type variant. Mapping tests range over this slice so a
// newly added variant without a repository or strategy entry fails loudly.
func Types() []Type {
	return []Type{
		TypeUnknown,
		TypeBridge6,
		TypeBridge4,
		TypeClick,
		TypeULoop,
		TypeBridgeBootloader,
		TypeRP2040Bootloader,
	}
}

// ParseType resolves a user-supplied family name ("bridge6", "uloop", ...)
// to a Type. Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bridge6":
		return TypeBridge6, nil
	case "bridge4":
		return TypeBridge4, nil
	case "click":
		return TypeClick, nil
	case "uloop":
		return TypeULoop, nil
	default:
		return TypeUnknown, fmt.Errorf("unknown device family %q (expected bridge6, bridge4, click or uloop)", name)
	}
}
