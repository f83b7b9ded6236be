// Package device models the connected hardware this library can update.
//
// A connected unit is identified by a Type, a closed enumeration of the
// supported hardware families plus the two bootloader-only modes a unit can
// re-enumerate into. Every application-mode Type maps to exactly one firmware
// repository and exactly one install strategy; the bootloader and unknown
// types have neither and are rejected with UnsupportedError before any
// network or hardware access happens.
package device
