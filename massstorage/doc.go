// Package massstorage installs firmware onto devices whose bootloader
// presents a removable USB volume, such as the RP2040's RPI-RP2 disk.
//
// The installer waits a fixed settle interval for the operating system to
// finish mounting the volume, locates it by the removable flag and a
// case-insensitive label match, then copies the firmware file to the
// volume root with incremental progress reporting. One attempt, no retry:
// if the disk is absent after the settle wait the install fails with
// *DiskNotFoundError and zero bytes written.
//
// Disk discovery goes through the Lister interface. SystemLister is the
// gopsutil-backed implementation used by default; tests and embedders may
// supply their own.
package massstorage
