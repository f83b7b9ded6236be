// Package dfu streams firmware onto a device in USB DFU mode, using the
// ST DfuSe extensions (AN3156) that the Bridge bootloader speaks.
//
// # Overview
//
// A Session drives the full install state machine against a claimed DFU
// interface:
//   - clear any stale error state
//   - erase the flash pages the image will occupy
//   - set the address pointer to the flash base
//   - download the image in transfer-size blocks, polling GETSTATUS and
//     reporting progress after every block
//   - manifest, detach and bus-reset the device
//
// The whole sequence is one atomic attempt: there is no partial retry, and
// cancellation is only honored between blocks.
//
// # Basic Usage
//
//	dev, err := dfu.Open(dfu.VendorID, dfu.ProductID, dfu.InterfaceNumber, dfu.AltSetting)
//	if err != nil {
//	    // *dfu.NotFoundError when the device has not re-enumerated yet
//	}
//	defer dev.Close()
//
//	session := dfu.New(dev, dfu.WithProgress(func(p progress.Progress) {
//	    fmt.Printf("%d/%d bytes\r", p.Bytes, p.Total)
//	}))
//	err = session.InstallFile(ctx, "firmware.bin")
//
// # Hardware Independence
//
// Session does not talk to libusb directly; it drives the small Device
// interface (control transfer, bus reset, close). Open returns a gousb-backed
// implementation for real hardware, and tests use scripted fakes.
//
// # Error Handling
//
// Failures carry their kind:
//   - *NotFoundError: no attached device matches the DFU vendor/product IDs
//   - *FileError: the local firmware file cannot be read
//   - *SizeError: the image exceeds the protocol's addressable size
//   - *TransferError: a control transfer failed at the USB layer (bad
//     cable/port territory)
//   - *StatusError: the device reported a DFU error status (bad image
//     territory)
//   - *TeardownError: the image was fully transferred but detach or reset
//     failed afterwards; the device likely holds the new firmware
package dfu
