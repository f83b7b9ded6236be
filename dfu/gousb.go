package dfu

import "github.com/google/gousb"

// Open enumerates attached USB devices, opens the one matching the given
// vendor/product IDs and claims its DFU control interface.
//
// Returns *NotFoundError when no matching device is attached and
// *TransferError when the device cannot be opened or its interface cannot
// be claimed. Open does not wait for the device to re-enumerate; polling
// until it shows up is the caller's responsibility.
func Open(vid, pid uint16, intfNum, alt int) (Device, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, &TransferError{Op: "open device", Err: err}
	}
	if dev == nil {
		ctx.Close()
		return nil, &NotFoundError{VendorID: vid, ProductID: pid}
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, &TransferError{Op: "select configuration", Err: err}
	}

	intf, err := cfg.Interface(intfNum, alt)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, &TransferError{Op: "claim interface", Err: err}
	}

	return &usbDevice{ctx: ctx, dev: dev, cfg: cfg, intf: intf}, nil
}

type usbDevice struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
}

func (d *usbDevice) Control(requestType, request uint8, value, index uint16, data []byte) (int, error) {
	return d.dev.Control(requestType, request, value, index, data)
}

func (d *usbDevice) Reset() error {
	return d.dev.Reset()
}

func (d *usbDevice) Close() error {
	d.intf.Close()
	err := d.cfg.Close()
	if cerr := d.dev.Close(); err == nil {
		err = cerr
	}
	if cerr := d.ctx.Close(); err == nil {
		err = cerr
	}
	return err
}
