package dfu

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/loftmidi/go-fwupdate/progress"
)

// Session drives the DFU install state machine against one claimed device.
// A Session performs blocking I/O; run it off any latency-sensitive
// goroutine.
type Session struct {
	device Device
	config Config
}

// New creates a Session for the given device.
//
// Example:
//
//	dev, _ := dfu.Open(dfu.VendorID, dfu.ProductID, dfu.InterfaceNumber, dfu.AltSetting)
//	session := dfu.New(dev,
//	    dfu.WithProgress(progressFunc),
//	    dfu.WithAddress(0x08000000),
//	)
func New(device Device, opts ...Option) *Session {
	if device == nil {
		panic("device cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		device: device,
		config: cfg,
	}
}

// InstallFile runs the complete install sequence for the firmware image at
// path:
//  1. Open the file and determine its length
//  2. Erase the flash pages the image will occupy
//  3. Set the address pointer to the configured flash base
//  4. Download the image block by block with progress reporting
//  5. Manifest, detach and bus-reset the device
//
// The sequence is one atomic attempt; there is no partial retry. A
// *TeardownError return means the image itself was fully transferred.
func (s *Session) InstallFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	if !fitsTransfer(info.Size()) {
		return &SizeError{Size: info.Size()}
	}

	return s.Install(ctx, file, uint32(info.Size()))
}

// Install streams size bytes from image into the device's flash. Most
// callers want InstallFile; Install exists for images that are not files.
func (s *Session) Install(ctx context.Context, image io.Reader, size uint32) error {
	start := time.Now()
	s.logInfo("starting dfu install",
		"bytes", size,
		"address", fmt.Sprintf("0x%08X", s.config.Address),
	)

	s.reportProgress(0, size)

	if err := s.clearStaleError(); err != nil {
		return err
	}
	if err := s.erase(ctx, size); err != nil {
		return err
	}
	if err := s.command(ctx, "set address", SetAddressCommand(s.config.Address)); err != nil {
		return err
	}
	if err := s.download(ctx, image, size); err != nil {
		return err
	}
	if err := s.manifest(); err != nil {
		return err
	}

	// The image is committed at this point. Teardown failures are reported,
	// never swallowed, and the transfer is not re-run.
	if err := s.Detach(); err != nil {
		return &TeardownError{Stage: "detach", Err: err}
	}
	if err := s.device.Reset(); err != nil {
		return &TeardownError{Stage: "bus reset", Err: err}
	}

	s.logInfo("dfu install complete",
		"bytes", size,
		"elapsed", time.Since(start).String(),
	)
	return nil
}

// Detach asks the device to leave DFU mode. The wValue carries the detach
// timeout in milliseconds.
func (s *Session) Detach() error {
	if _, err := s.device.Control(requestTypeOut, RequestDetach, detachTimeoutMS, s.config.Interface, nil); err != nil {
		return &TransferError{Op: "detach", Err: err}
	}
	return nil
}

// clearStaleError moves the device out of dfuERROR, where a previous
// aborted session may have left it.
func (s *Session) clearStaleError() error {
	st, err := s.getStatus()
	if err != nil {
		return &TransferError{Op: "initial status read", Err: err}
	}
	if st.State != StateDfuError {
		return nil
	}

	s.logDebug("clearing stale dfu error state", "status", st.Code)
	if _, err := s.device.Control(requestTypeOut, RequestClrStatus, 0, s.config.Interface, nil); err != nil {
		return &TransferError{Op: "clear status", Err: err}
	}
	return nil
}

// erase erases every flash page the image will occupy, one page at a time.
func (s *Session) erase(ctx context.Context, size uint32) error {
	pageSize := uint32(s.config.PageSize)
	pages := pageCount(size, pageSize)

	s.logDebug("erasing flash", "pages", pages, "page_size", pageSize)

	for i := uint64(0); i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		addr := s.config.Address + uint32(i)*pageSize
		if err := s.command(ctx, "erase page", ErasePageCommand(addr)); err != nil {
			return err
		}
	}
	return nil
}

// pageCount is the number of pages a size-byte image spans. Computed in
// uint64: size+pageSize-1 wraps in uint32 for sizes near the 4 GiB
// transfer limit.
func pageCount(size, pageSize uint32) uint64 {
	return (uint64(size) + uint64(pageSize) - 1) / uint64(pageSize)
}

// download transfers the image in TransferSize blocks. DfuSe data blocks
// are numbered from 2; block 0 is reserved for commands.
func (s *Session) download(ctx context.Context, image io.Reader, size uint32) error {
	buf := make([]byte, s.config.TransferSize)
	var sent uint32
	block := uint16(2)

	for sent < size {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		chunk := buf
		if remaining := size - sent; remaining < uint32(len(buf)) {
			chunk = buf[:remaining]
		}
		if _, err := io.ReadFull(image, chunk); err != nil {
			return fmt.Errorf("read firmware image: %w", err)
		}

		if _, err := s.device.Control(requestTypeOut, RequestDnload, block, s.config.Interface, chunk); err != nil {
			return &TransferError{Op: "download block", Err: err}
		}
		if err := s.waitReady(ctx, "download block"); err != nil {
			return err
		}

		sent += uint32(len(chunk))
		block++
		s.reportProgress(sent, size)
	}
	return nil
}

// manifest sends the zero-length download that ends the transfer. STM32
// parts may drop off the bus right after, so a failed status read here is
// logged rather than fatal.
func (s *Session) manifest() error {
	if _, err := s.device.Control(requestTypeOut, RequestDnload, 0, s.config.Interface, nil); err != nil {
		return &TransferError{Op: "manifest", Err: err}
	}
	if _, err := s.getStatus(); err != nil {
		s.logDebug("status read after manifest failed", "err", err.Error())
	}
	return nil
}

// command sends a DfuSe command in a block-zero DNLOAD and waits for the
// device to act on it.
func (s *Session) command(ctx context.Context, op string, cmd []byte) error {
	if _, err := s.device.Control(requestTypeOut, RequestDnload, 0, s.config.Interface, cmd); err != nil {
		return &TransferError{Op: op, Err: err}
	}
	return s.waitReady(ctx, op)
}

// waitReady polls GETSTATUS until the device leaves the busy state, waiting
// the poll interval the device asks for between reads.
func (s *Session) waitReady(ctx context.Context, op string) error {
	for {
		st, err := s.getStatus()
		if err != nil {
			return &TransferError{Op: op, Err: err}
		}
		if st.Code != StatusOK {
			return &StatusError{Op: op, Code: st.Code, State: st.State}
		}
		if st.State != StateDfuDownloadBusy {
			return nil
		}

		wait := st.PollTimeout
		if wait <= 0 {
			wait = time.Millisecond
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return fmt.Errorf("cancelled: %w", ctx.Err())
		}
	}
}

func (s *Session) getStatus() (Status, error) {
	buf := make([]byte, statusLength)
	n, err := s.device.Control(requestTypeIn, RequestGetStatus, 0, s.config.Interface, buf)
	if err != nil {
		return Status{}, err
	}
	return ParseStatus(buf[:n])
}

// fitsTransfer reports whether a file of the given length is addressable by
// one DFU transfer (block counts and lengths are 32-bit on the wire).
func fitsTransfer(size int64) bool {
	return size <= math.MaxUint32
}

func (s *Session) reportProgress(sent, total uint32) {
	if s.config.Progress != nil {
		s.config.Progress(progress.Progress{Bytes: int64(sent), Total: int64(total)})
	}
}

func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}
