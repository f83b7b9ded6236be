package dfu

// USB identity of a Bridge held in the STM32 system bootloader.
const (
	// VendorID is the ST Microelectronics vendor ID
	VendorID = 0x0483

	// ProductID is the STM32 DFU bootloader product ID
	ProductID = 0xDF11

	// InterfaceNumber is the DFU control interface
	InterfaceNumber = 0

	// AltSetting selects the internal-flash alternate setting
	AltSetting = 0
)

// DFU 1.1 class requests, sent to the DFU interface.
const (
	// RequestDetach asks the device to leave DFU mode
	RequestDetach uint8 = 0

	// RequestDnload carries firmware blocks (and DfuSe commands at block 0)
	RequestDnload uint8 = 1

	// RequestUpload reads flash back from the device
	RequestUpload uint8 = 2

	// RequestGetStatus reads the 6-byte status/state reply
	RequestGetStatus uint8 = 3

	// RequestClrStatus clears a dfuERROR condition
	RequestClrStatus uint8 = 4

	// RequestGetState reads the bare state byte
	RequestGetState uint8 = 5

	// RequestAbort returns the device to dfuIDLE
	RequestAbort uint8 = 6
)

// bmRequestType values for class requests addressed to an interface.
const (
	requestTypeOut uint8 = 0x21 // host-to-device | class | interface
	requestTypeIn  uint8 = 0xA1 // device-to-host | class | interface
)

// DfuSe commands carried in a block-zero DNLOAD, per ST AN3156.
const (
	// CmdSetAddress aims the address pointer (command + 32-bit address)
	CmdSetAddress byte = 0x21

	// CmdErasePage erases the page containing the given address
	CmdErasePage byte = 0x41
)

// DFU device states per DFU 1.1 section 6.1.2.
const (
	StateAppIdle            byte = 0
	StateAppDetach          byte = 1
	StateDfuIdle            byte = 2
	StateDfuDownloadSync    byte = 3
	StateDfuDownloadBusy    byte = 4
	StateDfuDownloadIdle    byte = 5
	StateDfuManifestSync    byte = 6
	StateDfuManifest        byte = 7
	StateDfuManifestWait    byte = 8
	StateDfuUploadIdle      byte = 9
	StateDfuError           byte = 10
)

// DFU status codes per DFU 1.1 section 6.1.2.
const (
	StatusOK             byte = 0x00
	StatusErrTarget      byte = 0x01
	StatusErrFile        byte = 0x02
	StatusErrWrite       byte = 0x03
	StatusErrErase       byte = 0x04
	StatusErrCheckErased byte = 0x05
	StatusErrProg        byte = 0x06
	StatusErrVerify      byte = 0x07
	StatusErrAddress     byte = 0x08
	StatusErrNotDone     byte = 0x09
	StatusErrFirmware    byte = 0x0A
	StatusErrVendor      byte = 0x0B
	StatusErrUSBReset    byte = 0x0C
	StatusErrPOR         byte = 0x0D
	StatusErrUnknown     byte = 0x0E
	StatusErrStalledPkt  byte = 0x0F
)

// DefaultAddress is the internal-flash base the bootloader programs from.
const DefaultAddress uint32 = 0x08000000

// DefaultTransferSize is the block size for DNLOAD transfers. The wire
// maximum per DfuSe is MaxTransferSize.
const (
	DefaultTransferSize = 1024
	MaxTransferSize     = 2048
)

// DefaultPageSize is the flash erase granularity assumed when the caller
// does not override it.
const DefaultPageSize = 2048

// statusLength is the size of a GETSTATUS reply:
// bStatus(1) + bwPollTimeout(3) + bState(1) + iString(1).
const statusLength = 6

// detachTimeoutMS is the wValue sent with DFU_DETACH.
const detachTimeoutMS = 1000
