package dfu

import (
	"bytes"
	"testing"
	"time"
)

func TestSetAddressCommand(t *testing.T) {
	cmd := SetAddressCommand(0x08000000)

	want := []byte{0x21, 0x00, 0x00, 0x00, 0x08}
	if !bytes.Equal(cmd, want) {
		t.Errorf("SetAddressCommand = % X, want % X", cmd, want)
	}
}

func TestErasePageCommand(t *testing.T) {
	cmd := ErasePageCommand(0x08004800)

	want := []byte{0x41, 0x00, 0x48, 0x00, 0x08}
	if !bytes.Equal(cmd, want) {
		t.Errorf("ErasePageCommand = % X, want % X", cmd, want)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		want    Status
		wantErr bool
	}{
		{
			name: "idle ok",
			buf:  []byte{0x00, 0x00, 0x00, 0x00, StateDfuIdle, 0x00},
			want: Status{Code: StatusOK, PollTimeout: 0, State: StateDfuIdle},
		},
		{
			name: "busy with poll timeout",
			buf:  []byte{0x00, 0x20, 0x01, 0x00, StateDfuDownloadBusy, 0x00},
			want: Status{Code: StatusOK, PollTimeout: 288 * time.Millisecond, State: StateDfuDownloadBusy},
		},
		{
			name: "error status",
			buf:  []byte{StatusErrWrite, 0x00, 0x00, 0x00, StateDfuError, 0x00},
			want: Status{Code: StatusErrWrite, State: StateDfuError},
		},
		{
			name:    "too short",
			buf:     []byte{0x00, 0x00, 0x00},
			wantErr: true,
		},
		{
			name:    "empty",
			buf:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.buf)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStatusName(t *testing.T) {
	if name := statusName(StatusErrWrite); name != "device is unable to write memory" {
		t.Errorf("statusName(StatusErrWrite) = %q", name)
	}
	if name := statusName(0xEE); name == "" {
		t.Error("unknown codes must still produce a name")
	}
}
