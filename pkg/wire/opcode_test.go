package wire

import "testing"

func TestVolumeOpcodeString(t *testing.T) {
	tests := []struct {
		op   VolumeOpcode
		want string
	}{
		{RelativeVolumeDown, "RELATIVE_VOLUME_DOWN"},
		{RelativeVolumeUp, "RELATIVE_VOLUME_UP"},
		{UnmuteRelativeVolumeDown, "UNMUTE_RELATIVE_VOLUME_DOWN"},
		{UnmuteRelativeVolumeUp, "UNMUTE_RELATIVE_VOLUME_UP"},
		{SetAbsoluteVolume, "SET_ABSOLUTE_VOLUME"},
		{Unmute, "UNMUTE"},
		{Mute, "MUTE"},
		{VolumeOpcode(0x07), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("VolumeOpcode(%#02x).String() = %q, want %q", uint8(tt.op), got, tt.want)
		}
	}
}

func TestVolumeOpcodeOperandSize(t *testing.T) {
	for op := RelativeVolumeDown; op <= Mute; op++ {
		want := 1
		if op == SetAbsoluteVolume {
			want = 2
		}
		if got := op.OperandSize(); got != want {
			t.Errorf("%v.OperandSize() = %d, want %d", op, got, want)
		}
	}
}

func TestVolumeOpcodeKnown(t *testing.T) {
	for op := RelativeVolumeDown; op <= Mute; op++ {
		if !op.Known() {
			t.Errorf("%v.Known() = false, want true", op)
		}
	}
	if VolumeOpcode(0x07).Known() {
		t.Error("VolumeOpcode(0x07).Known() = true, want false")
	}
}

func TestOffsetOpcode(t *testing.T) {
	if got := SetVolumeOffset.String(); got != "SET_VOLUME_OFFSET" {
		t.Errorf("SetVolumeOffset.String() = %q, want SET_VOLUME_OFFSET", got)
	}
	if got := OffsetOpcode(0x00).String(); got != "UNKNOWN" {
		t.Errorf("OffsetOpcode(0x00).String() = %q, want UNKNOWN", got)
	}
	if !SetVolumeOffset.Known() {
		t.Error("SetVolumeOffset.Known() = false, want true")
	}
	if OffsetOpcode(0x02).Known() {
		t.Error("OffsetOpcode(0x02).Known() = true, want false")
	}
	if got := SetVolumeOffset.OperandSize(); got != 3 {
		t.Errorf("SetVolumeOffset.OperandSize() = %d, want 3", got)
	}
}
