package wire

// VolumeOpcode identifies a Volume Control Point operation.
type VolumeOpcode uint8

const (
	// RelativeVolumeDown lowers the volume setting by one step.
	RelativeVolumeDown VolumeOpcode = 0x00

	// RelativeVolumeUp raises the volume setting by one step.
	RelativeVolumeUp VolumeOpcode = 0x01

	// UnmuteRelativeVolumeDown clears mute and lowers the volume
	// setting by one step.
	UnmuteRelativeVolumeDown VolumeOpcode = 0x02

	// UnmuteRelativeVolumeUp clears mute and raises the volume setting
	// by one step.
	UnmuteRelativeVolumeUp VolumeOpcode = 0x03

	// SetAbsoluteVolume sets the volume setting to the operand value.
	SetAbsoluteVolume VolumeOpcode = 0x04

	// Unmute clears mute.
	Unmute VolumeOpcode = 0x05

	// Mute sets mute.
	Mute VolumeOpcode = 0x06
)

// String returns the opcode name.
func (op VolumeOpcode) String() string {
	switch op {
	case RelativeVolumeDown:
		return "RELATIVE_VOLUME_DOWN"
	case RelativeVolumeUp:
		return "RELATIVE_VOLUME_UP"
	case UnmuteRelativeVolumeDown:
		return "UNMUTE_RELATIVE_VOLUME_DOWN"
	case UnmuteRelativeVolumeUp:
		return "UNMUTE_RELATIVE_VOLUME_UP"
	case SetAbsoluteVolume:
		return "SET_ABSOLUTE_VOLUME"
	case Unmute:
		return "UNMUTE"
	case Mute:
		return "MUTE"
	default:
		return "UNKNOWN"
	}
}

// Known returns true if the opcode is defined.
func (op VolumeOpcode) Known() bool {
	return op <= Mute
}

// OperandSize returns the number of operand bytes required after the
// opcode byte. Every operand starts with the change counter.
func (op VolumeOpcode) OperandSize() int {
	if op == SetAbsoluteVolume {
		return 2
	}
	return 1
}

// OffsetOpcode identifies a Volume Offset Control Point operation.
type OffsetOpcode uint8

const (
	// SetVolumeOffset sets the volume offset to the operand value.
	SetVolumeOffset OffsetOpcode = 0x01
)

// String returns the opcode name.
func (op OffsetOpcode) String() string {
	switch op {
	case SetVolumeOffset:
		return "SET_VOLUME_OFFSET"
	default:
		return "UNKNOWN"
	}
}

// Known returns true if the opcode is defined.
func (op OffsetOpcode) Known() bool {
	return op == SetVolumeOffset
}

// OperandSize returns the number of operand bytes required after the
// opcode byte.
func (op OffsetOpcode) OperandSize() int {
	return 3
}
