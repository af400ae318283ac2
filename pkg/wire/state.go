package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncated is returned when a value is shorter than its layout
// requires.
var ErrTruncated = errors.New("truncated value")

// Fixed characteristic value sizes in bytes.
const (
	VolumeStateSize       = 3
	VolumeFlagsSize       = 1
	VolumeOffsetStateSize = 3
	AudioLocationSize     = 4
)

// Volume offset range accepted by the Volume Offset Control Point.
const (
	VolumeOffsetMin = -255
	VolumeOffsetMax = 255
)

// VolumeState is the Volume State characteristic value.
type VolumeState struct {
	Setting uint8
	Mute    bool
	Counter uint8
}

// Marshal encodes the state into its 3-byte layout.
func (s VolumeState) Marshal() []byte {
	var mute byte
	if s.Mute {
		mute = 1
	}
	return []byte{s.Setting, mute, s.Counter}
}

// ParseVolumeState decodes a Volume State value.
func ParseVolumeState(data []byte) (VolumeState, error) {
	if len(data) < VolumeStateSize {
		return VolumeState{}, fmt.Errorf("volume state: need %d bytes, have %d: %w",
			VolumeStateSize, len(data), ErrTruncated)
	}
	return VolumeState{
		Setting: data[0],
		Mute:    data[1] != 0,
		Counter: data[2],
	}, nil
}

// VolumeFlags is the Volume Flags characteristic value.
type VolumeFlags uint8

const (
	// VolumeFlagsReset indicates the volume setting has not been
	// changed since manufacture or factory reset.
	VolumeFlagsReset VolumeFlags = 0x00

	// VolumeFlagsUserSet indicates the volume setting has been changed.
	VolumeFlagsUserSet VolumeFlags = 0x01
)

// String returns the flags name.
func (f VolumeFlags) String() string {
	switch f {
	case VolumeFlagsReset:
		return "RESET"
	case VolumeFlagsUserSet:
		return "USER_SET"
	default:
		return "UNKNOWN"
	}
}

// Marshal encodes the flags into their 1-byte layout.
func (f VolumeFlags) Marshal() []byte {
	return []byte{byte(f)}
}

// ParseVolumeFlags decodes a Volume Flags value.
func ParseVolumeFlags(data []byte) (VolumeFlags, error) {
	if len(data) < VolumeFlagsSize {
		return 0, fmt.Errorf("volume flags: need %d byte, have %d: %w",
			VolumeFlagsSize, len(data), ErrTruncated)
	}
	return VolumeFlags(data[0]), nil
}

// VolumeOffsetState is the Volume Offset State characteristic value.
type VolumeOffsetState struct {
	Offset  int16
	Counter uint8
}

// Marshal encodes the state into its 3-byte layout.
func (s VolumeOffsetState) Marshal() []byte {
	out := make([]byte, VolumeOffsetStateSize)
	binary.LittleEndian.PutUint16(out, uint16(s.Offset))
	out[2] = s.Counter
	return out
}

// ParseVolumeOffsetState decodes a Volume Offset State value.
func ParseVolumeOffsetState(data []byte) (VolumeOffsetState, error) {
	if len(data) < VolumeOffsetStateSize {
		return VolumeOffsetState{}, fmt.Errorf("volume offset state: need %d bytes, have %d: %w",
			VolumeOffsetStateSize, len(data), ErrTruncated)
	}
	return VolumeOffsetState{
		Offset:  int16(binary.LittleEndian.Uint16(data)),
		Counter: data[2],
	}, nil
}

// EncodeVolumeControl builds a Volume Control Point PDU for an opcode
// whose only operand is the change counter.
func EncodeVolumeControl(op VolumeOpcode, counter uint8) []byte {
	return []byte{byte(op), counter}
}

// EncodeSetAbsoluteVolume builds a Set Absolute Volume PDU.
func EncodeSetAbsoluteVolume(counter, setting uint8) []byte {
	return []byte{byte(SetAbsoluteVolume), counter, setting}
}

// EncodeSetVolumeOffset builds a Set Volume Offset PDU.
func EncodeSetVolumeOffset(counter uint8, offset int16) []byte {
	out := make([]byte, 4)
	out[0] = byte(SetVolumeOffset)
	out[1] = counter
	binary.LittleEndian.PutUint16(out[2:], uint16(offset))
	return out
}
