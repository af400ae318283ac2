package vcp

import (
	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// The command methods write the peer's control points in client role.
// Each encodes the change counter from the session's mirror, so the
// mirror must be primed first; until the initial read lands they return
// ErrStateUnknown. result, when non-nil, is called with the peer's
// control-point result once the write completes. A nil result drops
// the outcome.

// RelativeVolumeDown lowers the peer's volume setting by one step.
func (s *Session) RelativeVolumeDown(result func(gatt.AttError)) error {
	return s.volumeControl(wire.RelativeVolumeDown, result)
}

// RelativeVolumeUp raises the peer's volume setting by one step.
func (s *Session) RelativeVolumeUp(result func(gatt.AttError)) error {
	return s.volumeControl(wire.RelativeVolumeUp, result)
}

// UnmuteRelativeVolumeDown clears the peer's mute and lowers its volume
// setting by one step.
func (s *Session) UnmuteRelativeVolumeDown(result func(gatt.AttError)) error {
	return s.volumeControl(wire.UnmuteRelativeVolumeDown, result)
}

// UnmuteRelativeVolumeUp clears the peer's mute and raises its volume
// setting by one step.
func (s *Session) UnmuteRelativeVolumeUp(result func(gatt.AttError)) error {
	return s.volumeControl(wire.UnmuteRelativeVolumeUp, result)
}

// Unmute clears the peer's mute.
func (s *Session) Unmute(result func(gatt.AttError)) error {
	return s.volumeControl(wire.Unmute, result)
}

// Mute sets the peer's mute.
func (s *Session) Mute(result func(gatt.AttError)) error {
	return s.volumeControl(wire.Mute, result)
}

// SetAbsoluteVolume sets the peer's volume setting. The full 0..255
// range is sent as given.
func (s *Session) SetAbsoluteVolume(setting uint8, result func(gatt.AttError)) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if s.client == nil {
		return ErrNotAttached
	}
	if s.remote.volumeCP == 0 {
		return ErrNotDiscovered
	}
	if !s.volumeValid {
		return ErrStateUnknown
	}

	pdu := wire.EncodeSetAbsoluteVolume(s.volumeState.Counter, setting)
	if s.submitWriteLocked(s.remote.volumeCP, wire.VolumeControlServiceUUID, pdu, result) == 0 {
		return ErrSessionDetached
	}
	return nil
}

// SetVolumeOffset sets the peer's volume offset. The value is not
// range-checked locally; a peer that rejects it reports the error
// through result.
func (s *Session) SetVolumeOffset(offset int16, result func(gatt.AttError)) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if s.client == nil {
		return ErrNotAttached
	}
	if s.remote.offsetCP == 0 {
		return ErrNotDiscovered
	}
	if !s.offsetValid {
		return ErrStateUnknown
	}

	pdu := wire.EncodeSetVolumeOffset(s.offsetState.Counter, offset)
	if s.submitWriteLocked(s.remote.offsetCP, wire.VolumeOffsetControlServiceUUID, pdu, result) == 0 {
		return ErrSessionDetached
	}
	return nil
}

// WriteVolumeControlPoint writes a raw Volume Control Point value. The
// value is sent exactly as given, with no counter inserted, so malformed
// operations can be exercised against a peer.
func (s *Session) WriteVolumeControlPoint(value []byte, result func(gatt.AttError)) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if s.client == nil {
		return ErrNotAttached
	}
	if s.remote.volumeCP == 0 {
		return ErrNotDiscovered
	}
	if s.submitWriteLocked(s.remote.volumeCP, wire.VolumeControlServiceUUID, value, result) == 0 {
		return ErrSessionDetached
	}
	return nil
}

// WriteOffsetControlPoint writes a raw Volume Offset Control Point
// value, exactly as given.
func (s *Session) WriteOffsetControlPoint(value []byte, result func(gatt.AttError)) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if s.client == nil {
		return ErrNotAttached
	}
	if s.remote.offsetCP == 0 {
		return ErrNotDiscovered
	}
	if s.submitWriteLocked(s.remote.offsetCP, wire.VolumeOffsetControlServiceUUID, value, result) == 0 {
		return ErrSessionDetached
	}
	return nil
}

func (s *Session) volumeControl(op wire.VolumeOpcode, result func(gatt.AttError)) error {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if s.client == nil {
		return ErrNotAttached
	}
	if s.remote.volumeCP == 0 {
		return ErrNotDiscovered
	}
	if !s.volumeValid {
		return ErrStateUnknown
	}

	pdu := wire.EncodeVolumeControl(op, s.volumeState.Counter)
	if s.submitWriteLocked(s.remote.volumeCP, wire.VolumeControlServiceUUID, pdu, result) == 0 {
		return ErrSessionDetached
	}
	return nil
}
