package vcp

import (
	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/log"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// vcsServer is the server-role Volume Control Service bound to one
// database: the volume state and flags behind the published attributes,
// and the control-point opcode engine mutating them.
type vcsServer struct {
	binding *Binding

	// Guarded by the registry mutex.
	state wire.VolumeState
	flags wire.VolumeFlags

	service  *gatt.Service
	stateChr *gatt.Characteristic
	cpChr    *gatt.Characteristic
	flagsChr *gatt.Characteristic
}

// newVCSServer publishes the VCS as a primary service including the
// VOCS: volume state, volume control point, volume flags.
func newVCSServer(b *Binding, include *gatt.Service, cfg ServiceConfig) *vcsServer {
	v := &vcsServer{
		binding: b,
		flags:   cfg.VolumeFlags,
	}

	svc := b.db.AddService(wire.VolumeControlServiceUUID, true)
	svc.AddIncluded(include)
	v.stateChr = svc.AddCharacteristic(wire.VolumeStateUUID,
		gatt.PropRead|gatt.PropNotify, v.readState, nil)
	svc.AddCCC()
	v.cpChr = svc.AddCharacteristic(wire.VolumeControlPointUUID,
		gatt.PropWrite, nil, v.writeControlPoint)
	v.flagsChr = svc.AddCharacteristic(wire.VolumeFlagsUUID,
		gatt.PropRead|gatt.PropNotify, v.readFlags, nil)
	svc.AddCCC()
	svc.SetActive(true)
	v.service = svc
	return v
}

func (v *vcsServer) readState(conn gatt.Conn, offset int) ([]byte, gatt.AttError) {
	r := v.binding.reg
	r.mu.Lock()
	value := v.state.Marshal()
	r.mu.Unlock()
	return readSlice(value, offset)
}

func (v *vcsServer) readFlags(conn gatt.Conn, offset int) ([]byte, gatt.AttError) {
	r := v.binding.reg
	r.mu.Lock()
	value := v.flags.Marshal()
	r.mu.Unlock()
	return readSlice(value, offset)
}

// writeControlPoint handles a write to the volume control point. The
// response code returned to the database is final only after any state
// broadcast the write caused has been emitted.
func (v *vcsServer) writeControlPoint(conn gatt.Conn, offset int, value []byte) gatt.AttError {
	if offset != 0 {
		return gatt.ErrInvalidOffset
	}
	if len(value) < 1 {
		return gatt.ErrInvalidAttributeValueLen
	}

	r := v.binding.reg
	r.mu.Lock()
	if r.bindings[v.binding.db] != v.binding {
		logger := r.logger
		r.mu.Unlock()
		if logger != nil {
			logger.Debug("volume control point write with no bound state", "conn", connID(conn))
		}
		return gatt.ErrSuccess
	}

	q := r.newEventQueueLocked()
	var fire func()
	if conn != nil {
		_, fire = r.serverSessionLocked(conn, v.binding, q)
	}
	code := v.applyLocked(conn, value, q)
	q.add(controlWriteEvent(connID(conn), log.DirectionIn, log.RoleServer,
		wire.VolumeControlServiceUUID, value[0], value[1:], code))
	r.mu.Unlock()

	if fire != nil {
		fire()
	}
	q.flush()
	return code
}

// applyLocked runs the opcode engine against the current volume state.
// Caller holds the registry mutex.
func (v *vcsServer) applyLocked(conn gatt.Conn, value []byte, q *eventQueue) gatt.AttError {
	op := wire.VolumeOpcode(value[0])
	if !op.Known() {
		return wire.ErrOpcodeNotSupported
	}
	operand := value[1:]
	if len(operand) < op.OperandSize() {
		return wire.ErrOpcodeNotSupported
	}
	if operand[0] != v.state.Counter {
		return wire.ErrInvalidChangeCounter
	}

	switch op {
	case wire.RelativeVolumeDown:
		v.volumeDown()
	case wire.RelativeVolumeUp:
		v.volumeUp()
	case wire.UnmuteRelativeVolumeDown:
		v.state.Mute = false
		v.volumeDown()
	case wire.UnmuteRelativeVolumeUp:
		v.state.Mute = false
		v.volumeUp()
	case wire.SetAbsoluteVolume:
		v.state.Setting = operand[1]
	case wire.Unmute:
		v.state.Mute = false
	case wire.Mute:
		v.state.Mute = true
	}
	v.state.Counter++

	// Mute moves the counter but is acknowledged without a broadcast.
	if op != wire.Mute {
		v.broadcastLocked(conn, q)
	}
	return gatt.ErrSuccess
}

func (v *vcsServer) volumeDown() {
	if v.state.Setting > 0 {
		v.state.Setting--
	}
}

func (v *vcsServer) volumeUp() {
	if v.state.Setting < 255 {
		v.state.Setting++
	}
}

// broadcastLocked notifies subscribers of the current volume state.
// Caller holds the registry mutex.
func (v *vcsServer) broadcastLocked(source gatt.Conn, q *eventQueue) {
	value := v.state.Marshal()
	v.binding.db.Notify(v.stateChr.ValueHandle(), value, source)
	q.add(stateNotifyEvent(connID(source), log.DirectionOut, log.RoleServer,
		wire.VolumeControlServiceUUID, wire.VolumeStateUUID, value))
}

// readSlice applies the ATT read offset to a characteristic value.
func readSlice(value []byte, offset int) ([]byte, gatt.AttError) {
	if offset < 0 || offset > len(value) {
		return nil, gatt.ErrInvalidOffset
	}
	return value[offset:], gatt.ErrSuccess
}
