package vcp

import (
	"encoding/binary"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/log"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// vocsServer is the server-role Volume Offset Control Service bound to
// one database: offset state, audio location and output description
// behind the published attributes, and the offset control-point engine.
type vocsServer struct {
	binding *Binding

	// Guarded by the registry mutex.
	state    wire.VolumeOffsetState
	location wire.AudioLocation
	desc     string

	service  *gatt.Service
	stateChr *gatt.Characteristic
	locChr   *gatt.Characteristic
	cpChr    *gatt.Characteristic
	descChr  *gatt.Characteristic
}

// newVOCSServer publishes the VOCS as a secondary service: offset
// state, audio location, offset control point, output description.
func newVOCSServer(b *Binding, cfg ServiceConfig) *vocsServer {
	v := &vocsServer{
		binding:  b,
		location: cfg.AudioLocation,
		desc:     cfg.OutputDescription,
	}

	svc := b.db.AddService(wire.VolumeOffsetControlServiceUUID, false)
	v.stateChr = svc.AddCharacteristic(wire.VolumeOffsetStateUUID,
		gatt.PropRead|gatt.PropNotify, v.readState, nil)
	svc.AddCCC()
	v.locChr = svc.AddCharacteristic(wire.AudioLocationUUID,
		gatt.PropRead|gatt.PropNotify, v.readLocation, nil)
	svc.AddCCC()
	v.cpChr = svc.AddCharacteristic(wire.VolumeOffsetControlPointUUID,
		gatt.PropWrite, nil, v.writeControlPoint)
	v.descChr = svc.AddCharacteristic(wire.AudioOutputDescriptionUUID,
		gatt.PropRead|gatt.PropNotify, v.readDescription, nil)
	svc.AddCCC()
	svc.SetActive(true)
	v.service = svc
	return v
}

func (v *vocsServer) readState(conn gatt.Conn, offset int) ([]byte, gatt.AttError) {
	r := v.binding.reg
	r.mu.Lock()
	value := v.state.Marshal()
	r.mu.Unlock()
	return readSlice(value, offset)
}

func (v *vocsServer) readLocation(conn gatt.Conn, offset int) ([]byte, gatt.AttError) {
	r := v.binding.reg
	r.mu.Lock()
	value := v.location.Marshal()
	r.mu.Unlock()
	return readSlice(value, offset)
}

func (v *vocsServer) readDescription(conn gatt.Conn, offset int) ([]byte, gatt.AttError) {
	r := v.binding.reg
	r.mu.Lock()
	value := []byte(v.desc)
	r.mu.Unlock()
	return readSlice(value, offset)
}

// writeControlPoint handles a write to the volume offset control point.
func (v *vocsServer) writeControlPoint(conn gatt.Conn, offset int, value []byte) gatt.AttError {
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
			logger.Debug("offset control point write with no bound state", "conn", connID(conn))
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
		wire.VolumeOffsetControlServiceUUID, value[0], value[1:], code))
	r.mu.Unlock()

	if fire != nil {
		fire()
	}
	q.flush()
	return code
}

// applyLocked runs the opcode engine against the current offset state.
// Caller holds the registry mutex.
func (v *vocsServer) applyLocked(conn gatt.Conn, value []byte, q *eventQueue) gatt.AttError {
	op := wire.OffsetOpcode(value[0])
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

	// The offset is assigned before the range check; a rejected value
	// stays assigned, and the counter only moves on success.
	v.state.Offset = int16(binary.LittleEndian.Uint16(operand[1:3]))
	if v.state.Offset < wire.VolumeOffsetMin || v.state.Offset > wire.VolumeOffsetMax {
		return wire.ErrValueOutOfRange
	}
	v.state.Counter++
	v.broadcastLocked(conn, q)
	return gatt.ErrSuccess
}

// broadcastLocked notifies subscribers of the current offset state.
// Caller holds the registry mutex.
func (v *vocsServer) broadcastLocked(source gatt.Conn, q *eventQueue) {
	value := v.state.Marshal()
	v.binding.db.Notify(v.stateChr.ValueHandle(), value, source)
	q.add(stateNotifyEvent(connID(source), log.DirectionOut, log.RoleServer,
		wire.VolumeOffsetControlServiceUUID, wire.VolumeOffsetStateUUID, value))
}
