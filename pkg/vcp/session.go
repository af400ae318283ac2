package vcp

import (
	"log/slog"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/log"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// ClientEvents receives the values observed in client role: the results
// of the initial reads and every later notification, decoded. All
// fields are optional. Set the hooks before Attach so the priming reads
// are not missed. Callbacks run on the client's event context and must
// not block it.
type ClientEvents struct {
	VolumeState       func(wire.VolumeState)
	VolumeFlags       func(wire.VolumeFlags)
	VolumeOffsetState func(wire.VolumeOffsetState)
	AudioLocation     func(wire.AudioLocation)
	OutputDescription func(string)
}

// remoteHandles holds the characteristic value handles bound during
// discovery. Zero means not discovered.
type remoteHandles struct {
	volumeState   uint16
	volumeCP      uint16
	volumeFlags   uint16
	offsetState   uint16
	offsetCP      uint16
	audioLocation uint16
	outputDesc    uint16
}

type pendingRead struct {
	id     gatt.RequestID
	handle uint16
	fn     gatt.ReadFunc
}

type pendingWrite struct {
	id      gatt.RequestID
	handle  uint16
	service gatt.UUID16
	opcode  uint8
	operand []byte
	fn      func(gatt.AttError)
}

type notifySub struct {
	id     gatt.SubscriptionID
	handle uint16
	fn     gatt.NotifyFunc
}

// Session is one peer association. It serves the server role for the
// connection it was created on and, once attached with a client,
// mirrors the peer's volume state in client role. Sessions come from
// Registry.NewSession or are created lazily by the first control-point
// write on an unknown connection.
type Session struct {
	reg      *Registry
	binding  *Binding
	remoteDB *gatt.Database

	// Guarded by the registry mutex.
	conn       gatt.Conn
	origin     gatt.Client
	client     gatt.Client
	attached   bool
	discovered bool

	pendingReads  map[gatt.RequestID]*pendingRead
	pendingWrites map[gatt.RequestID]*pendingWrite
	subscriptions map[gatt.SubscriptionID]*notifySub

	remote remoteHandles

	volumeState wire.VolumeState
	volumeValid bool
	offsetState wire.VolumeOffsetState
	offsetValid bool

	events   ClientEvents
	userData any
	logger   *slog.Logger
}

func newSession(r *Registry, b *Binding, remote *gatt.Database) *Session {
	return &Session{
		reg:           r,
		binding:       b,
		remoteDB:      remote,
		pendingReads:  make(map[gatt.RequestID]*pendingRead),
		pendingWrites: make(map[gatt.RequestID]*pendingWrite),
		subscriptions: make(map[gatt.SubscriptionID]*notifySub),
	}
}

// Binding returns the local server binding the session serves.
func (s *Session) Binding() *Binding { return s.binding }

// Conn returns the session's bearer: the connection it was created for
// in server role, else the attached client's connection, else nil.
func (s *Session) Conn() gatt.Conn {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.connLocked()
}

// Attached reports whether the session is in the registry's active set.
func (s *Session) Attached() bool {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.attached
}

// UserData returns the value stored with SetUserData.
func (s *Session) UserData() any {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.userData
}

// SetUserData stores an arbitrary value with the session for the
// owning application.
func (s *Session) SetUserData(v any) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	s.userData = v
}

// SetClientEvents installs the client-role value hooks.
func (s *Session) SetClientEvents(ev ClientEvents) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	s.events = ev
}

// SetLogger sets a session-local debug logger. When nil the registry's
// logger is used.
func (s *Session) SetLogger(logger *slog.Logger) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	s.logger = logger
}

// VolumeState returns the last volume state observed from the peer.
// ok is false until the initial read or a notification has landed.
func (s *Session) VolumeState() (state wire.VolumeState, ok bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.volumeState, s.volumeValid
}

// VolumeOffsetState returns the last offset state observed from the
// peer. ok is false until the initial read or a notification has
// landed.
func (s *Session) VolumeOffsetState() (state wire.VolumeOffsetState, ok bool) {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()
	return s.offsetState, s.offsetValid
}

func (s *Session) connLocked() gatt.Conn {
	if s.conn != nil {
		return s.conn
	}
	if s.client != nil {
		return s.client.Conn()
	}
	return nil
}

func (s *Session) connIDLocked() string {
	if c := s.connLocked(); c != nil {
		return c.ID()
	}
	return ""
}

func (s *Session) debugLocked(msg string, args ...any) {
	logger := s.logger
	if logger == nil {
		logger = s.reg.logger
	}
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

// purgeLocked empties the ledgers and resets the client-role state so a
// later attach starts from a clean discovery. Purged entries drop the
// completions still in flight. Caller holds the registry mutex.
func (s *Session) purgeLocked() {
	s.pendingReads = make(map[gatt.RequestID]*pendingRead)
	s.pendingWrites = make(map[gatt.RequestID]*pendingWrite)
	s.subscriptions = make(map[gatt.SubscriptionID]*notifySub)
	s.remote = remoteHandles{}
	s.volumeValid = false
	s.offsetValid = false
	s.discovered = false
}

// ----------------------------------------------------------------------------
// Pending-request ledger
// ----------------------------------------------------------------------------

// submitReadLocked starts an asynchronous read through the session's
// client and tracks it in the ledger. fn runs exactly once unless the
// session detaches first, in which case it never runs. Returns 0 when
// the read could not be submitted. Caller holds the registry mutex.
func (s *Session) submitReadLocked(handle uint16, fn gatt.ReadFunc) gatt.RequestID {
	entry := &pendingRead{handle: handle, fn: fn}
	id := s.client.ReadValue(handle, func(success bool, code gatt.AttError, value []byte) {
		s.completeRead(entry, success, code, value)
	})
	if id == 0 {
		s.debugLocked("read submission failed", "conn", s.connIDLocked(), "handle", handle)
		return 0
	}
	entry.id = id
	s.pendingReads[id] = entry
	return id
}

func (s *Session) completeRead(entry *pendingRead, success bool, code gatt.AttError, value []byte) {
	r := s.reg
	r.mu.Lock()
	live := s.pendingReads[entry.id] == entry
	if live {
		delete(s.pendingReads, entry.id)
	}
	r.mu.Unlock()

	if live && entry.fn != nil {
		entry.fn(success, code, value)
	}
}

// submitWriteLocked starts an asynchronous control-point write and
// tracks it in the ledger. pdu is the full control-point value, opcode
// first. fn, when non-nil, receives the peer's result unless the
// session detaches first. Returns 0 when the write could not be
// submitted. Caller holds the registry mutex.
func (s *Session) submitWriteLocked(handle uint16, service gatt.UUID16, pdu []byte, fn func(gatt.AttError)) gatt.RequestID {
	entry := &pendingWrite{handle: handle, service: service, fn: fn}
	if len(pdu) > 0 {
		entry.opcode = pdu[0]
		entry.operand = append([]byte(nil), pdu[1:]...)
	}
	id := s.client.WriteValue(handle, pdu, func(success bool, code gatt.AttError) {
		s.completeWrite(entry, code)
	})
	if id == 0 {
		s.debugLocked("write submission failed", "conn", s.connIDLocked(), "handle", handle)
		return 0
	}
	entry.id = id
	s.pendingWrites[id] = entry
	s.debugLocked("control point write", "conn", s.connIDLocked(),
		"service", entry.service.String(), "opcode", entry.opcode)
	return id
}

func (s *Session) completeWrite(entry *pendingWrite, code gatt.AttError) {
	r := s.reg
	r.mu.Lock()
	live := s.pendingWrites[entry.id] == entry
	var q *eventQueue
	if live {
		delete(s.pendingWrites, entry.id)
		q = r.newEventQueueLocked()
		q.add(controlWriteEvent(s.connIDLocked(), log.DirectionOut, log.RoleClient,
			entry.service, entry.opcode, entry.operand, code))
	}
	r.mu.Unlock()

	if !live {
		return
	}
	q.flush()
	if entry.fn != nil {
		entry.fn(code)
	}
}

// subscribeNotifyLocked installs a notification subscription through
// the session's client and tracks it in the ledger. fn runs for every
// delivered notification until the session detaches. Returns 0 when
// the subscription could not be submitted. Caller holds the registry
// mutex.
func (s *Session) subscribeNotifyLocked(handle uint16, fn gatt.NotifyFunc) gatt.SubscriptionID {
	sub := &notifySub{handle: handle, fn: fn}
	id := s.client.RegisterNotify(handle,
		func(code gatt.AttError) { s.notifyRegistered(sub, code) },
		func(h uint16, value []byte) { s.deliverNotify(sub, h, value) },
		nil)
	if id == 0 {
		s.debugLocked("notify registration failed", "conn", s.connIDLocked(), "handle", handle)
		return 0
	}
	sub.id = id
	s.subscriptions[id] = sub
	return id
}

func (s *Session) notifyRegistered(sub *notifySub, code gatt.AttError) {
	r := s.reg
	r.mu.Lock()
	live := s.subscriptions[sub.id] == sub
	if live {
		s.debugLocked("notify registered", "conn", s.connIDLocked(),
			"handle", sub.handle, "result", code.Error())
	}
	r.mu.Unlock()
}

func (s *Session) deliverNotify(sub *notifySub, handle uint16, value []byte) {
	r := s.reg
	r.mu.Lock()
	live := s.subscriptions[sub.id] == sub
	r.mu.Unlock()

	if live && sub.fn != nil {
		sub.fn(handle, value)
	}
}

// ----------------------------------------------------------------------------
// Client mirror
// ----------------------------------------------------------------------------

// readFailed records a failed initial read.
func (s *Session) readFailed(what string, code gatt.AttError) {
	r := s.reg
	r.mu.Lock()
	q := r.newEventQueueLocked()
	s.debugLocked("read failed", "conn", s.connIDLocked(), "what", what, "result", code.Error())
	q.add(errorEvent(s.connIDLocked(), log.RoleClient, code.Error(), what+" read"))
	r.mu.Unlock()
	q.flush()
}

// decodeFailed records an undecodable value received from the peer.
func (s *Session) decodeFailed(what string, err error) {
	r := s.reg
	r.mu.Lock()
	q := r.newEventQueueLocked()
	s.debugLocked("bad value from peer", "conn", s.connIDLocked(), "what", what, "err", err)
	q.add(errorEvent(s.connIDLocked(), log.RoleClient, err.Error(), what))
	r.mu.Unlock()
	q.flush()
}

func (s *Session) consumeVolumeState(value []byte) {
	st, err := wire.ParseVolumeState(value)
	if err != nil {
		s.decodeFailed("volume state", err)
		return
	}

	r := s.reg
	r.mu.Lock()
	if !s.attached {
		r.mu.Unlock()
		return
	}
	s.volumeState = st
	s.volumeValid = true
	hook := s.events.VolumeState
	q := r.newEventQueueLocked()
	q.add(stateNotifyEvent(s.connIDLocked(), log.DirectionIn, log.RoleClient,
		wire.VolumeControlServiceUUID, wire.VolumeStateUUID, value))
	r.mu.Unlock()

	q.flush()
	if hook != nil {
		hook(st)
	}
}

func (s *Session) consumeVolumeFlags(value []byte) {
	flags, err := wire.ParseVolumeFlags(value)
	if err != nil {
		s.decodeFailed("volume flags", err)
		return
	}

	r := s.reg
	r.mu.Lock()
	if !s.attached {
		r.mu.Unlock()
		return
	}
	hook := s.events.VolumeFlags
	q := r.newEventQueueLocked()
	q.add(stateNotifyEvent(s.connIDLocked(), log.DirectionIn, log.RoleClient,
		wire.VolumeControlServiceUUID, wire.VolumeFlagsUUID, value))
	r.mu.Unlock()

	q.flush()
	if hook != nil {
		hook(flags)
	}
}

func (s *Session) consumeOffsetState(value []byte) {
	st, err := wire.ParseVolumeOffsetState(value)
	if err != nil {
		s.decodeFailed("volume offset state", err)
		return
	}

	r := s.reg
	r.mu.Lock()
	if !s.attached {
		r.mu.Unlock()
		return
	}
	s.offsetState = st
	s.offsetValid = true
	hook := s.events.VolumeOffsetState
	q := r.newEventQueueLocked()
	q.add(stateNotifyEvent(s.connIDLocked(), log.DirectionIn, log.RoleClient,
		wire.VolumeOffsetControlServiceUUID, wire.VolumeOffsetStateUUID, value))
	r.mu.Unlock()

	q.flush()
	if hook != nil {
		hook(st)
	}
}

func (s *Session) consumeAudioLocation(value []byte) {
	loc, err := wire.ParseAudioLocation(value)
	if err != nil {
		s.decodeFailed("audio location", err)
		return
	}

	r := s.reg
	r.mu.Lock()
	if !s.attached {
		r.mu.Unlock()
		return
	}
	hook := s.events.AudioLocation
	q := r.newEventQueueLocked()
	q.add(stateNotifyEvent(s.connIDLocked(), log.DirectionIn, log.RoleClient,
		wire.VolumeOffsetControlServiceUUID, wire.AudioLocationUUID, value))
	r.mu.Unlock()

	q.flush()
	if hook != nil {
		hook(loc)
	}
}

func (s *Session) consumeOutputDescription(value []byte) {
	desc := string(value)

	r := s.reg
	r.mu.Lock()
	if !s.attached {
		r.mu.Unlock()
		return
	}
	hook := s.events.OutputDescription
	q := r.newEventQueueLocked()
	q.add(stateNotifyEvent(s.connIDLocked(), log.DirectionIn, log.RoleClient,
		wire.VolumeOffsetControlServiceUUID, wire.AudioOutputDescriptionUUID, value))
	r.mu.Unlock()

	q.flush()
	if hook != nil {
		hook(desc)
	}
}
