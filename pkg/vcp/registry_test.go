package vcp

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/log"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func waitSession(t *testing.T, ch <-chan *Session, what string) *Session {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		return nil
	}
}

// captureLogger records protocol events for inspection.
type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (c *captureLogger) Log(ev log.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *captureLogger) snapshot() []log.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]log.Event(nil), c.events...)
}

// TestAddDatabaseIdempotent verifies registering the same database
// twice returns the existing binding without republishing services.
func TestAddDatabaseIdempotent(t *testing.T) {
	r, b, db := newTestBinding(t)

	again := r.AddDatabase(db)
	assert.Same(t, b, again)

	count := 0
	db.ForEachService(wire.VolumeControlServiceUUID, func(*gatt.Service) { count++ })
	assert.Equal(t, 1, count)
}

// TestAddDatabaseNil verifies a nil database is refused.
func TestAddDatabaseNil(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.AddDatabase(nil))
}

// TestServiceLayout verifies the published attribute order: the offset
// service first so the volume service declaration can include it.
func TestServiceLayout(t *testing.T) {
	_, _, db := newTestBinding(t)

	var vocs *gatt.Service
	db.ForEachService(wire.VolumeOffsetControlServiceUUID, func(s *gatt.Service) { vocs = s })
	require.NotNil(t, vocs)
	assert.Equal(t, uint16(1), vocs.Handle())
	assert.False(t, vocs.Primary())

	var vcs *gatt.Service
	db.ForEachService(wire.VolumeControlServiceUUID, func(s *gatt.Service) { vcs = s })
	require.NotNil(t, vcs)
	assert.Equal(t, uint16(13), vcs.Handle())
	assert.True(t, vcs.Primary())

	includes := vcs.Includes()
	require.Len(t, includes, 1)
	assert.Same(t, vocs, includes[0])

	assert.Equal(t, uint16(3),
		findValueHandle(t, db, wire.VolumeOffsetControlServiceUUID, wire.VolumeOffsetStateUUID))
	assert.Equal(t, uint16(9),
		findValueHandle(t, db, wire.VolumeOffsetControlServiceUUID, wire.VolumeOffsetControlPointUUID))
	assert.Equal(t, uint16(15),
		findValueHandle(t, db, wire.VolumeControlServiceUUID, wire.VolumeStateUUID))
	assert.Equal(t, uint16(18),
		findValueHandle(t, db, wire.VolumeControlServiceUUID, wire.VolumeControlPointUUID))
	assert.Equal(t, uint16(20),
		findValueHandle(t, db, wire.VolumeControlServiceUUID, wire.VolumeFlagsUUID))
}

// TestObserverRegistration verifies observer ids and removal.
func TestObserverRegistration(t *testing.T) {
	r := NewRegistry()

	assert.Zero(t, r.Observe(nil, nil))

	id := r.Observe(func(*Session) {}, nil)
	require.NotZero(t, id)
	assert.True(t, r.Unobserve(id))
	assert.False(t, r.Unobserve(id))
	assert.False(t, r.Unobserve(9999))
}

// TestAttachServerRole verifies a server-role attach activates the
// session and fires the attach observers on every call, while the
// lifecycle event is only emitted on the actual transition.
func TestAttachServerRole(t *testing.T) {
	r, _, db := newTestBinding(t)
	events := &captureLogger{}
	r.SetEventLogger(events)

	attached := 0
	r.Observe(func(*Session) { attached++ }, nil)

	s, err := r.NewSession(db, nil)
	require.NoError(t, err)
	assert.False(t, s.Attached())

	require.NoError(t, r.Attach(s, nil))
	assert.True(t, s.Attached())
	require.NoError(t, r.Attach(s, nil))

	assert.Equal(t, 2, attached)

	transitions := 0
	for _, ev := range events.snapshot() {
		if ev.SessionState != nil {
			transitions++
			assert.Equal(t, "attached", ev.SessionState.New)
		}
	}
	assert.Equal(t, 1, transitions)
}

// TestDetach verifies detach deactivates the session, fires the detach
// observers once and is idempotent.
func TestDetach(t *testing.T) {
	r, _, db := newTestBinding(t)

	detached := 0
	r.Observe(nil, func(*Session) { detached++ })

	s, err := r.NewSession(db, nil)
	require.NoError(t, err)
	require.NoError(t, r.Attach(s, nil))

	r.Detach(s)
	assert.False(t, s.Attached())
	r.Detach(s)
	assert.Equal(t, 1, detached)
}

// TestNewSessionRequiresLocal verifies a session cannot exist without a
// local database.
func TestNewSessionRequiresLocal(t *testing.T) {
	r := NewRegistry()
	s, err := r.NewSession(nil, nil)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrNoDatabase)
}

// TestSessionUserData verifies the user data slot.
func TestSessionUserData(t *testing.T) {
	r, _, db := newTestBinding(t)
	s, err := r.NewSession(db, nil)
	require.NoError(t, err)

	assert.Nil(t, s.UserData())
	s.SetUserData("speaker-7")
	assert.Equal(t, "speaker-7", s.UserData())
}

// TestServerSessionCreatedOnFirstWrite verifies a control point write
// from an unknown connection creates an attached server session, and a
// second write reuses it.
func TestServerSessionCreatedOnFirstWrite(t *testing.T) {
	r, _, db := newTestBinding(t)
	cp := findValueHandle(t, db, wire.VolumeControlServiceUUID, wire.VolumeControlPointUUID)

	conn, client := gatt.NewLoopback(db)
	defer conn.Close(nil)

	sessions := make(chan *Session, 4)
	r.Observe(func(s *Session) { sessions <- s }, nil)

	done := make(chan struct{})
	client.WriteValue(cp, []byte{byte(wire.RelativeVolumeDown), 0}, func(success bool, code gatt.AttError) {
		close(done)
	})
	waitSignal(t, done, "first write completion")

	s := waitSession(t, sessions, "server session")
	assert.Same(t, conn, s.Conn())
	assert.True(t, s.Attached())
	assert.Nil(t, s.UserData())

	done2 := make(chan struct{})
	client.WriteValue(cp, []byte{byte(wire.RelativeVolumeDown), 1}, func(bool, gatt.AttError) {
		close(done2)
	})
	waitSignal(t, done2, "second write completion")

	select {
	case extra := <-sessions:
		t.Fatalf("second write created another session %p", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

// TestServerSessionDetachOnDisconnect verifies the transport teardown
// detaches the lazily created server session.
func TestServerSessionDetachOnDisconnect(t *testing.T) {
	r, _, db := newTestBinding(t)
	cp := findValueHandle(t, db, wire.VolumeControlServiceUUID, wire.VolumeControlPointUUID)

	sessions := make(chan *Session, 1)
	detached := make(chan *Session, 1)
	r.Observe(func(s *Session) { sessions <- s }, func(s *Session) { detached <- s })

	conn, client := gatt.NewLoopback(db)
	client.WriteValue(cp, []byte{byte(wire.RelativeVolumeDown), 0}, nil)
	s := waitSession(t, sessions, "server session")

	conn.Close(nil)
	got := waitSession(t, detached, "detach on disconnect")
	assert.Same(t, s, got)
	assert.False(t, s.Attached())
}

// TestRemoveDatabaseDetachesSessions verifies removal deactivates the
// services and detaches the sessions bound to the database.
func TestRemoveDatabaseDetachesSessions(t *testing.T) {
	r, _, db := newTestBinding(t)

	detached := 0
	r.Observe(nil, func(*Session) { detached++ })

	s, err := r.NewSession(db, nil)
	require.NoError(t, err)
	require.NoError(t, r.Attach(s, nil))

	require.True(t, r.RemoveDatabase(db))
	assert.False(t, r.RemoveDatabase(db))

	assert.Equal(t, 1, detached)
	assert.False(t, s.Attached())

	count := 0
	db.ForEachService(wire.VolumeControlServiceUUID, func(*gatt.Service) { count++ })
	assert.Zero(t, count, "services must be inactive after removal")
}

// TestControlPointEventSequence verifies a successful write emits the
// state broadcast event before the control write result.
func TestControlPointEventSequence(t *testing.T) {
	r, _, db := newTestBinding(t)
	events := &captureLogger{}
	r.SetEventLogger(events)
	cp := findValueHandle(t, db, wire.VolumeControlServiceUUID, wire.VolumeControlPointUUID)

	code := db.Write(nil, cp, 0, []byte{byte(wire.RelativeVolumeUp), 0})
	require.Equal(t, gatt.ErrSuccess, code)

	evs := events.snapshot()
	require.Len(t, evs, 2)

	require.NotNil(t, evs[0].StateNotify)
	assert.Equal(t, log.DirectionOut, evs[0].Direction)
	assert.Equal(t, log.RoleServer, evs[0].Role)
	assert.Equal(t, wire.VolumeStateUUID, evs[0].StateNotify.Characteristic)
	assert.Equal(t, []byte{1, 0, 1}, evs[0].StateNotify.Value)

	require.NotNil(t, evs[1].ControlWrite)
	assert.Equal(t, log.DirectionIn, evs[1].Direction)
	assert.Equal(t, log.RoleServer, evs[1].Role)
	assert.Equal(t, uint8(wire.RelativeVolumeUp), evs[1].ControlWrite.Opcode)
	assert.Equal(t, []byte{0}, evs[1].ControlWrite.Operand)
	assert.Equal(t, gatt.ErrSuccess, evs[1].ControlWrite.Result)
	assert.False(t, evs[1].Timestamp.IsZero())
}
