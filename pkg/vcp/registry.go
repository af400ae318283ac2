package vcp

import (
	"log/slog"
	"sync"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/log"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// ServiceConfig holds the initial values of the read-only attributes
// published for one database.
type ServiceConfig struct {
	// AudioLocation is the spatial location bitmask published by the VOCS.
	AudioLocation wire.AudioLocation

	// OutputDescription is the audio output label published by the VOCS.
	OutputDescription string

	// VolumeFlags is the initial volume flags value published by the VCS.
	VolumeFlags wire.VolumeFlags
}

// DefaultServiceConfig returns the attribute values AddDatabase
// publishes: a front-left output labeled "Left Speaker" whose volume
// setting has been set by a user before.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		AudioLocation:     wire.LocationFrontLeft,
		OutputDescription: "Left Speaker",
		VolumeFlags:       wire.VolumeFlagsUserSet,
	}
}

// Binding ties one gatt.Database to its server-role VCS and VOCS
// instances. A database has at most one binding per registry.
type Binding struct {
	reg  *Registry
	db   *gatt.Database
	vcs  *vcsServer
	vocs *vocsServer
}

// Database returns the database the binding publishes into.
func (b *Binding) Database() *gatt.Database { return b.db }

// VolumeState returns a snapshot of the server's volume state.
func (b *Binding) VolumeState() wire.VolumeState {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()
	return b.vcs.state
}

// VolumeFlags returns the server's volume flags value.
func (b *Binding) VolumeFlags() wire.VolumeFlags {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()
	return b.vcs.flags
}

// OffsetState returns a snapshot of the server's volume offset state.
func (b *Binding) OffsetState() wire.VolumeOffsetState {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()
	return b.vocs.state
}

// AudioLocation returns the server's audio location bitmask.
func (b *Binding) AudioLocation() wire.AudioLocation {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()
	return b.vocs.location
}

// OutputDescription returns the server's audio output description.
func (b *Binding) OutputDescription() string {
	b.reg.mu.Lock()
	defer b.reg.mu.Unlock()
	return b.vocs.desc
}

// observer is one attach/detach registration.
type observer struct {
	attached func(*Session)
	detached func(*Session)
}

// Registry owns the server bindings, the set of active sessions and the
// attach/detach observers. All profile state hangs off a registry;
// there is no package-level state. Core state is serialized by the
// registry mutex, and observer, ClientEvents and ledger callbacks are
// invoked with the mutex released.
type Registry struct {
	mu sync.Mutex

	bindings map[*gatt.Database]*Binding
	sessions map[*Session]struct{}

	observers    map[uint]observer
	nextObserver uint

	logger      *slog.Logger
	eventLogger log.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings:  make(map[*gatt.Database]*Binding),
		sessions:  make(map[*Session]struct{}),
		observers: make(map[uint]observer),
	}
}

// SetLogger sets the debug logger. nil disables debug logging.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// SetEventLogger sets the protocol event sink. nil disables event
// logging.
func (r *Registry) SetEventLogger(sink log.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eventLogger = sink
}

// Observe registers callbacks fired on every session attach and detach.
// Either may be nil; both nil returns 0 without registering. The
// returned id releases the registration through Unobserve.
func (r *Registry) Observe(attached, detached func(*Session)) uint {
	if attached == nil && detached == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextObserver++
	if r.nextObserver == 0 {
		r.nextObserver = 1
	}
	id := r.nextObserver
	r.observers[id] = observer{attached: attached, detached: detached}
	return id
}

// Unobserve removes an observer registration.
func (r *Registry) Unobserve(id uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.observers[id]; !ok {
		return false
	}
	delete(r.observers, id)
	return true
}

// AddDatabase publishes the VCS and VOCS attributes into db with
// default initial values and returns the binding. Registering the same
// database again returns the existing binding.
func (r *Registry) AddDatabase(db *gatt.Database) *Binding {
	return r.AddDatabaseWithConfig(db, DefaultServiceConfig())
}

// AddDatabaseWithConfig is AddDatabase with explicit initial attribute
// values. cfg only applies when db has no binding yet.
func (r *Registry) AddDatabaseWithConfig(db *gatt.Database, cfg ServiceConfig) *Binding {
	if db == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindingLocked(db, cfg)
}

// bindingLocked resolves the binding for db, publishing the services on
// first reference. Caller holds the registry mutex.
func (r *Registry) bindingLocked(db *gatt.Database, cfg ServiceConfig) *Binding {
	if b, ok := r.bindings[db]; ok {
		return b
	}

	// The VOCS registers first so the VCS declaration can include it,
	// keeping the attribute order a remote client discovers stable.
	b := &Binding{reg: r, db: db}
	b.vocs = newVOCSServer(b, cfg)
	b.vcs = newVCSServer(b, b.vocs.service, cfg)
	r.bindings[db] = b

	if r.logger != nil {
		r.logger.Debug("services registered",
			"vcs_handle", b.vcs.service.Handle(),
			"vocs_handle", b.vocs.service.Handle())
	}
	return b
}

// RemoveDatabase drops the binding for db, deactivates its services and
// detaches every session bound to it. Returns false when db has no
// binding.
func (r *Registry) RemoveDatabase(db *gatt.Database) bool {
	r.mu.Lock()
	b, ok := r.bindings[db]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.bindings, db)
	var bound []*Session
	for s := range r.sessions {
		if s.binding == b {
			bound = append(bound, s)
		}
	}
	r.mu.Unlock()

	b.vcs.service.SetActive(false)
	b.vocs.service.SetActive(false)
	for _, s := range bound {
		r.detach(s, "database removed")
	}
	return true
}

// NewSession creates a session over local, the database whose server
// state the session serves, and remote, the peer database used for
// discovery (nil for a server-only session). The local binding is
// created on first reference. The session is inactive until Attach.
func (r *Registry) NewSession(local, remote *gatt.Database) (*Session, error) {
	if local == nil {
		return nil, ErrNoDatabase
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.bindingLocked(local, DefaultServiceConfig())
	return newSession(r, b, remote), nil
}

// Attach activates the session. A nil client attaches in server role.
// The first attach with a client clones it and runs discovery against
// the session's remote database. Attaching a different client to a
// session that already holds one fails with ErrClientAlreadyAttached.
// Observers fire on every successful call.
func (r *Registry) Attach(s *Session, client gatt.Client) error {
	if s == nil {
		return ErrSessionDetached
	}

	r.mu.Lock()
	if client != nil && s.origin != nil && s.origin != client {
		r.mu.Unlock()
		return ErrClientAlreadyAttached
	}

	q := r.newEventQueueLocked()
	role := log.RoleServer
	first := false
	if client != nil {
		role = log.RoleClient
		if s.origin == nil {
			first = true
			s.origin = client
			s.client = client.Clone()
		}
	}
	wasAttached := s.attached
	s.attached = true
	r.sessions[s] = struct{}{}
	if !wasAttached {
		q.add(sessionStateEvent(s.connIDLocked(), role, "detached", "attached", ""))
	}
	cbs := r.attachedCallbacksLocked()
	logger := r.logger
	connID := s.connIDLocked()
	r.mu.Unlock()

	if logger != nil {
		logger.Debug("session attached", "conn", connID, "role", role.String())
	}
	for _, cb := range cbs {
		cb(s)
	}
	q.flush()

	if first {
		r.discover(s)
	}
	return nil
}

// Detach deactivates the session, cancels its outstanding reads and
// subscriptions and releases its client. Callbacks of purged ledger
// entries never fire afterwards. Detaching an inactive session does
// nothing.
func (r *Registry) Detach(s *Session) {
	r.detach(s, "")
}

func (r *Registry) detach(s *Session, reason string) {
	if s == nil {
		return
	}

	r.mu.Lock()
	if !s.attached {
		r.mu.Unlock()
		return
	}
	role := log.RoleServer
	if s.client != nil {
		role = log.RoleClient
	}
	connID := s.connIDLocked()
	s.attached = false
	delete(r.sessions, s)
	client := s.client
	s.client = nil
	s.origin = nil
	s.purgeLocked()

	q := r.newEventQueueLocked()
	q.add(sessionStateEvent(connID, role, "attached", "detached", reason))
	cbs := r.detachedCallbacksLocked()
	logger := r.logger
	r.mu.Unlock()

	if client != nil {
		client.Close()
	}
	if logger != nil {
		logger.Debug("session detached", "conn", connID, "reason", reason)
	}
	for _, cb := range cbs {
		cb(s)
	}
	q.flush()
}

// serverSessionLocked resolves the session for conn, creating an
// attached server-role session on first sight. The returned fire func
// delivers the attach observer callbacks; run it, when non-nil, after
// the mutex is released. Caller holds the registry mutex.
func (r *Registry) serverSessionLocked(conn gatt.Conn, b *Binding, q *eventQueue) (*Session, func()) {
	for s := range r.sessions {
		if s.connLocked() == conn {
			return s, nil
		}
	}

	s := newSession(r, b, nil)
	s.conn = conn
	s.attached = true
	r.sessions[s] = struct{}{}
	conn.OnDisconnect(func(err error) {
		r.detach(s, "disconnect")
	})
	if r.logger != nil {
		r.logger.Debug("server session created", "conn", conn.ID())
	}
	q.add(sessionStateEvent(conn.ID(), log.RoleServer, "detached", "attached", ""))

	cbs := r.attachedCallbacksLocked()
	if len(cbs) == 0 {
		return s, nil
	}
	return s, func() {
		for _, cb := range cbs {
			cb(s)
		}
	}
}

// attachedCallbacksLocked snapshots the attach observer callbacks.
// Caller holds the registry mutex.
func (r *Registry) attachedCallbacksLocked() []func(*Session) {
	var cbs []func(*Session)
	for _, ob := range r.observers {
		if ob.attached != nil {
			cbs = append(cbs, ob.attached)
		}
	}
	return cbs
}

// detachedCallbacksLocked snapshots the detach observer callbacks.
// Caller holds the registry mutex.
func (r *Registry) detachedCallbacksLocked() []func(*Session) {
	var cbs []func(*Session)
	for _, ob := range r.observers {
		if ob.detached != nil {
			cbs = append(cbs, ob.detached)
		}
	}
	return cbs
}

func connID(conn gatt.Conn) string {
	if conn == nil {
		return ""
	}
	return conn.ID()
}
