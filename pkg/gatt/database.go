package gatt

import (
	"encoding/binary"
	"sync"
)

// Props is the characteristic property bitmask from the GATT
// characteristic declaration.
type Props uint8

const (
	PropBroadcast Props = 1 << iota
	PropRead
	PropWriteNoResponse
	PropWrite
	PropNotify
	PropIndicate
	PropSignedWrite
	PropExtended
)

// CCCNotify is the Client Characteristic Configuration bit that enables
// notifications.
const CCCNotify uint16 = 0x0001

// ReadHandler produces the current value of a characteristic. conn is
// the bearer the read arrived on (nil for local reads), offset the
// requested value offset.
type ReadHandler func(conn Conn, offset int) ([]byte, AttError)

// WriteHandler applies a write to a characteristic and returns the
// result code sent back to the writer.
type WriteHandler func(conn Conn, offset int, value []byte) AttError

// NotifyObserver receives every notification emitted through the
// database. source is the bearer whose write triggered the
// notification, nil when it was server-initiated.
type NotifyObserver func(handle uint16, value []byte, source Conn)

// Database is an in-memory GATT attribute database. Services,
// characteristics and descriptors are assigned consecutive handles in
// registration order, matching the attribute layout a remote client
// would discover.
type Database struct {
	mu           sync.RWMutex
	services     []*Service
	nextHandle   uint16
	observers    map[uint64]NotifyObserver
	nextObserver uint64
}

// Service is one service declaration and its characteristics.
type Service struct {
	db      *Database
	uuid    UUID16
	primary bool

	// Guarded by db.mu.
	active          bool
	claimed         bool
	handle          uint16
	endHandle       uint16
	characteristics []*Characteristic
	includes        []*Service
}

// Characteristic is one characteristic declaration, its value attribute
// and an optional CCC descriptor.
type Characteristic struct {
	service *Service
	uuid    UUID16
	props   Props

	declHandle  uint16
	valueHandle uint16

	readHandler  ReadHandler
	writeHandler WriteHandler

	// Guarded by the database lock.
	value     []byte
	cccHandle uint16
	ccc       map[string]uint16
}

// NewDatabase creates an empty attribute database.
func NewDatabase() *Database {
	return &Database{
		nextHandle: 1,
		observers:  make(map[uint64]NotifyObserver),
	}
}

// AddService appends a service declaration and returns the new service.
// The service stays inactive, and invisible to ForEachService, until
// SetActive(true).
func (db *Database) AddService(u UUID16, primary bool) *Service {
	db.mu.Lock()
	defer db.mu.Unlock()

	s := &Service{
		db:      db,
		uuid:    u,
		primary: primary,
		handle:  db.nextHandle,
	}
	s.endHandle = s.handle
	db.nextHandle++
	db.services = append(db.services, s)
	return s
}

// ForEachService calls fn for every active service with the given UUID,
// in registration order.
func (db *Database) ForEachService(u UUID16, fn func(*Service)) {
	db.mu.RLock()
	var matched []*Service
	for _, s := range db.services {
		if s.active && s.uuid == u {
			matched = append(matched, s)
		}
	}
	db.mu.RUnlock()

	for _, s := range matched {
		fn(s)
	}
}

// FindCharacteristic returns the characteristic whose value attribute
// sits at handle, or nil.
func (db *Database) FindCharacteristic(handle uint16) *Characteristic {
	db.mu.RLock()
	defer db.mu.RUnlock()

	c, isCCC := db.lookupLocked(handle)
	if isCCC {
		return nil
	}
	return c
}

// lookupLocked resolves handle to the owning characteristic. The second
// result is true when handle addresses the CCC descriptor rather than
// the value attribute.
func (db *Database) lookupLocked(handle uint16) (*Characteristic, bool) {
	for _, s := range db.services {
		for _, c := range s.characteristics {
			if c.valueHandle == handle {
				return c, false
			}
			if c.cccHandle != 0 && c.cccHandle == handle {
				return c, true
			}
		}
	}
	return nil, false
}

// Read resolves handle and produces the attribute value as the peer on
// conn would see it.
func (db *Database) Read(conn Conn, handle uint16, offset int) ([]byte, AttError) {
	db.mu.RLock()
	c, isCCC := db.lookupLocked(handle)
	if c == nil {
		db.mu.RUnlock()
		return nil, ErrInvalidHandle
	}
	if isCCC {
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], c.ccc[connKey(conn)])
		db.mu.RUnlock()
		return buf[:], ErrSuccess
	}
	handler := c.readHandler
	props := c.props
	value := append([]byte(nil), c.value...)
	db.mu.RUnlock()

	if props&PropRead == 0 {
		return nil, ErrReadNotPermitted
	}
	if handler != nil {
		return handler(conn, offset)
	}
	return value, ErrSuccess
}

// Write resolves handle and applies the write. It returns only after
// the owning characteristic's handler has run to completion, including
// any notification the handler emitted, so the writer's response can
// never precede the broadcast it caused.
func (db *Database) Write(conn Conn, handle uint16, offset int, value []byte) AttError {
	db.mu.RLock()
	c, isCCC := db.lookupLocked(handle)
	if c == nil {
		db.mu.RUnlock()
		return ErrInvalidHandle
	}
	handler := c.writeHandler
	props := c.props
	db.mu.RUnlock()

	if isCCC {
		if len(value) != 2 {
			return ErrInvalidAttributeValueLen
		}
		db.mu.Lock()
		c.ccc[connKey(conn)] = binary.LittleEndian.Uint16(value)
		db.mu.Unlock()
		return ErrSuccess
	}

	if props&(PropWrite|PropWriteNoResponse) == 0 {
		return ErrWriteNotPermitted
	}
	if handler != nil {
		return handler(conn, offset, value)
	}

	db.mu.Lock()
	c.value = append([]byte(nil), value...)
	db.mu.Unlock()
	return ErrSuccess
}

// Notify broadcasts a new value for the characteristic value at handle
// to every notification observer. It does nothing when the handle does
// not resolve or the characteristic does not carry the notify property.
func (db *Database) Notify(handle uint16, value []byte, source Conn) {
	db.mu.RLock()
	c, isCCC := db.lookupLocked(handle)
	if c == nil || isCCC || c.props&PropNotify == 0 {
		db.mu.RUnlock()
		return
	}
	observers := make([]NotifyObserver, 0, len(db.observers))
	for _, ob := range db.observers {
		observers = append(observers, ob)
	}
	db.mu.RUnlock()

	v := append([]byte(nil), value...)
	for _, ob := range observers {
		ob(handle, v, source)
	}
}

// OnNotify registers an observer for notifications emitted through this
// database and returns its registration id.
func (db *Database) OnNotify(fn NotifyObserver) uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.nextObserver++
	id := db.nextObserver
	db.observers[id] = fn
	return id
}

// RemoveNotifyObserver drops a notification observer.
func (db *Database) RemoveNotifyObserver(id uint64) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.observers[id]; !ok {
		return false
	}
	delete(db.observers, id)
	return true
}

func connKey(conn Conn) string {
	if conn == nil {
		return ""
	}
	return conn.ID()
}

// ----------------------------------------------------------------------------
// Service
// ----------------------------------------------------------------------------

// AddCharacteristic appends a characteristic declaration and value
// attribute to the service. read and write may be nil; a characteristic
// without handlers stores written values and serves them back.
func (s *Service) AddCharacteristic(u UUID16, props Props, read ReadHandler, write WriteHandler) *Characteristic {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	c := &Characteristic{
		service:      s,
		uuid:         u,
		props:        props,
		declHandle:   db.nextHandle,
		valueHandle:  db.nextHandle + 1,
		readHandler:  read,
		writeHandler: write,
	}
	db.nextHandle += 2
	s.characteristics = append(s.characteristics, c)
	s.endHandle = db.nextHandle - 1
	return c
}

// AddCCC appends a Client Characteristic Configuration descriptor to
// the most recently added characteristic and returns the descriptor
// handle, or 0 when the service has no characteristic yet.
func (s *Service) AddCCC() uint16 {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(s.characteristics) == 0 {
		return 0
	}
	c := s.characteristics[len(s.characteristics)-1]
	if c.cccHandle != 0 {
		return c.cccHandle
	}
	c.cccHandle = db.nextHandle
	c.ccc = make(map[string]uint16)
	db.nextHandle++
	s.endHandle = db.nextHandle - 1
	return c.cccHandle
}

// AddIncluded records inc as an included service of s.
func (s *Service) AddIncluded(inc *Service) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()

	s.includes = append(s.includes, inc)
}

// Includes returns the services included by s.
func (s *Service) Includes() []*Service {
	db := s.db
	db.mu.RLock()
	defer db.mu.RUnlock()

	return append([]*Service(nil), s.includes...)
}

// SetActive marks the service visible (or invisible) to discovery.
func (s *Service) SetActive(active bool) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.active = active
}

// Active reports whether the service is visible to discovery.
func (s *Service) Active() bool {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.active
}

// SetClaimed marks the service as consumed by a profile implementation.
func (s *Service) SetClaimed(claimed bool) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.claimed = claimed
}

// Claimed reports whether a profile implementation has claimed the service.
func (s *Service) Claimed() bool {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.claimed
}

// UUID returns the service UUID.
func (s *Service) UUID() UUID16 { return s.uuid }

// Primary reports whether this is a primary service declaration.
func (s *Service) Primary() bool { return s.primary }

// Handle returns the service declaration handle.
func (s *Service) Handle() uint16 {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.handle
}

// EndHandle returns the last handle allocated to the service.
func (s *Service) EndHandle() uint16 {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.endHandle
}

// ForEachCharacteristic calls fn for every characteristic of the
// service, in registration order.
func (s *Service) ForEachCharacteristic(fn func(*Characteristic)) {
	s.db.mu.RLock()
	chars := append([]*Characteristic(nil), s.characteristics...)
	s.db.mu.RUnlock()

	for _, c := range chars {
		fn(c)
	}
}

// ----------------------------------------------------------------------------
// Characteristic
// ----------------------------------------------------------------------------

// UUID returns the characteristic UUID.
func (c *Characteristic) UUID() UUID16 { return c.uuid }

// Properties returns the declared property bitmask.
func (c *Characteristic) Properties() Props { return c.props }

// Handle returns the characteristic declaration handle.
func (c *Characteristic) Handle() uint16 { return c.declHandle }

// ValueHandle returns the handle of the value attribute.
func (c *Characteristic) ValueHandle() uint16 { return c.valueHandle }

// CCCHandle returns the handle of the CCC descriptor, 0 if none.
func (c *Characteristic) CCCHandle() uint16 {
	c.service.db.mu.RLock()
	defer c.service.db.mu.RUnlock()
	return c.cccHandle
}

// CCC returns the CCC bits conn has configured, 0 when unconfigured or
// when the characteristic has no CCC descriptor.
func (c *Characteristic) CCC(conn Conn) uint16 {
	c.service.db.mu.RLock()
	defer c.service.db.mu.RUnlock()
	return c.ccc[connKey(conn)]
}

// Service returns the service the characteristic belongs to.
func (c *Characteristic) Service() *Service { return c.service }
