package gatt

import (
	"sync"

	"github.com/google/uuid"
)

// LoopbackConn is an in-process ATT bearer. It pairs with
// LoopbackClient to run the client and server roles against the same
// Database without a transport underneath.
type LoopbackConn struct {
	id   string
	disp *dispatcher

	mu         sync.Mutex
	closed     bool
	disconnect []func(error)
}

// LoopbackClient executes GATT client operations directly against a
// local Database. Clones share the bearer and dispatch goroutine but
// keep their own request and subscription scope.
type LoopbackClient struct {
	db   *Database
	conn *LoopbackConn
	disp *dispatcher

	mu      sync.Mutex
	closed  bool
	gen     uint64
	nextReq RequestID
	nextSub SubscriptionID
	subs    map[SubscriptionID]*loopbackSub
}

type loopbackSub struct {
	observer   uint64
	unregister UnregisterFunc
}

// NewLoopback creates a connected in-process bearer and a client that
// executes its operations against db. The dispatch goroutine serving
// the pair runs until the conn is closed.
func NewLoopback(db *Database) (*LoopbackConn, *LoopbackClient) {
	disp := newDispatcher()
	conn := &LoopbackConn{
		id:   uuid.NewString(),
		disp: disp,
	}
	client := &LoopbackClient{
		db:   db,
		conn: conn,
		disp: disp,
		subs: make(map[SubscriptionID]*loopbackSub),
	}
	return conn, client
}

// ID returns the connection identifier.
func (c *LoopbackConn) ID() string {
	return c.id
}

// OnDisconnect registers fn to run once when the conn is closed.
func (c *LoopbackConn) OnDisconnect(fn func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.disconnect = append(c.disconnect, fn)
}

func (c *LoopbackConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close tears the bearer down. Disconnect callbacks run on the dispatch
// goroutine after any callbacks already queued, then the goroutine
// exits. Close is idempotent.
func (c *LoopbackConn) Close(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	fns := c.disconnect
	c.disconnect = nil
	c.mu.Unlock()

	c.disp.submit(func() {
		for _, fn := range fns {
			fn(err)
		}
	})
	c.disp.stop()
}

// ----------------------------------------------------------------------------
// LoopbackClient
// ----------------------------------------------------------------------------

// Conn returns the bearer this client operates on.
func (c *LoopbackClient) Conn() Conn {
	return c.conn
}

// Clone returns a client over the same bearer and dispatch goroutine
// with its own request and subscription scope.
func (c *LoopbackClient) Clone() Client {
	return &LoopbackClient{
		db:   c.db,
		conn: c.conn,
		disp: c.disp,
		subs: make(map[SubscriptionID]*loopbackSub),
	}
}

// ReadValue starts an asynchronous read of the value at handle.
func (c *LoopbackClient) ReadValue(handle uint16, fn ReadFunc) RequestID {
	if c.conn.isClosed() {
		return 0
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	c.nextReq++
	id := c.nextReq
	gen := c.gen
	c.mu.Unlock()

	c.disp.submit(func() {
		value, code := c.db.Read(c.conn, handle, 0)
		if fn == nil || !c.live(gen) {
			return
		}
		fn(code.IsSuccess(), code, value)
	})
	return id
}

// WriteValue starts an asynchronous write of the value at handle.
func (c *LoopbackClient) WriteValue(handle uint16, value []byte, fn WriteFunc) RequestID {
	if c.conn.isClosed() {
		return 0
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	c.nextReq++
	id := c.nextReq
	gen := c.gen
	c.mu.Unlock()

	v := append([]byte(nil), value...)
	c.disp.submit(func() {
		code := c.db.Write(c.conn, handle, 0, v)
		if fn == nil || !c.live(gen) {
			return
		}
		fn(code.IsSuccess(), code)
	})
	return id
}

// RegisterNotify subscribes to notifications of the value at handle.
// Like a real stack it writes the CCC descriptor before reporting the
// registration outcome.
func (c *LoopbackClient) RegisterNotify(handle uint16, registered RegisterFunc, notify NotifyFunc, unregistered UnregisterFunc) SubscriptionID {
	if c.conn.isClosed() {
		return 0
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0
	}
	c.nextSub++
	id := c.nextSub
	gen := c.gen
	c.mu.Unlock()

	obs := c.db.OnNotify(func(h uint16, value []byte, source Conn) {
		if h != handle {
			return
		}
		v := append([]byte(nil), value...)
		c.disp.submit(func() {
			if notify == nil || !c.subLive(id, gen) {
				return
			}
			notify(h, v)
		})
	})

	c.mu.Lock()
	if c.closed || c.gen != gen {
		c.mu.Unlock()
		c.db.RemoveNotifyObserver(obs)
		return 0
	}
	c.subs[id] = &loopbackSub{observer: obs, unregister: unregistered}
	c.mu.Unlock()

	c.disp.submit(func() {
		code := c.enableNotifications(handle)
		if !code.IsSuccess() {
			c.dropSub(id, false)
		}
		if registered == nil || !c.live(gen) {
			return
		}
		registered(code)
	})
	return id
}

// UnregisterNotify removes an active subscription and, if set, queues
// its unregistered callback.
func (c *LoopbackClient) UnregisterNotify(id SubscriptionID) bool {
	return c.dropSub(id, true)
}

// Close cancels this client's outstanding requests and removes its
// subscriptions. Queued completions for them are dropped; unregistered
// callbacks of removed subscriptions still run.
func (c *LoopbackClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.gen++
	subs := c.subs
	c.subs = make(map[SubscriptionID]*loopbackSub)
	c.mu.Unlock()

	for _, sub := range subs {
		c.db.RemoveNotifyObserver(sub.observer)
		if sub.unregister != nil {
			c.disp.submit(sub.unregister)
		}
	}
	return nil
}

// enableNotifications writes CCCNotify to the CCC descriptor of the
// characteristic owning handle.
func (c *LoopbackClient) enableNotifications(handle uint16) AttError {
	ch := c.db.FindCharacteristic(handle)
	if ch == nil {
		return ErrInvalidHandle
	}
	if ch.Properties()&PropNotify == 0 {
		return ErrRequestNotSupported
	}
	ccc := ch.CCCHandle()
	if ccc == 0 {
		return ErrSuccess
	}
	return c.db.Write(c.conn, ccc, 0, []byte{0x01, 0x00})
}

func (c *LoopbackClient) dropSub(id SubscriptionID, fireUnregister bool) bool {
	c.mu.Lock()
	sub, ok := c.subs[id]
	if ok {
		delete(c.subs, id)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	c.db.RemoveNotifyObserver(sub.observer)
	if fireUnregister && sub.unregister != nil {
		c.disp.submit(sub.unregister)
	}
	return true
}

func (c *LoopbackClient) live(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.gen == gen
}

func (c *LoopbackClient) subLive(id SubscriptionID, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.gen != gen {
		return false
	}
	_, ok := c.subs[id]
	return ok
}

// ----------------------------------------------------------------------------
// dispatcher
// ----------------------------------------------------------------------------

// dispatcher delivers queued callbacks on one goroutine in submission
// order. The queue is unbounded so submitters never block on delivery.
type dispatcher struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []func()
	stopped bool
}

func newDispatcher() *dispatcher {
	d := &dispatcher{}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

func (d *dispatcher) submit(fn func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.tasks = append(d.tasks, fn)
	d.mu.Unlock()
	d.cond.Signal()
}

// stop lets the run loop finish already queued tasks and exit. It does
// not wait for the drain.
func (d *dispatcher) stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.cond.Signal()
}

func (d *dispatcher) run() {
	for {
		d.mu.Lock()
		for len(d.tasks) == 0 && !d.stopped {
			d.cond.Wait()
		}
		if len(d.tasks) == 0 {
			d.mu.Unlock()
			return
		}
		fn := d.tasks[0]
		d.tasks = d.tasks[1:]
		d.mu.Unlock()

		fn()
	}
}
