package gatt

// RequestID correlates an asynchronous read or write with its
// completion callback. Zero means the submission failed.
type RequestID uint

// SubscriptionID identifies an active notification subscription.
// Zero means the registration failed.
type SubscriptionID uint

// ReadFunc receives the result of an asynchronous characteristic read.
type ReadFunc func(success bool, code AttError, value []byte)

// WriteFunc receives the result of an asynchronous characteristic write.
type WriteFunc func(success bool, code AttError)

// RegisterFunc receives the outcome of a notification registration.
// A success code means the subscription is active.
type RegisterFunc func(code AttError)

// NotifyFunc receives a notification for a subscribed characteristic
// value handle.
type NotifyFunc func(handle uint16, value []byte)

// UnregisterFunc runs after a notification subscription has ended.
type UnregisterFunc func()

// Conn represents one ATT bearer to a peer. Implementations must be
// comparable; sessions are keyed by Conn identity.
// Implemented by LoopbackConn.
type Conn interface {
	// ID returns a stable identifier for the connection, used for
	// correlation in logs and protocol event records.
	ID() string

	// OnDisconnect registers fn to run once when the connection closes.
	OnDisconnect(fn func(err error))
}

// Client performs characteristic operations against a remote database
// over one Conn. Callbacks are delivered asynchronously, in submission
// order, on the client's event context.
// Implemented by LoopbackClient.
type Client interface {
	// Conn returns the bearer this client operates on.
	Conn() Conn

	// Clone returns a new client sharing the same bearer and event
	// context with its own request and subscription scope.
	Clone() Client

	// ReadValue starts an asynchronous read of the characteristic value
	// at handle. Returns 0 if the request could not be submitted.
	ReadValue(handle uint16, fn ReadFunc) RequestID

	// WriteValue starts an asynchronous write of the characteristic
	// value at handle. Returns 0 if the request could not be submitted.
	WriteValue(handle uint16, value []byte, fn WriteFunc) RequestID

	// RegisterNotify subscribes to notifications of the characteristic
	// value at handle. registered reports the registration outcome,
	// notify runs for every delivered notification, unregistered may be
	// nil and runs after the subscription ends. Returns 0 if the
	// subscription could not be submitted.
	RegisterNotify(handle uint16, registered RegisterFunc, notify NotifyFunc, unregistered UnregisterFunc) SubscriptionID

	// UnregisterNotify removes an active subscription.
	UnregisterNotify(id SubscriptionID) bool

	// Close cancels this client's outstanding requests and removes its
	// subscriptions. The underlying Conn stays open; closing a clone
	// does not affect its siblings.
	Close() error
}

// Compile-time interface satisfaction checks.
var (
	_ Conn   = (*LoopbackConn)(nil)
	_ Client = (*LoopbackClient)(nil)
)
