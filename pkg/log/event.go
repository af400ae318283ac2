package log

import (
	"time"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// Event represents a protocol log event captured at either layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Role indicates whether the local endpoint renders or controls.
	Role Role `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	ControlWrite *ControlWriteEvent `cbor:"7,keyasint,omitempty"`  // Control point write + result
	StateNotify  *StateNotifyEvent  `cbor:"8,keyasint,omitempty"`  // State broadcast or delivery
	Discovery    *DiscoveryEvent    `cbor:"9,keyasint,omitempty"`  // Remote database bind
	SessionState *SessionStateEvent `cbor:"10,keyasint,omitempty"` // Session lifecycle
	Error        *ErrorEventData    `cbor:"11,keyasint,omitempty"` // Errors at either layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerGatt is the attribute layer (reads, writes, notifications).
	LayerGatt Layer = 0
	// LayerProfile is the volume control profile layer.
	LayerProfile Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerGatt:
		return "GATT"
	case LayerProfile:
		return "PROFILE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a protocol message (control write,
	// notification, discovery exchange).
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role indicates whether the local endpoint is the volume renderer or
// the volume controller.
type Role uint8

const (
	// RoleServer indicates the local endpoint serves the volume state.
	RoleServer Role = 0
	// RoleClient indicates the local endpoint mirrors a remote server.
	RoleClient Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleServer:
		return "SERVER"
	case RoleClient:
		return "CLIENT"
	default:
		return "UNKNOWN"
	}
}

// ControlWriteEvent captures a control point write and its outcome.
type ControlWriteEvent struct {
	// Service is the assigned number of the service owning the control
	// point.
	Service gatt.UUID16 `cbor:"1,keyasint"`

	// Opcode is the first PDU byte.
	Opcode uint8 `cbor:"2,keyasint"`

	// Operand is the remaining PDU bytes.
	Operand []byte `cbor:"3,keyasint,omitempty"`

	// Result is the ATT response code returned to the writer.
	Result gatt.AttError `cbor:"4,keyasint"`
}

// OpcodeName resolves the opcode byte against the owning service.
func (e *ControlWriteEvent) OpcodeName() string {
	switch e.Service {
	case wire.VolumeControlServiceUUID:
		return wire.VolumeOpcode(e.Opcode).String()
	case wire.VolumeOffsetControlServiceUUID:
		return wire.OffsetOpcode(e.Opcode).String()
	default:
		return "UNKNOWN"
	}
}

// StateNotifyEvent captures a characteristic state broadcast on the
// server side or a notification delivery on the client side.
type StateNotifyEvent struct {
	// Service is the assigned number of the owning service.
	Service gatt.UUID16 `cbor:"1,keyasint"`

	// Characteristic is the assigned number of the notified
	// characteristic.
	Characteristic gatt.UUID16 `cbor:"2,keyasint"`

	// Value is the notified characteristic value.
	Value []byte `cbor:"3,keyasint,omitempty"`
}

// DiscoveryEvent captures a remote service claim or characteristic bind.
type DiscoveryEvent struct {
	// Service is the assigned number of the discovered service.
	Service gatt.UUID16 `cbor:"1,keyasint"`

	// Characteristic is the assigned number of the bound
	// characteristic, zero for a service claim.
	Characteristic gatt.UUID16 `cbor:"2,keyasint,omitempty"`

	// Handle is the bound attribute handle.
	Handle uint16 `cbor:"3,keyasint"`
}

// SessionStateEvent captures session lifecycle transitions.
type SessionStateEvent struct {
	// Old is the previous state (may be empty).
	Old string `cbor:"1,keyasint,omitempty"`

	// New is the new state.
	New string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at either layer.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
