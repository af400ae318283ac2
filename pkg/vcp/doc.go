// Package vcp implements the Volume Control Profile state machines: the
// Volume Control Service (VCS) and the Volume Offset Control Service
// (VOCS), in both roles.
//
// # Server Role
//
// A Registry binds a gatt.Database to one VCS instance and one VOCS
// instance. Registration publishes the VOCS attributes first (the VCS
// includes the VOCS as a secondary service), then the VCS attributes.
// Remote control-point writes arrive through the database's write
// handlers and run the opcode engine: offset and length validation,
// change-counter check, mutation, counter increment, and a notification
// carrying the new state. The Mute opcode is the intentional exception:
// it increments the counter without a notification, so peers observe
// the change on their next read.
//
// # Change Counter
//
// Every control-point operand leads with the writer's copy of the
// 8-bit change counter. A stale counter is rejected with
// wire.ErrInvalidChangeCounter and leaves the state untouched; the
// writer is expected to re-read the state and retry. Each accepted
// write increments the counter, wrapping 255 to 0.
//
// # Client Role
//
// A Session created with NewSession and attached with a gatt.Client
// discovers the peer's VCS and VOCS attributes, issues initial reads,
// and subscribes to notifications. Decoded values keep a local mirror
// of the peer state current and feed the ClientEvents hooks. Commands
// such as Session.SetAbsoluteVolume encode the control-point operand
// using the mirrored change counter and report the peer's result code.
//
// # Lifecycle
//
// Server-role sessions are created lazily on the first control-point
// write observed on a connection and torn down when it disconnects.
// Detaching a session cancels its in-flight reads and subscriptions;
// none of their callbacks fire afterwards. Attach and detach observers
// registered with Registry.Observe see every session transition.
package vcp
