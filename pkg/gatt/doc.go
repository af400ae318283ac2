// Package gatt provides the generic GATT plumbing the volume control
// profile is built on: 16-bit UUIDs, ATT result codes, characteristic
// properties, an in-memory attribute database, and the Conn/Client
// collaborator interfaces a transport stack implements.
//
// The package is transport-agnostic. A production stack supplies Conn
// and Client implementations backed by a real ATT bearer; the in-memory
// Database and the loopback pair in this package cover tests, tooling,
// and single-process setups.
//
// # Attribute Database
//
// Database assigns consecutive handles in registration order: one for
// each service declaration, two for each characteristic (declaration
// plus value), one for each CCC descriptor. Reads and writes are routed
// to the owning characteristic's handlers; writes return the AttError
// the peer receives. A write handler runs to completion, including any
// Notify it emits, before Write returns, so a writer never sees its
// response ahead of the state broadcast it caused.
//
// # Loopback
//
// NewLoopback connects a Client to a local Database. All client
// callbacks are delivered asynchronously, in submission order, on a
// single dispatch goroutine, mirroring the event-loop delivery of a
// real stack.
package gatt
