// Package wire defines the characteristic value layouts and control
// point PDUs of the Volume Control and Volume Offset Control services.
//
// All multi-byte integers are little-endian. Characteristic values are
// fixed-size records:
//   - Volume State: setting, mute, change counter (3 bytes)
//   - Volume Flags: one byte
//   - Volume Offset State: signed 16-bit offset, change counter (3 bytes)
//   - Audio Location: 32-bit position bitmask (4 bytes)
//   - Audio Output Description: raw UTF-8, no terminator
//
// # Control Point PDUs
//
// A control point write carries an opcode byte followed by an operand
// whose size depends on the opcode; every operand starts with the
// writer's copy of the change counter. Writes that fail validation are
// answered with the application error codes defined here alongside the
// transport-standard ATT codes.
package wire
