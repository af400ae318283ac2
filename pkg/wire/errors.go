package wire

import "github.com/vcp-protocol/vcp-go/pkg/gatt"

// Application error codes returned from control point writes.
const (
	// ErrInvalidChangeCounter indicates the operand's change counter
	// did not match the current state. The writer should re-read the
	// state and retry.
	ErrInvalidChangeCounter gatt.AttError = 0x80

	// ErrOpcodeNotSupported indicates an unknown opcode or an operand
	// shorter than the opcode requires.
	ErrOpcodeNotSupported gatt.AttError = 0x81

	// ErrValueOutOfRange indicates an operand value outside the
	// accepted range.
	ErrValueOutOfRange gatt.AttError = 0x82
)
