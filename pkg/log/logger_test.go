package log

import (
	"testing"
	"time"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	// Should not panic with any event type
	event := Event{
		Timestamp:    time.Now(),
		ConnectionID: "test-conn",
		Direction:    DirectionIn,
		Layer:        LayerGatt,
		Category:     CategoryMessage,
	}

	// Test with nil payloads
	logger.Log(event)

	// Test with control write payload
	event.ControlWrite = &ControlWriteEvent{
		Service: wire.VolumeControlServiceUUID,
		Opcode:  uint8(wire.RelativeVolumeUp),
		Operand: []byte{0x00},
		Result:  gatt.ErrSuccess,
	}
	logger.Log(event)

	// Test with state notify payload
	event.ControlWrite = nil
	event.StateNotify = &StateNotifyEvent{
		Service:        wire.VolumeControlServiceUUID,
		Characteristic: wire.VolumeStateUUID,
		Value:          []byte{0x64, 0x00, 0x01},
	}
	logger.Log(event)

	// Test with discovery payload
	event.StateNotify = nil
	event.Discovery = &DiscoveryEvent{Service: wire.VolumeOffsetControlServiceUUID, Handle: 0x0002}
	logger.Log(event)

	// Test with session state payload
	event.Discovery = nil
	event.SessionState = &SessionStateEvent{Old: "detached", New: "attached"}
	logger.Log(event)

	// Test with error payload
	event.SessionState = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	// Compile-time check that NoopLogger satisfies Logger interface
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	// NoopLogger should be usable as zero value
	var logger NoopLogger
	logger.Log(Event{})
}
