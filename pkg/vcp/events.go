package vcp

import (
	"time"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/log"
)

// eventQueue collects protocol events built while the registry mutex is
// held so they can be delivered to the sink after it is released.
type eventQueue struct {
	sink   log.Logger
	events []log.Event
}

// newEventQueueLocked captures the current event sink. Caller holds the
// registry mutex.
func (r *Registry) newEventQueueLocked() *eventQueue {
	return &eventQueue{sink: r.eventLogger}
}

func (q *eventQueue) add(ev log.Event) {
	if q == nil || q.sink == nil {
		return
	}
	ev.Timestamp = time.Now()
	q.events = append(q.events, ev)
}

// flush delivers the queued events. Call with the registry mutex
// released.
func (q *eventQueue) flush() {
	if q == nil || q.sink == nil {
		return
	}
	for _, ev := range q.events {
		q.sink.Log(ev)
	}
	q.events = nil
}

func controlWriteEvent(connID string, dir log.Direction, role log.Role, service gatt.UUID16, opcode uint8, operand []byte, result gatt.AttError) log.Event {
	return log.Event{
		ConnectionID: connID,
		Direction:    dir,
		Layer:        log.LayerProfile,
		Category:     log.CategoryMessage,
		Role:         role,
		ControlWrite: &log.ControlWriteEvent{
			Service: service,
			Opcode:  opcode,
			Operand: append([]byte(nil), operand...),
			Result:  result,
		},
	}
}

func stateNotifyEvent(connID string, dir log.Direction, role log.Role, service, characteristic gatt.UUID16, value []byte) log.Event {
	return log.Event{
		ConnectionID: connID,
		Direction:    dir,
		Layer:        log.LayerProfile,
		Category:     log.CategoryState,
		Role:         role,
		StateNotify: &log.StateNotifyEvent{
			Service:        service,
			Characteristic: characteristic,
			Value:          append([]byte(nil), value...),
		},
	}
}

func discoveryEvent(connID string, service, characteristic gatt.UUID16, handle uint16) log.Event {
	return log.Event{
		ConnectionID: connID,
		Direction:    log.DirectionOut,
		Layer:        log.LayerGatt,
		Category:     log.CategoryMessage,
		Role:         log.RoleClient,
		Discovery: &log.DiscoveryEvent{
			Service:        service,
			Characteristic: characteristic,
			Handle:         handle,
		},
	}
}

func sessionStateEvent(connID string, role log.Role, oldState, newState, reason string) log.Event {
	return log.Event{
		ConnectionID: connID,
		Direction:    log.DirectionOut,
		Layer:        log.LayerProfile,
		Category:     log.CategoryState,
		Role:         role,
		SessionState: &log.SessionStateEvent{
			Old:    oldState,
			New:    newState,
			Reason: reason,
		},
	}
}

func errorEvent(connID string, role log.Role, message, context string) log.Event {
	return log.Event{
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Layer:        log.LayerProfile,
		Category:     log.CategoryError,
		Role:         role,
		Error: &log.ErrorEventData{
			Message: message,
			Context: context,
		},
	}
}
