package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see protocol events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
		slog.String("role", event.Role.String()),
	}

	// Add type-specific attributes
	switch {
	case event.ControlWrite != nil:
		attrs = append(attrs,
			slog.String("service", event.ControlWrite.Service.String()),
			slog.String("opcode", event.ControlWrite.OpcodeName()),
			slog.String("operand", hex.EncodeToString(event.ControlWrite.Operand)),
			slog.String("result", event.ControlWrite.Result.Error()),
		)
	case event.StateNotify != nil:
		attrs = append(attrs,
			slog.String("service", event.StateNotify.Service.String()),
			slog.String("characteristic", event.StateNotify.Characteristic.String()),
			slog.String("value", hex.EncodeToString(event.StateNotify.Value)),
		)
	case event.Discovery != nil:
		attrs = append(attrs,
			slog.String("service", event.Discovery.Service.String()),
			slog.Uint64("handle", uint64(event.Discovery.Handle)),
		)
		if event.Discovery.Characteristic != 0 {
			attrs = append(attrs, slog.String("characteristic", event.Discovery.Characteristic.String()))
		}
	case event.SessionState != nil:
		attrs = append(attrs,
			slog.String("old_state", event.SessionState.Old),
			slog.String("new_state", event.SessionState.New),
		)
		if event.SessionState.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.SessionState.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
