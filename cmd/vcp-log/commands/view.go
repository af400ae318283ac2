// Package commands implements the vcp-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/log"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer     *log.Layer
	Direction *log.Direction
	Category  *log.Category
	Role      *log.Role
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [conn:id] DIRECTION LAYER ROLE Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	connID := shortenConnID(event.ConnectionID)
	dir := event.Direction.String()

	// Determine event type label
	var typeLabel string
	switch {
	case event.ControlWrite != nil:
		typeLabel = event.ControlWrite.OpcodeName()
	case event.StateNotify != nil:
		typeLabel = "Notify"
	case event.Discovery != nil:
		typeLabel = "Discovery"
	case event.SessionState != nil:
		typeLabel = "Session"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [conn:%s] %-3s %-7s %-6s %s\n",
		ts, connID, dir, event.Layer.String(), event.Role.String(), typeLabel)

	// Type-specific details
	switch {
	case event.ControlWrite != nil:
		formatControlWriteDetails(w, event.ControlWrite)
	case event.StateNotify != nil:
		formatStateNotifyDetails(w, event.StateNotify)
	case event.Discovery != nil:
		formatDiscoveryDetails(w, event.Discovery)
	case event.SessionState != nil:
		formatSessionStateDetails(w, event.SessionState)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// serviceName returns the display name of a service assigned number.
func serviceName(u gatt.UUID16) string {
	switch u {
	case wire.VolumeControlServiceUUID:
		return "Volume Control"
	case wire.VolumeOffsetControlServiceUUID:
		return "Volume Offset Control"
	default:
		return fmt.Sprintf("0x%04X", uint16(u))
	}
}

// characteristicName returns the display name of a characteristic
// assigned number.
func characteristicName(u gatt.UUID16) string {
	switch u {
	case wire.VolumeStateUUID:
		return "Volume State"
	case wire.VolumeControlPointUUID:
		return "Volume Control Point"
	case wire.VolumeFlagsUUID:
		return "Volume Flags"
	case wire.VolumeOffsetStateUUID:
		return "Volume Offset State"
	case wire.AudioLocationUUID:
		return "Audio Location"
	case wire.VolumeOffsetControlPointUUID:
		return "Volume Offset Control Point"
	case wire.AudioOutputDescriptionUUID:
		return "Audio Output Description"
	default:
		return fmt.Sprintf("0x%04X", uint16(u))
	}
}

// resultName returns the display name of a control point result code.
// The profile application codes get their profile names, everything
// else falls back to the ATT name.
func resultName(code gatt.AttError) string {
	switch code {
	case gatt.ErrSuccess:
		return "SUCCESS"
	case wire.ErrInvalidChangeCounter:
		return "INVALID_CHANGE_COUNTER"
	case wire.ErrOpcodeNotSupported:
		return "OPCODE_NOT_SUPPORTED"
	case wire.ErrValueOutOfRange:
		return "VALUE_OUT_OF_RANGE"
	default:
		return code.Error()
	}
}

// formatControlWriteDetails writes control point write details.
func formatControlWriteDetails(w io.Writer, cw *log.ControlWriteEvent) {
	fmt.Fprintf(w, "  Service: %s\n", serviceName(cw.Service))
	fmt.Fprintf(w, "  Opcode: %s (0x%02X)\n", cw.OpcodeName(), cw.Opcode)
	if len(cw.Operand) > 0 {
		fmt.Fprintf(w, "  Operand: %s\n", hex.EncodeToString(cw.Operand))
	}
	fmt.Fprintf(w, "  Result: %s (0x%02X)\n", resultName(cw.Result), byte(cw.Result))
}

// formatStateNotifyDetails writes notification details, decoding the
// value when the characteristic layout is known.
func formatStateNotifyDetails(w io.Writer, sn *log.StateNotifyEvent) {
	fmt.Fprintf(w, "  Characteristic: %s\n", characteristicName(sn.Characteristic))
	if len(sn.Value) > 0 {
		fmt.Fprintf(w, "  Value: %s\n", hex.EncodeToString(sn.Value))
	}

	switch sn.Characteristic {
	case wire.VolumeStateUUID:
		if st, err := wire.ParseVolumeState(sn.Value); err == nil {
			fmt.Fprintf(w, "  Setting: %d  Mute: %t  Counter: %d\n", st.Setting, st.Mute, st.Counter)
		}
	case wire.VolumeFlagsUUID:
		if flags, err := wire.ParseVolumeFlags(sn.Value); err == nil {
			fmt.Fprintf(w, "  Flags: %s\n", flags.String())
		}
	case wire.VolumeOffsetStateUUID:
		if st, err := wire.ParseVolumeOffsetState(sn.Value); err == nil {
			fmt.Fprintf(w, "  Offset: %d  Counter: %d\n", st.Offset, st.Counter)
		}
	case wire.AudioLocationUUID:
		if loc, err := wire.ParseAudioLocation(sn.Value); err == nil {
			fmt.Fprintf(w, "  Location: %s\n", loc.String())
		}
	case wire.AudioOutputDescriptionUUID:
		fmt.Fprintf(w, "  Description: %q\n", string(sn.Value))
	}
}

// formatDiscoveryDetails writes remote database bind details.
func formatDiscoveryDetails(w io.Writer, d *log.DiscoveryEvent) {
	fmt.Fprintf(w, "  Service: %s\n", serviceName(d.Service))
	if d.Characteristic != 0 {
		fmt.Fprintf(w, "  Characteristic: %s\n", characteristicName(d.Characteristic))
	}
	fmt.Fprintf(w, "  Handle: 0x%04X\n", d.Handle)
}

// formatSessionStateDetails writes session lifecycle details.
func formatSessionStateDetails(w io.Writer, ss *log.SessionStateEvent) {
	if ss.Old != "" {
		fmt.Fprintf(w, "  %s -> %s\n", ss.Old, ss.New)
	} else {
		fmt.Fprintf(w, "  -> %s\n", ss.New)
	}
	if ss.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", ss.Reason)
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// filterEvents returns events matching the filter criteria.
func filterEvents(events []log.Event, filter ViewFilter) []log.Event {
	var result []log.Event
	for _, e := range events {
		if filter.Layer != nil && e.Layer != *filter.Layer {
			continue
		}
		if filter.Direction != nil && e.Direction != *filter.Direction {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.Role != nil && e.Role != *filter.Role {
			continue
		}
		result = append(result, e)
	}
	return result
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	return parseLayer(s)
}

// parseLayer parses a layer string (case-insensitive).
func parseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "gatt":
		return log.LayerGatt, nil
	case "profile":
		return log.LayerProfile, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be gatt or profile)", s)
	}
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return parseDirection(s)
}

// parseDirection parses a direction string (case-insensitive).
func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

// parseCategory parses a category string (case-insensitive).
func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, state, or error)", s)
	}
}

// ParseRoleFlag parses a role string from command-line flag (case-insensitive).
func ParseRoleFlag(s string) (log.Role, error) {
	return parseRole(s)
}

// parseRole parses a role string (case-insensitive).
func parseRole(s string) (log.Role, error) {
	switch strings.ToLower(s) {
	case "server":
		return log.RoleServer, nil
	case "client":
		return log.RoleClient, nil
	default:
		return 0, fmt.Errorf("invalid role: %s (must be server or client)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		// Apply filter
		if filter.Layer != nil && event.Layer != *filter.Layer {
			continue
		}
		if filter.Direction != nil && event.Direction != *filter.Direction {
			continue
		}
		if filter.Category != nil && event.Category != *filter.Category {
			continue
		}
		if filter.Role != nil && event.Role != *filter.Role {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}
