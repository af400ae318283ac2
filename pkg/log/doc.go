// Package log provides structured protocol logging for the volume
// control services.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at both layers (gatt, profile). It is separate from
// operational logging (slog) - protocol capture provides a complete
// machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	reg.SetEventLogger(log.NewSlogAdapter(slog.Default()))
//
//	// For production: write to binary file
//	fl, _ := log.NewFileLogger("/var/log/vcp/session.vlog")
//	reg.SetEventLogger(fl)
//
//	// Both: use MultiLogger
//	reg.SetEventLogger(log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fl,
//	))
//
// # Event Types
//
// Events carry one payload each:
//   - ControlWriteEvent: a control point write and its response code
//   - StateNotifyEvent: a state broadcast or notification delivery
//   - DiscoveryEvent: a remote service claim or characteristic bind
//   - SessionStateEvent: session lifecycle transitions
//   - ErrorEventData: errors at either layer
//
// # File Format
//
// Log files use CBOR encoding with .vlog extension. The vcp-log CLI tool
// provides viewing, filtering, and stats.
package log
