package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vcp-protocol/vcp-go/pkg/gatt"
	"github.com/vcp-protocol/vcp-go/pkg/log"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

func TestStatsCountsByLayer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerGatt, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerGatt, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerProfile, Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check layer counts
	if !strings.Contains(output, "GATT:") {
		t.Error("expected GATT layer in output")
	}
	if !strings.Contains(output, "PROFILE:") {
		t.Error("expected PROFILE layer in output")
	}
}

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryMessage},
		{Timestamp: ts, Category: log.CategoryState},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "test"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check category counts
	if !strings.Contains(output, "MESSAGE:") {
		t.Error("expected MESSAGE category in output")
	}
	if !strings.Contains(output, "STATE:") {
		t.Error("expected STATE category in output")
	}
	if !strings.Contains(output, "ERROR:") {
		t.Error("expected ERROR category in output")
	}
}

func TestStatsCountsConnections(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, ConnectionID: "conn-aaaa-bbbb", Category: log.CategoryMessage},
		{Timestamp: ts.Add(time.Second), ConnectionID: "conn-aaaa-bbbb", Category: log.CategoryMessage},
		{Timestamp: ts, ConnectionID: "conn-cccc-dddd", Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check connection count
	if !strings.Contains(output, "Connections: 2") {
		t.Errorf("expected 2 connections in output, got:\n%s", output)
	}

	// Check connection details
	if !strings.Contains(output, "[conn-aaa") {
		t.Error("expected conn-aaaa connection details")
	}
}

func TestStatsTotalEvents(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryMessage},
		{Timestamp: ts, Category: log.CategoryMessage},
		{Timestamp: ts, Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Total Events: 3") {
		t.Errorf("expected 3 total events in output, got:\n%s", output)
	}
}

func TestStatsTimeRange(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 28, 11, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: start, Category: log.CategoryMessage},
		{Timestamp: end, Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Duration:") {
		t.Error("expected Duration in output")
	}
	if !strings.Contains(output, "1h0m0s") {
		t.Errorf("expected 1h0m0s duration in output, got:\n%s", output)
	}
}

func TestStatsCommandCounts(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	accepted := &log.ControlWriteEvent{
		Service: wire.VolumeControlServiceUUID,
		Opcode:  byte(wire.RelativeVolumeUp),
		Operand: []byte{0x00},
		Result:  gatt.ErrSuccess,
	}
	rejected := &log.ControlWriteEvent{
		Service: wire.VolumeControlServiceUUID,
		Opcode:  byte(wire.RelativeVolumeUp),
		Operand: []byte{0x05},
		Result:  wire.ErrInvalidChangeCounter,
	}
	events := []log.Event{
		// Each command appears on both sides; only the server copy counts.
		{Timestamp: ts, ConnectionID: "conn-1", Role: log.RoleServer, Category: log.CategoryMessage, ControlWrite: accepted},
		{Timestamp: ts, ConnectionID: "conn-1", Role: log.RoleClient, Category: log.CategoryMessage, ControlWrite: accepted},
		{Timestamp: ts, ConnectionID: "conn-1", Role: log.RoleServer, Category: log.CategoryMessage, ControlWrite: rejected},
		{Timestamp: ts, ConnectionID: "conn-1", Role: log.RoleServer, Category: log.CategoryState, StateNotify: &log.StateNotifyEvent{
			Service:        wire.VolumeControlServiceUUID,
			Characteristic: wire.VolumeStateUUID,
			Value:          []byte{0x01, 0x00, 0x01},
		}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Commands: 2 (1 rejected)") {
		t.Errorf("expected command counts in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Notifications: 1") {
		t.Errorf("expected notification count in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Commands by Opcode:") {
		t.Errorf("expected opcode histogram in output, got:\n%s", output)
	}
	if !strings.Contains(output, "RELATIVE_VOLUME_UP:") {
		t.Errorf("expected RELATIVE_VOLUME_UP histogram row in output, got:\n%s", output)
	}
}

func TestStatsErrorCount(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryMessage},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "error 1"}},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "error 2"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Errors: 2") {
		t.Errorf("expected 2 errors in output, got:\n%s", output)
	}
}
