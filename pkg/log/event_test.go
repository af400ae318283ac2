package log

import (
	"testing"

	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

func TestDirectionString(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirectionIn, "IN"},
		{DirectionOut, "OUT"},
		{Direction(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.dir.String()
		if got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.dir, got, tt.want)
		}
	}
}

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerGatt, "GATT"},
		{LayerProfile, "PROFILE"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.layer.String()
		if got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryMessage, "MESSAGE"},
		{CategoryState, "STATE"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.cat.String()
		if got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestRoleString(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleServer, "SERVER"},
		{RoleClient, "CLIENT"},
		{Role(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.role.String()
		if got != tt.want {
			t.Errorf("Role(%d).String() = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestDirectionValues(t *testing.T) {
	// Verify explicit values for wire stability
	if DirectionIn != 0 {
		t.Errorf("DirectionIn = %d, want 0", DirectionIn)
	}
	if DirectionOut != 1 {
		t.Errorf("DirectionOut = %d, want 1", DirectionOut)
	}
}

func TestLayerValues(t *testing.T) {
	// Verify explicit values for wire stability
	if LayerGatt != 0 {
		t.Errorf("LayerGatt = %d, want 0", LayerGatt)
	}
	if LayerProfile != 1 {
		t.Errorf("LayerProfile = %d, want 1", LayerProfile)
	}
}

func TestCategoryValues(t *testing.T) {
	// Verify explicit values for wire stability
	if CategoryMessage != 0 {
		t.Errorf("CategoryMessage = %d, want 0", CategoryMessage)
	}
	if CategoryState != 1 {
		t.Errorf("CategoryState = %d, want 1", CategoryState)
	}
	if CategoryError != 2 {
		t.Errorf("CategoryError = %d, want 2", CategoryError)
	}
}

func TestRoleValues(t *testing.T) {
	// Verify explicit values for wire stability
	if RoleServer != 0 {
		t.Errorf("RoleServer = %d, want 0", RoleServer)
	}
	if RoleClient != 1 {
		t.Errorf("RoleClient = %d, want 1", RoleClient)
	}
}

func TestControlWriteOpcodeName(t *testing.T) {
	tests := []struct {
		name  string
		event ControlWriteEvent
		want  string
	}{
		{
			"volume opcode",
			ControlWriteEvent{Service: wire.VolumeControlServiceUUID, Opcode: 0x01},
			"RELATIVE_VOLUME_UP",
		},
		{
			"offset opcode",
			ControlWriteEvent{Service: wire.VolumeOffsetControlServiceUUID, Opcode: 0x01},
			"SET_VOLUME_OFFSET",
		},
		{
			"unknown volume opcode",
			ControlWriteEvent{Service: wire.VolumeControlServiceUUID, Opcode: 0x7F},
			"UNKNOWN",
		},
		{
			"foreign service",
			ControlWriteEvent{Service: 0x180F, Opcode: 0x01},
			"UNKNOWN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.OpcodeName(); got != tt.want {
				t.Errorf("OpcodeName() = %q, want %q", got, tt.want)
			}
		})
	}
}
