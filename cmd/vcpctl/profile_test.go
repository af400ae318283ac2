package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vcp-protocol/vcp-go/pkg/vcp"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

func TestParseProfile(t *testing.T) {
	data := []byte(`
audio_locations:
  - front-left
  - front-right
output_description: "Living Room"
volume_flags: user-set
`)
	p, err := ParseProfile(data)
	if err != nil {
		t.Fatalf("ParseProfile() error = %v", err)
	}

	cfg, err := p.ServiceConfig()
	if err != nil {
		t.Fatalf("ServiceConfig() error = %v", err)
	}
	if want := wire.LocationFrontLeft | wire.LocationFrontRight; cfg.AudioLocation != want {
		t.Errorf("AudioLocation = %v, want %v", cfg.AudioLocation, want)
	}
	if cfg.OutputDescription != "Living Room" {
		t.Errorf("OutputDescription = %q, want %q", cfg.OutputDescription, "Living Room")
	}
	if cfg.VolumeFlags != wire.VolumeFlagsUserSet {
		t.Errorf("VolumeFlags = %v, want VolumeFlagsUserSet", cfg.VolumeFlags)
	}
}

func TestParseProfileEmptyUsesDefaults(t *testing.T) {
	p, err := ParseProfile([]byte("{}"))
	if err != nil {
		t.Fatalf("ParseProfile() error = %v", err)
	}

	cfg, err := p.ServiceConfig()
	if err != nil {
		t.Fatalf("ServiceConfig() error = %v", err)
	}
	if want := vcp.DefaultServiceConfig(); cfg != want {
		t.Errorf("ServiceConfig() = %+v, want defaults %+v", cfg, want)
	}
}

func TestParseProfileResetFlags(t *testing.T) {
	p, err := ParseProfile([]byte("volume_flags: reset\n"))
	if err != nil {
		t.Fatalf("ParseProfile() error = %v", err)
	}

	cfg, err := p.ServiceConfig()
	if err != nil {
		t.Fatalf("ServiceConfig() error = %v", err)
	}
	if cfg.VolumeFlags != wire.VolumeFlagsReset {
		t.Errorf("VolumeFlags = %v, want VolumeFlagsReset", cfg.VolumeFlags)
	}
}

func TestParseProfileUnknownLocation(t *testing.T) {
	p, err := ParseProfile([]byte("audio_locations: [somewhere]\n"))
	if err != nil {
		t.Fatalf("ParseProfile() error = %v", err)
	}

	if _, err := p.ServiceConfig(); err == nil || !strings.Contains(err.Error(), "unknown audio location") {
		t.Errorf("ServiceConfig() error = %v, want unknown audio location", err)
	}
}

func TestParseProfileUnknownFlags(t *testing.T) {
	p, err := ParseProfile([]byte("volume_flags: persisted\n"))
	if err != nil {
		t.Fatalf("ParseProfile() error = %v", err)
	}

	if _, err := p.ServiceConfig(); err == nil || !strings.Contains(err.Error(), "unknown volume flags") {
		t.Errorf("ServiceConfig() error = %v, want unknown volume flags", err)
	}
}

func TestParseProfileBadYAML(t *testing.T) {
	if _, err := ParseProfile([]byte("audio_locations: [")); err == nil {
		t.Error("ParseProfile() error = nil, want parse error")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := LoadProfile(path); err == nil {
		t.Error("LoadProfile() error = nil, want read error")
	}
}
