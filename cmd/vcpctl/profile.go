package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vcp-protocol/vcp-go/pkg/vcp"
	"github.com/vcp-protocol/vcp-go/pkg/wire"
)

// Profile describes the rendering device this tool exposes. Fields left
// empty fall back to the service defaults.
type Profile struct {
	// AudioLocations lists spatial position names, e.g. "front-left".
	// Multiple entries are combined into one bitmask.
	AudioLocations []string `yaml:"audio_locations"`

	// OutputDescription is the human-readable label of the output.
	OutputDescription string `yaml:"output_description"`

	// VolumeFlags is "reset" or "user-set".
	VolumeFlags string `yaml:"volume_flags"`
}

// ParseProfile parses a device profile from YAML bytes.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	return &p, nil
}

// LoadProfile loads and parses a device profile from a file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseProfile(data)
}

// ServiceConfig converts the profile into a service configuration,
// keeping the defaults for unset fields.
func (p *Profile) ServiceConfig() (vcp.ServiceConfig, error) {
	cfg := vcp.DefaultServiceConfig()

	if len(p.AudioLocations) > 0 {
		var loc wire.AudioLocation
		for _, name := range p.AudioLocations {
			flag, ok := wire.LocationByName(name)
			if !ok {
				return cfg, fmt.Errorf("unknown audio location: %s", name)
			}
			loc |= flag
		}
		cfg.AudioLocation = loc
	}

	if p.OutputDescription != "" {
		cfg.OutputDescription = p.OutputDescription
	}

	if p.VolumeFlags != "" {
		switch strings.ToLower(p.VolumeFlags) {
		case "reset":
			cfg.VolumeFlags = wire.VolumeFlagsReset
		case "user-set", "userset":
			cfg.VolumeFlags = wire.VolumeFlagsUserSet
		default:
			return cfg, fmt.Errorf("unknown volume flags: %s (use: reset, user-set)", p.VolumeFlags)
		}
	}

	return cfg, nil
}
