package interactive

import (
	"bytes"
	"testing"
)

func TestParseVolumeSetting(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    uint8
		wantErr bool
	}{
		{"zero", []string{"0"}, 0, false},
		{"max", []string{"255"}, 255, false},
		{"mid", []string{"120"}, 120, false},
		{"too large", []string{"256"}, 0, true},
		{"negative", []string{"-1"}, 0, true},
		{"not a number", []string{"loud"}, 0, true},
		{"no args", nil, 0, true},
		{"extra args", []string{"1", "2"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVolumeSetting(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVolumeSetting(%v) error = %v, wantErr %t", tt.args, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseVolumeSetting(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseVolumeOffset(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int16
		wantErr bool
	}{
		{"zero", []string{"0"}, 0, false},
		{"min", []string{"-255"}, -255, false},
		{"max", []string{"255"}, 255, false},
		{"below min", []string{"-256"}, 0, true},
		{"above max", []string{"256"}, 0, true},
		{"not a number", []string{"left"}, 0, true},
		{"no args", nil, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVolumeOffset(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVolumeOffset(%v) error = %v, wantErr %t", tt.args, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseVolumeOffset(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseRawPDU(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []byte
		wantErr bool
	}{
		{"separate bytes", []string{"04", "0a", "78"}, []byte{0x04, 0x0a, 0x78}, false},
		{"joined", []string{"040a78"}, []byte{0x04, 0x0a, 0x78}, false},
		{"single byte", []string{"06"}, []byte{0x06}, false},
		{"odd length", []string{"040"}, nil, true},
		{"not hex", []string{"zz"}, nil, true},
		{"empty", []string{""}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRawPDU(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRawPDU(%v) error = %v, wantErr %t", tt.args, err, tt.wantErr)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("parseRawPDU(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
