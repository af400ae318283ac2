package wire

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// AudioLocation is the Audio Location characteristic value, a bitmask
// of spatial positions served by the audio output.
type AudioLocation uint32

const (
	LocationNA                 AudioLocation = 1 << 0
	LocationFrontLeft          AudioLocation = 1 << 1
	LocationFrontRight         AudioLocation = 1 << 2
	LocationFrontCenter        AudioLocation = 1 << 3
	LocationLowFreqEffects1    AudioLocation = 1 << 4
	LocationBackLeft           AudioLocation = 1 << 5
	LocationBackRight          AudioLocation = 1 << 6
	LocationFrontLeftCenter    AudioLocation = 1 << 7
	LocationFrontRightCenter   AudioLocation = 1 << 8
	LocationBackCenter         AudioLocation = 1 << 9
	LocationLowFreqEffects2    AudioLocation = 1 << 10
	LocationSideLeft           AudioLocation = 1 << 11
	LocationSideRight          AudioLocation = 1 << 12
	LocationTopFrontLeft       AudioLocation = 1 << 13
	LocationTopFrontRight      AudioLocation = 1 << 14
	LocationTopFrontCenter     AudioLocation = 1 << 15
	LocationTopCenter          AudioLocation = 1 << 16
	LocationTopBackLeft        AudioLocation = 1 << 17
	LocationTopBackRight       AudioLocation = 1 << 18
	LocationTopSideLeft        AudioLocation = 1 << 19
	LocationTopSideRight       AudioLocation = 1 << 20
	LocationTopBackCenter      AudioLocation = 1 << 21
	LocationBottomFrontCenter  AudioLocation = 1 << 22
	LocationBottomFrontLeft    AudioLocation = 1 << 23
	LocationBottomFrontRight   AudioLocation = 1 << 24
	LocationFrontLeftWide      AudioLocation = 1 << 25
	LocationFrontRightWide     AudioLocation = 1 << 26
	LocationLeftSurround       AudioLocation = 1 << 27
	LocationRightSurround      AudioLocation = 1 << 28
)

var locationNames = []struct {
	flag AudioLocation
	name string
}{
	{LocationNA, "NA"},
	{LocationFrontLeft, "FRONT_LEFT"},
	{LocationFrontRight, "FRONT_RIGHT"},
	{LocationFrontCenter, "FRONT_CENTER"},
	{LocationLowFreqEffects1, "LOW_FREQ_EFFECTS_1"},
	{LocationBackLeft, "BACK_LEFT"},
	{LocationBackRight, "BACK_RIGHT"},
	{LocationFrontLeftCenter, "FRONT_LEFT_CENTER"},
	{LocationFrontRightCenter, "FRONT_RIGHT_CENTER"},
	{LocationBackCenter, "BACK_CENTER"},
	{LocationLowFreqEffects2, "LOW_FREQ_EFFECTS_2"},
	{LocationSideLeft, "SIDE_LEFT"},
	{LocationSideRight, "SIDE_RIGHT"},
	{LocationTopFrontLeft, "TOP_FRONT_LEFT"},
	{LocationTopFrontRight, "TOP_FRONT_RIGHT"},
	{LocationTopFrontCenter, "TOP_FRONT_CENTER"},
	{LocationTopCenter, "TOP_CENTER"},
	{LocationTopBackLeft, "TOP_BACK_LEFT"},
	{LocationTopBackRight, "TOP_BACK_RIGHT"},
	{LocationTopSideLeft, "TOP_SIDE_LEFT"},
	{LocationTopSideRight, "TOP_SIDE_RIGHT"},
	{LocationTopBackCenter, "TOP_BACK_CENTER"},
	{LocationBottomFrontCenter, "BOTTOM_FRONT_CENTER"},
	{LocationBottomFrontLeft, "BOTTOM_FRONT_LEFT"},
	{LocationBottomFrontRight, "BOTTOM_FRONT_RIGHT"},
	{LocationFrontLeftWide, "FRONT_LEFT_WIDE"},
	{LocationFrontRightWide, "FRONT_RIGHT_WIDE"},
	{LocationLeftSurround, "LEFT_SURROUND"},
	{LocationRightSurround, "RIGHT_SURROUND"},
}

// Has returns true if every position in flag is set.
func (l AudioLocation) Has(flag AudioLocation) bool {
	return l&flag == flag
}

// String returns the pipe-joined names of the set positions.
func (l AudioLocation) String() string {
	if l == 0 {
		return "NONE"
	}
	var parts []string
	for _, entry := range locationNames {
		if l&entry.flag != 0 {
			parts = append(parts, entry.name)
		}
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, "|")
}

// LocationByName returns the position flag for a canonical name such
// as "FRONT_LEFT". Matching is case-insensitive and accepts '-' in
// place of '_'.
func LocationByName(name string) (AudioLocation, bool) {
	want := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	for _, entry := range locationNames {
		if entry.name == want {
			return entry.flag, true
		}
	}
	return 0, false
}

// Marshal encodes the bitmask into its 4-byte layout.
func (l AudioLocation) Marshal() []byte {
	out := make([]byte, AudioLocationSize)
	binary.LittleEndian.PutUint32(out, uint32(l))
	return out
}

// ParseAudioLocation decodes an Audio Location value.
func ParseAudioLocation(data []byte) (AudioLocation, error) {
	if len(data) < AudioLocationSize {
		return 0, fmt.Errorf("audio location: need %d bytes, have %d: %w",
			AudioLocationSize, len(data), ErrTruncated)
	}
	return AudioLocation(binary.LittleEndian.Uint32(data)), nil
}
