package wire

import "github.com/vcp-protocol/vcp-go/pkg/gatt"

// 16-bit assigned numbers for the volume control services and their
// characteristics.
const (
	// VolumeControlServiceUUID identifies the Volume Control Service.
	VolumeControlServiceUUID gatt.UUID16 = 0x1844

	// VolumeOffsetControlServiceUUID identifies the Volume Offset
	// Control Service.
	VolumeOffsetControlServiceUUID gatt.UUID16 = 0x1845

	// VolumeStateUUID identifies the Volume State characteristic.
	VolumeStateUUID gatt.UUID16 = 0x2B7D

	// VolumeControlPointUUID identifies the Volume Control Point
	// characteristic.
	VolumeControlPointUUID gatt.UUID16 = 0x2B7E

	// VolumeFlagsUUID identifies the Volume Flags characteristic.
	VolumeFlagsUUID gatt.UUID16 = 0x2B7F

	// VolumeOffsetStateUUID identifies the Volume Offset State
	// characteristic.
	VolumeOffsetStateUUID gatt.UUID16 = 0x2B80

	// AudioLocationUUID identifies the Audio Location characteristic.
	AudioLocationUUID gatt.UUID16 = 0x2B81

	// VolumeOffsetControlPointUUID identifies the Volume Offset Control
	// Point characteristic.
	VolumeOffsetControlPointUUID gatt.UUID16 = 0x2B82

	// AudioOutputDescriptionUUID identifies the Audio Output Description
	// characteristic.
	AudioOutputDescriptionUUID gatt.UUID16 = 0x2B83
)
