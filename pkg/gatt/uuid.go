package gatt

import "fmt"

// UUID16 is a 16-bit Bluetooth SIG assigned UUID.
type UUID16 uint16

// String returns the UUID in 0xXXXX form.
func (u UUID16) String() string {
	return fmt.Sprintf("0x%04X", uint16(u))
}

// DescriptorCCC is the Client Characteristic Configuration descriptor UUID.
const DescriptorCCC UUID16 = 0x2902
