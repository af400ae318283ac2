package gatt

import "fmt"

// AttError is an Attribute Protocol result code as carried in an ATT
// Error Response. Codes 0x80-0x9F are application errors defined by a
// higher-layer profile; the volume control profile names its own in
// package wire.
type AttError byte

const (
	// ErrSuccess is the zero result of a successful operation.
	ErrSuccess AttError = 0x00

	// ErrInvalidHandle means the attribute handle is not valid on this server.
	ErrInvalidHandle AttError = 0x01

	// ErrReadNotPermitted means the attribute cannot be read.
	ErrReadNotPermitted AttError = 0x02

	// ErrWriteNotPermitted means the attribute cannot be written.
	ErrWriteNotPermitted AttError = 0x03

	// ErrInvalidPDU means the attribute PDU was malformed.
	ErrInvalidPDU AttError = 0x04

	// ErrAuthentication means the attribute requires authentication.
	ErrAuthentication AttError = 0x05

	// ErrRequestNotSupported means the server does not support the request.
	ErrRequestNotSupported AttError = 0x06

	// ErrInvalidOffset means the requested offset is past the end of the value.
	ErrInvalidOffset AttError = 0x07

	// ErrAuthorization means the attribute requires authorization.
	ErrAuthorization AttError = 0x08

	// ErrPrepareQueueFull means too many prepare writes have been queued.
	ErrPrepareQueueFull AttError = 0x09

	// ErrAttributeNotFound means no attribute exists in the given range.
	ErrAttributeNotFound AttError = 0x0A

	// ErrAttributeNotLong means the attribute cannot be read with a blob request.
	ErrAttributeNotLong AttError = 0x0B

	// ErrInsufficientKeySize means the encryption key size is too small.
	ErrInsufficientKeySize AttError = 0x0C

	// ErrInvalidAttributeValueLen means the value length is invalid for
	// the operation.
	ErrInvalidAttributeValueLen AttError = 0x0D

	// ErrUnlikely means the request failed for an unspecified reason.
	ErrUnlikely AttError = 0x0E

	// ErrInsufficientEncryption means the attribute requires encryption.
	ErrInsufficientEncryption AttError = 0x0F

	// ErrUnsupportedGroupType means the grouping attribute type is not supported.
	ErrUnsupportedGroupType AttError = 0x10

	// ErrInsufficientResources means the server lacks resources to complete
	// the request.
	ErrInsufficientResources AttError = 0x11
)

var attErrName = map[AttError]string{
	ErrSuccess:                  "success",
	ErrInvalidHandle:            "invalid handle",
	ErrReadNotPermitted:         "read not permitted",
	ErrWriteNotPermitted:        "write not permitted",
	ErrInvalidPDU:               "invalid PDU",
	ErrAuthentication:           "insufficient authentication",
	ErrRequestNotSupported:      "request not supported",
	ErrInvalidOffset:            "invalid offset",
	ErrAuthorization:            "insufficient authorization",
	ErrPrepareQueueFull:         "prepare queue full",
	ErrAttributeNotFound:        "attribute not found",
	ErrAttributeNotLong:         "attribute not long",
	ErrInsufficientKeySize:      "insufficient encryption key size",
	ErrInvalidAttributeValueLen: "invalid attribute value length",
	ErrUnlikely:                 "unlikely error",
	ErrInsufficientEncryption:   "insufficient encryption",
	ErrUnsupportedGroupType:     "unsupported group type",
	ErrInsufficientResources:    "insufficient resources",
}

// Error returns the code's name. Application codes without a core name
// render as "application error 0xNN".
func (e AttError) Error() string {
	if name, ok := attErrName[e]; ok {
		return name
	}
	if e >= 0x80 && e <= 0x9F {
		return fmt.Sprintf("application error 0x%02X", byte(e))
	}
	return fmt.Sprintf("unknown error 0x%02X", byte(e))
}

// IsSuccess returns true if the code indicates success.
func (e AttError) IsSuccess() bool {
	return e == ErrSuccess
}
