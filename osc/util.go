package osc

import (
	"bytes"
	"errors"
	"sync"
)

const (
	// MaxPacketSize is the largest datagram the Server will read.
	MaxPacketSize = 65507

	bit32Size = 4
)

var (
	// ErrInvalidAddress is returned when encoding a message whose address
	// is empty or does not start with '/'.
	ErrInvalidAddress = errors.New("osc: invalid address")

	// ErrMalformedMessage is returned when decoding corrupt or truncated
	// message bytes.
	ErrMalformedMessage = errors.New("osc: malformed message")
)

////
// Utility and helper functions
////
var (
	bufPool = sync.Pool{
		New: func() interface{} {
			return bytes.NewBuffer(make([]byte, 0, 1024))
		},
	}
	packetPool = sync.Pool{
		New: func() interface{} {
			b := make([]byte, MaxPacketSize)
			return &b
		},
	}
	empty = [bit32Size]byte{}
)
