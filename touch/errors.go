package touch

import (
	"errors"
)

var (
	// ErrUnresolvedAddress reports an inbound address that maps to no
	// control or parameter.
	ErrUnresolvedAddress = errors.New("touch: unresolved address")

	// ErrTransportUnavailable reports that the configured send path is not
	// connected.
	ErrTransportUnavailable = errors.New("touch: transport unavailable")
)
