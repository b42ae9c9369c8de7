package conduitx

import "errors"

var (
	ErrFinalized     = errors.New("conduitx: context already finalized")
	ErrNotInbound    = errors.New("conduitx: operation requires an inbound context")
	ErrNotOutbound   = errors.New("conduitx: operation requires an outbound context")
	ErrNoDestination = errors.New("conduitx: request descriptor has no destination")
	ErrNoBodyStream  = errors.New("conduitx: context has no body stream")
)
