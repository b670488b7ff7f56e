package domain

import "errors"

// Reject reasons. These strings are part of the wire contract: the dev
// control channel and its clients match on them, and the test suite asserts
// against them verbatim, so they are not to be reworded.
const (
	ReasonCapabilitiesAlreadySet   = "peer capabilities already set"
	ReasonCapabilitiesNotYetSet    = "peer capabilities are not yet set"
	ReasonTransportAlreadyExists   = "Transport already exists"
	ReasonTransportNotFound        = "Transport does not exist"
	ReasonProducerAlreadyExists    = "Producer already exists"
	ReasonProducerNotFound         = "Producer does not exist"
	ReasonConsumerNotFound         = "Consumer does not exist"
	ReasonMissingKind              = "missing kind"
	ReasonUnknownMethod            = "unknown method"
	ReasonTooManyRequests          = "too many requests"
	ReasonBadTransportID           = "Request has not numeric internal.transportId"
	ReasonBadProducerID            = "Request has not numeric internal.producerId"
	ReasonBadConsumerID            = "Request has not numeric internal.consumerId"
)

// Sentinel errors for construction and runtime codec paths, modeled as
// result types at the codec boundary rather than panics. Collaborators
// that fail construction or a codec operation return one of these, or wrap
// one with errors.Is-compatible context; the dispatcher turns the error's
// Error() string into the Reject reason.
var (
	ErrInvalidCapabilities = errors.New("invalid rtp capabilities")
	ErrInvalidRTPParameters = errors.New("invalid rtp parameters")
	ErrInvalidTransportData = errors.New("invalid transport construction data")
	ErrOversizeCompound    = errors.New("rtcp compound exceeds send buffer")
)
