package domain

// PeerID, TransportID, ProducerID and ConsumerID are the worker-wide unique
// identifiers carried on every control-plane request. The original protocol
// transmits them as unsigned 32-bit integers inside the request's "internal"
// sub-object; callers outside this package are responsible for that framing.
type (
	PeerID       uint32
	TransportID  uint32
	ProducerID   uint32
	ConsumerID   uint32
)
