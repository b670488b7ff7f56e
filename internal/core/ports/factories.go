package ports

import (
	"encoding/json"

	"peercore/internal/core/domain"
)

// TransportFactory constructs a concrete Transport for PEER_CREATE_TRANSPORT.
// Transport construction (ICE/DTLS/SRTP setup) is an out-of-scope
// collaborator concern; the Peer only needs to be able to ask for one and
// receive either a Transport or a construction error to Reject with.
type TransportFactory func(id domain.TransportID, data json.RawMessage) (Transport, error)

// ProducerFactory constructs a concrete Producer for PEER_CREATE_PRODUCER.
type ProducerFactory func(id domain.ProducerID, kind domain.MediaKind, data json.RawMessage) (Producer, error)
