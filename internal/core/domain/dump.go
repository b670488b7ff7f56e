package domain

// PeerDump is the structured snapshot returned by PEER_DUMP: peerId,
// peerName, capabilities if set, and one entry per owned entity. Transport,
// Producer and Consumer dumps are the collaborators' own schemas and are
// opaque at this layer (they are out-of-scope collaborators per the Peer's
// contract), so they travel as `any`.
type PeerDump struct {
	PeerID       PeerID           `json:"peerId"`
	PeerName     string           `json:"peerName"`
	Capabilities *RTPCapabilities `json:"capabilities,omitempty"`
	Transports   []any            `json:"transports"`
	Producers    []any            `json:"producers"`
	Consumers    []any            `json:"consumers"`
}

// ConsumerNotification is the payload carried by the "newconsumer" event
// emitted when AddConsumer installs a new Consumer.
type ConsumerNotification struct {
	Class               string `json:"class"`
	ConsumerID          ConsumerID `json:"consumerId"`
	Kind                MediaKind  `json:"kind"`
	RTPParameters       any        `json:"rtpParameters"`
	Active              bool       `json:"active"`
	AssociatedProducerID ProducerID `json:"associatedProducerId"`
}
