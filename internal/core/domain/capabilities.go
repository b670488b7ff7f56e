package domain

// RTPCapabilities is the Peer-wide descriptor of codecs and header extensions
// a Peer has declared support for. It is set at most once (PEER_SET_CAPABILITIES)
// and, once set, is shared by every Consumer created on this Peer for the rest
// of its lifetime.
type RTPCapabilities struct {
	Codecs           []RTPCodecCapability `json:"codecs"`
	HeaderExtensions []RTPHeaderExtension `json:"headerExtensions"`
}

// RTPCodecCapability describes one codec a Peer is willing to receive or send.
// Only the fields the Peer itself inspects are modeled here; SDP-level detail
// (payload type negotiation, fmtp strings) belongs to the out-of-scope codec
// layer.
type RTPCodecCapability struct {
	Kind        MediaKind `json:"kind"`
	MimeType    string    `json:"mimeType"`
	ClockRate   uint32    `json:"clockRate"`
	Channels    uint8     `json:"channels,omitempty"`
	PayloadType uint8     `json:"payloadType"`
}

// RTPHeaderExtension describes one RTP header extension a Peer supports.
type RTPHeaderExtension struct {
	Kind MediaKind `json:"kind"`
	URI  string    `json:"uri"`
	ID   uint8     `json:"id"`
}

// SupportsCodec reports whether these capabilities include a codec with the
// given MIME type and clock rate for the given kind.
func (c RTPCapabilities) SupportsCodec(kind MediaKind, mimeType string, clockRate uint32) bool {
	for _, codec := range c.Codecs {
		if codec.Kind == kind && codec.MimeType == mimeType && codec.ClockRate == clockRate {
			return true
		}
	}
	return false
}

// SupportsHeaderExtension reports whether these capabilities include the
// given header extension URI for the given kind.
func (c RTPCapabilities) SupportsHeaderExtension(kind MediaKind, uri string) bool {
	for _, ext := range c.HeaderExtensions {
		if ext.Kind == kind && ext.URI == uri {
			return true
		}
	}
	return false
}
