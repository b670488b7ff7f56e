package domain

// RTPParameters describes the codecs, encodings and header extensions a
// Producer is actually sending, or a Consumer is actually receiving. It is
// reduced against a Peer's RTPCapabilities before being handed to a Consumer
// or accepted from a Producer (OnProducerParameters).
type RTPParameters struct {
	Codecs           []RTPCodecParameters `json:"codecs"`
	HeaderExtensions []RTPHeaderExtension `json:"headerExtensions"`
	Encodings        []RTPEncoding        `json:"encodings"`
}

// RTPCodecParameters is the codec a single encoding is carried with.
type RTPCodecParameters struct {
	Kind        MediaKind `json:"kind"`
	MimeType    string    `json:"mimeType"`
	ClockRate   uint32    `json:"clockRate"`
	Channels    uint8     `json:"channels,omitempty"`
	PayloadType uint8     `json:"payloadType"`
}

// RTPEncoding names the SSRCs one simulcast/FEC/RTX-capable encoding uses.
// The SSRC index scans exactly these three SSRC fields. CodecPayloadType, if
// set, ties this encoding to one specific negotiated codec (used when a
// Producer offers more than one codec for the same kind); an encoding
// without it applies to whichever codec survives reduction.
type RTPEncoding struct {
	SSRC             uint32            `json:"ssrc"`
	CodecPayloadType *uint8            `json:"codecPayloadType,omitempty"`
	Fec              *RTPFecParameters `json:"fec,omitempty"`
	Rtx              *RTPRtxParameters `json:"rtx,omitempty"`
}

// RTPFecParameters names the FEC stream's own SSRC, when FEC is negotiated
// out-of-band from the primary encoding.
type RTPFecParameters struct {
	SSRC uint32 `json:"ssrc"`
}

// RTPRtxParameters names the retransmission stream's own SSRC.
type RTPRtxParameters struct {
	SSRC uint32 `json:"ssrc"`
}

// ClaimsSSRC reports whether this encoding's primary, FEC or RTX SSRC equals
// ssrc — the exact test the SSRC Index performs per encoding.
func (e RTPEncoding) ClaimsSSRC(ssrc uint32) bool {
	if e.SSRC == ssrc {
		return true
	}
	if e.Fec != nil && e.Fec.SSRC == ssrc {
		return true
	}
	if e.Rtx != nil && e.Rtx.SSRC == ssrc {
		return true
	}
	return false
}

// ReduceCodecsAndEncodings drops any codec (and the encodings that reference
// it) not present in the given capabilities, returning the reduced
// parameters. Used by OnProducerParameters to cut a Producer's declared
// parameters down to what this Peer's capabilities actually support.
func ReduceCodecsAndEncodings(params RTPParameters, caps RTPCapabilities, kind MediaKind) RTPParameters {
	supported := make(map[uint8]bool, len(params.Codecs))
	reducedCodecs := make([]RTPCodecParameters, 0, len(params.Codecs))
	for _, codec := range params.Codecs {
		if caps.SupportsCodec(kind, codec.MimeType, codec.ClockRate) {
			supported[codec.PayloadType] = true
			reducedCodecs = append(reducedCodecs, codec)
		}
	}

	reducedEncodings := make([]RTPEncoding, 0, len(params.Encodings))
	for _, enc := range params.Encodings {
		if enc.CodecPayloadType != nil && !supported[*enc.CodecPayloadType] {
			continue
		}
		reducedEncodings = append(reducedEncodings, enc)
	}

	return RTPParameters{
		Codecs:           reducedCodecs,
		HeaderExtensions: ReduceHeaderExtensions(params.HeaderExtensions, caps, kind),
		Encodings:        reducedEncodings,
	}
}

// ReduceHeaderExtensions drops any header extension not present in caps for
// the given kind.
func ReduceHeaderExtensions(exts []RTPHeaderExtension, caps RTPCapabilities, kind MediaKind) []RTPHeaderExtension {
	reduced := make([]RTPHeaderExtension, 0, len(exts))
	for _, ext := range exts {
		if caps.SupportsHeaderExtension(kind, ext.URI) {
			reduced = append(reduced, ext)
		}
	}
	return reduced
}
