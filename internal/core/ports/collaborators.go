package ports

import (
	"github.com/pion/rtcp"
	"github.com/pion/rtp"

	"peercore/internal/core/domain"
)

// RTCPBuilder accumulates RTCP sub-packets for one outgoing compound. The
// RTCP interval timer hands one to each Transport's bound Producers/
// Consumers in turn; a Consumer's Sender Report flushes the compound
// immediately so each wire packet carries at most one Sender Report.
type RTCPBuilder interface {
	AddSenderReport(*rtcp.SenderReport)
	AddReceiverReport(*rtcp.ReceiverReport)
	HasSenderReport() bool
	HasReceiverReport() bool
	Packets() []rtcp.Packet
}

// Transport is the opaque ICE/DTLS/SRTP capability a Peer drives but does
// not implement. AddProducer/RemoveProducer/GetProducer let the Transport
// maintain its own SSRC-keyed producer map, since SR/SDES routing goes
// through the Transport rather than the Peer's SSRC index.
type Transport interface {
	ID() domain.TransportID
	SendRtcpCompoundPacket(packets []rtcp.Packet) error
	HasRemb() bool
	EnableRemb()
	AddProducer(producer Producer) error
	RemoveProducer(producer Producer)
	GetProducer(ssrc uint32) (Producer, bool)
	HandleRequest(req *Request)
	Dump() any
	Close()
}

// Producer is an ingress RTP stream from this Peer. Transport is a weak
// reference: it is cleared by OnTransportClosed without the Producer being
// destroyed.
type Producer interface {
	ID() domain.ProducerID
	Kind() domain.MediaKind
	RTPParameters() domain.RTPParameters
	SetRTPParameters(domain.RTPParameters)
	Transport() (Transport, bool)
	SetTransport(Transport)
	ClearTransport()
	HandleRequest(req *Request)
	GetRtcp(builder RTCPBuilder, nowMs int64)
	RequestFullFrame()
	Dump() any
	Close()
}

// Consumer is an egress RTP stream to this Peer, carrying media produced by
// (usually) another Peer's Producer. Transport has the same weak-reference
// semantics as Producer's.
type Consumer interface {
	ID() domain.ConsumerID
	Kind() domain.MediaKind
	Active() bool
	Encodings() []domain.RTPEncoding
	Transport() (Transport, bool)
	SetTransport(Transport)
	ClearTransport()
	SetPeerCapabilities(*domain.RTPCapabilities)
	Send(params domain.RTPParameters)
	HandleRequest(req *Request)
	GetRtcp(builder RTCPBuilder, nowMs int64)
	TransmissionRateBps(nowMs int64) uint64
	ReceiveNack(nack *rtcp.TransportLayerNack)
	RequestFullFrame()
	Dump() any
	Close()
}

// RtpPacket is the already-decoded RTP packet handed up from a Transport.
type RtpPacket = rtp.Packet
