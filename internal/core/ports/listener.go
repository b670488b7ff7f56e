package ports

import (
	"github.com/pion/rtcp"

	"peercore/internal/core/domain"
)

// PeerRef is the non-owning handle a Room holds to address a Peer from an
// up-call without depending on the concrete peer package (which in turn
// depends on ports — this interface is how the dependency points the other
// way).
type PeerRef interface {
	ID() domain.PeerID
	Name() string
}

// RoomListener receives the up-calls a Peer makes into the enclosing Room.
// The Room is an out-of-scope collaborator; this is the only shape the Peer
// core assumes about it.
type RoomListener interface {
	OnPeerClosed(peer PeerRef)
	OnPeerCapabilities(peer PeerRef, capabilities *domain.RTPCapabilities)
	OnPeerProducerParameters(peer PeerRef, producer Producer)
	OnPeerProducerClosed(peer PeerRef, producer Producer)
	OnPeerConsumerClosed(peer PeerRef, consumer Consumer)
	OnPeerRtpPacket(peer PeerRef, producer Producer, packet *RtpPacket)
	OnPeerRtcpSenderReport(peer PeerRef, producer Producer, report *rtcp.SenderReport)
	OnPeerRtcpReceiverReport(peer PeerRef, consumer Consumer, report *rtcp.ReceiverReport)
	OnPeerRtcpFeedback(peer PeerRef, consumer Consumer, packet rtcp.Packet)
	OnFullFrameRequired(peer PeerRef, consumer Consumer)
}

// Notifier is the non-owning event sink a Peer writes its notifications to.
// The demo control channel implements this by writing a JSON notification
// frame to the Peer's WebSocket connection.
type Notifier interface {
	Notify(target domain.PeerID, event string, payload any)
}
