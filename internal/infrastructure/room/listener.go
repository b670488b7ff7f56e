// Package room provides a minimal RoomListener that logs every up-call a
// Peer makes. It stands in for the real Room, which is out of scope for the
// Peer core, the same way internal/infrastructure/channel stands in for the
// real Channel transport.
package room

import (
	"github.com/pion/rtcp"
	"go.uber.org/zap"

	"peercore/internal/core/domain"
	"peercore/internal/core/ports"
)

// LoggingListener implements ports.RoomListener by logging each up-call.
// It does not route media or forward capabilities between Peers; a real
// Room would fan these out to the other Peers sharing the session.
type LoggingListener struct {
	logger *zap.Logger
}

func NewLoggingListener(logger *zap.Logger) *LoggingListener {
	return &LoggingListener{logger: logger}
}

func (l *LoggingListener) OnPeerClosed(peer ports.PeerRef) {
	l.logger.Info("peer closed", zap.Uint32("peerId", uint32(peer.ID())), zap.String("name", peer.Name()))
}

func (l *LoggingListener) OnPeerCapabilities(peer ports.PeerRef, capabilities *domain.RTPCapabilities) {
	l.logger.Debug("peer capabilities set", zap.Uint32("peerId", uint32(peer.ID())))
}

func (l *LoggingListener) OnPeerProducerParameters(peer ports.PeerRef, producer ports.Producer) {
	l.logger.Debug("producer parameters ready", zap.Uint32("peerId", uint32(peer.ID())))
}

func (l *LoggingListener) OnPeerProducerClosed(peer ports.PeerRef, producer ports.Producer) {
	l.logger.Debug("producer closed", zap.Uint32("peerId", uint32(peer.ID())))
}

func (l *LoggingListener) OnPeerConsumerClosed(peer ports.PeerRef, consumer ports.Consumer) {
	l.logger.Debug("consumer closed", zap.Uint32("peerId", uint32(peer.ID())))
}

func (l *LoggingListener) OnPeerRtpPacket(peer ports.PeerRef, producer ports.Producer, packet *ports.RtpPacket) {
}

func (l *LoggingListener) OnPeerRtcpSenderReport(peer ports.PeerRef, producer ports.Producer, report *rtcp.SenderReport) {
}

func (l *LoggingListener) OnPeerRtcpReceiverReport(peer ports.PeerRef, consumer ports.Consumer, report *rtcp.ReceiverReport) {
}

func (l *LoggingListener) OnPeerRtcpFeedback(peer ports.PeerRef, consumer ports.Consumer, packet rtcp.Packet) {
}

func (l *LoggingListener) OnFullFrameRequired(peer ports.PeerRef, consumer ports.Consumer) {
	l.logger.Debug("full frame required", zap.Uint32("peerId", uint32(peer.ID())))
}
