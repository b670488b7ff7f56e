package peer

import (
	"fmt"

	"github.com/pion/rtcp"
	"go.uber.org/zap"

	"peercore/internal/rtcpext"

	"peercore/internal/core/ports"
)

// OnTransportRtcpPacket is the RTCP demultiplexer's entry point: a
// Transport hands up one already-received compound packet, and this walks
// every sub-packet, routing feedback to the Consumer or Producer it
// addresses. Parsing failures never propagate — malformed or unrecognized
// sub-packets are skipped.
func (p *Peer) OnTransportRtcpPacket(transport ports.Transport, raw []byte) {
	p.loop.post(func() { p.onTransportRtcpPacket(transport, raw) })
}

func (p *Peer) onTransportRtcpPacket(transport ports.Transport, raw []byte) {
	packets, err := rtcpext.DecodeCompound(raw)
	if err != nil {
		p.logger.Warn("failed to decode rtcp compound", zap.Error(err))
	}

	for _, packet := range packets {
		p.dispatchRtcpPacket(transport, packet)
	}
}

func (p *Peer) dispatchRtcpPacket(transport ports.Transport, packet rtcp.Packet) {
	switch pkt := packet.(type) {

	case *rtcp.ReceiverReport:
		for _, block := range pkt.Reports {
			consumer, ok := p.getConsumer(block.SSRC)
			if !ok {
				p.logger.Debug("no Consumer for RR block", zap.Uint32("ssrc", block.SSRC))
				continue
			}
			if p.listener != nil {
				p.listener.OnPeerRtcpReceiverReport(p, consumer, reportFromBlock(pkt.SSRC, block))
			}
		}

	case *rtcp.SenderReport:
		for _, block := range pkt.Reports {
			producer, ok := transport.GetProducer(pkt.SSRC)
			if !ok {
				p.logger.Debug("no Producer for SR", zap.Uint32("ssrc", pkt.SSRC))
				continue
			}
			if p.listener != nil {
				p.listener.OnPeerRtcpSenderReport(p, producer, senderReportFromBlock(pkt.SSRC, block))
			}
		}

	case *rtcp.SourceDescription:
		for _, chunk := range pkt.Chunks {
			if _, ok := transport.GetProducer(chunk.Source); !ok {
				p.logger.Debug("no Producer for SDES chunk", zap.Uint32("ssrc", chunk.Source))
			}
		}

	case *rtcp.PictureLossIndication:
		p.dispatchFeedback(pkt.MediaSSRC, pkt, "PLI")

	case *rtcp.FullIntraRequest:
		for _, entry := range pkt.FIR {
			p.dispatchFeedback(entry.SSRC, pkt, "FIR")
		}

	case *rtcpext.SLIPacket:
		p.dispatchFeedback(pkt.MediaSSRC, pkt, "SLI")

	case *rtcpext.RPSIPacket:
		p.dispatchFeedback(pkt.MediaSSRC, pkt, "RPSI")

	case *rtcp.ReceiverEstimatedMaximumBitrate:
		// REMB is an AFB application-data message handled by the
		// Transport's own REMB module; the Peer swallows it.

	case *rtcp.TransportLayerNack:
		consumer, ok := p.getConsumer(pkt.MediaSSRC)
		if !ok {
			p.logger.Debug("no Consumer for NACK", zap.Uint32("ssrc", pkt.MediaSSRC))
			return
		}
		consumer.ReceiveNack(pkt)

	case *rtcp.Goodbye:
		p.logger.Debug("ignoring BYE", zap.Uint32s("sources", pkt.Sources))

	default:
		p.logger.Debug("unhandled rtcp packet type", zap.String("type", rtcpPacketTypeName(packet)))
	}
}

func (p *Peer) dispatchFeedback(mediaSSRC uint32, packet rtcp.Packet, kind string) {
	consumer, ok := p.getConsumer(mediaSSRC)
	if !ok {
		p.logger.Debug("no Consumer for feedback", zap.String("kind", kind), zap.Uint32("ssrc", mediaSSRC))
		return
	}
	if !consumer.Active() {
		return
	}
	if p.listener != nil {
		p.listener.OnPeerRtcpFeedback(p, consumer, packet)
	}
}

func reportFromBlock(senderSSRC uint32, block rtcp.ReceptionReport) *rtcp.ReceiverReport {
	return &rtcp.ReceiverReport{SSRC: senderSSRC, Reports: []rtcp.ReceptionReport{block}}
}

func senderReportFromBlock(senderSSRC uint32, block rtcp.ReceptionReport) *rtcp.SenderReport {
	return &rtcp.SenderReport{SSRC: senderSSRC, Reports: []rtcp.ReceptionReport{block}}
}

func rtcpPacketTypeName(packet rtcp.Packet) string {
	return fmt.Sprintf("%T", packet)
}
