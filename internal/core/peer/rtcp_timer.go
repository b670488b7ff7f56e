package peer

import (
	"math/rand"
	"time"

	"github.com/pion/rtcp"
	"go.uber.org/zap"

	"peercore/internal/core/ports"
)

// compoundBuilder accumulates RTCP sub-packets for one outgoing compound,
// implementing ports.RTCPBuilder. It is not safe for concurrent use — it is
// only ever touched from the Peer's own loop.
type compoundBuilder struct {
	packets          []rtcp.Packet
	hasSenderReport  bool
	hasReceiverReport bool
}

func (b *compoundBuilder) AddSenderReport(sr *rtcp.SenderReport) {
	b.packets = append(b.packets, sr)
	b.hasSenderReport = true
}

func (b *compoundBuilder) AddReceiverReport(rr *rtcp.ReceiverReport) {
	b.packets = append(b.packets, rr)
	b.hasReceiverReport = true
}

func (b *compoundBuilder) HasSenderReport() bool   { return b.hasSenderReport }
func (b *compoundBuilder) HasReceiverReport() bool { return b.hasReceiverReport }
func (b *compoundBuilder) Packets() []rtcp.Packet  { return b.packets }

// rtcpTimer is the Peer-scoped RTCP reporting interval source: it is
// released on Peer destruction and never fires again afterward.
type rtcpTimer struct {
	peer      *Peer
	initialMs int64
	timer     *time.Timer
	stopped   bool
	stopCh    chan struct{}
}

func newRTCPTimer(p *Peer, initialMs int64) *rtcpTimer {
	return &rtcpTimer{peer: p, initialMs: initialMs, stopCh: make(chan struct{})}
}

func (t *rtcpTimer) start() {
	t.arm(t.initialMs)
}

func (t *rtcpTimer) arm(ms int64) {
	if t.stopped {
		return
	}
	t.timer = time.AfterFunc(msToDuration(ms), func() {
		select {
		case <-t.stopCh:
			return
		default:
		}
		t.peer.loop.post(t.peer.onRTCPTick)
	})
}

func (t *rtcpTimer) stop() {
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stopCh)
	if t.timer != nil {
		t.timer.Stop()
	}
}

// onRTCPTick implements one RTCP reporting interval tick. Must run on the
// loop.
func (p *Peer) onRTCPTick() {
	if p.closed {
		return
	}

	now := time.Now().UnixMilli()

	for _, transport := range p.transports {
		p.tickTransport(transport, now)
	}

	interval := p.nextInterval(now)
	p.metrics.ObserveRtcpInterval(float64(interval))
	p.timer.arm(interval)
}

func (p *Peer) tickTransport(transport ports.Transport, now int64) {
	builder := &compoundBuilder{}

	for _, consumer := range p.consumers {
		bound, ok := consumer.Transport()
		if !ok || bound == nil || bound.ID() != transport.ID() {
			continue
		}
		consumer.GetRtcp(builder, now)
		if builder.HasSenderReport() {
			p.flush(transport, builder)
			builder = &compoundBuilder{}
		}
	}

	for _, producer := range p.producers {
		bound, ok := producer.Transport()
		if !ok || bound == nil || bound.ID() != transport.ID() {
			continue
		}
		producer.GetRtcp(builder, now)
	}

	if builder.HasReceiverReport() {
		p.flush(transport, builder)
	}
}

func (p *Peer) flush(transport ports.Transport, builder *compoundBuilder) {
	buf := p.rtcpBufPool.Get()
	defer p.rtcpBufPool.Put(buf)

	for _, pkt := range builder.Packets() {
		marshaled, err := pkt.Marshal()
		if err != nil {
			p.logger.Warn("failed to marshal rtcp packet for send", zap.Error(err))
			return
		}
		buf = append(buf, marshaled...)
	}
	if len(buf) > p.rtcpBufferSize {
		p.logger.Warn("rtcp compound too big, dropping", zap.Int("size", len(buf)))
		return
	}
	if err := transport.SendRtcpCompoundPacket(builder.Packets()); err != nil {
		p.logger.Warn("failed to send rtcp compound", zap.Error(err))
	}
}

// nextInterval implements the RFC 3550 aggregate-bandwidth rule scaled for
// this SFU's RTCP overhead target, then applies the mandatory uniform
// jitter. Without the jitter, every Peer's timer synchronizes and
// saturates the link.
func (p *Peer) nextInterval(now int64) int64 {
	interval := int64(MaxVideoIntervalMs)

	if len(p.consumers) > 0 {
		var rateBps uint64
		for _, consumer := range p.consumers {
			rateBps += consumer.TransmissionRateBps(now)
		}
		if rateKbps := rateBps / 1000; rateKbps > 0 {
			interval = 360000 / int64(rateKbps)
		}
	}

	if interval > MaxVideoIntervalMs {
		interval = MaxVideoIntervalMs
	}

	jitterTenths := int64(5 + rand.Intn(11)) // uniform in [5,15]
	return interval * jitterTenths / 10
}
