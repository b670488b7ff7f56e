package peer

import (
	"encoding/json"
	"sync"

	"github.com/pion/rtcp"

	"peercore/internal/core/domain"
	"peercore/internal/core/ports"
)

// fakeTransport is a minimal in-memory stand-in for the ICE/DTLS/SRTP
// Transport collaborator, enough to exercise the Peer's registry, dispatch
// and RTCP routing logic without any real networking.
type fakeTransport struct {
	mu        sync.Mutex
	id        domain.TransportID
	remb      bool
	producers map[uint32]ports.Producer
	sent      [][]rtcp.Packet
	closed    bool
}

func newFakeTransport(id domain.TransportID) *fakeTransport {
	return &fakeTransport{id: id, producers: make(map[uint32]ports.Producer)}
}

func (t *fakeTransport) ID() domain.TransportID { return t.id }

func (t *fakeTransport) SendRtcpCompoundPacket(packets []rtcp.Packet) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, packets)
	return nil
}

func (t *fakeTransport) HasRemb() bool { return t.remb }
func (t *fakeTransport) EnableRemb()   { t.remb = true }

func (t *fakeTransport) AddProducer(producer ports.Producer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, enc := range producer.RTPParameters().Encodings {
		t.producers[enc.SSRC] = producer
	}
	return nil
}

func (t *fakeTransport) RemoveProducer(producer ports.Producer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ssrc, p := range t.producers {
		if p.ID() == producer.ID() {
			delete(t.producers, ssrc)
		}
	}
}

func (t *fakeTransport) GetProducer(ssrc uint32) (ports.Producer, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.producers[ssrc]
	return p, ok
}

func (t *fakeTransport) HandleRequest(req *ports.Request) {
	switch req.MethodID {
	case ports.MethodTransportClose:
		t.closed = true
		req.Accept(nil)
	default:
		req.Accept(nil)
	}
}

func (t *fakeTransport) Dump() any  { return map[string]any{"transportId": t.id} }
func (t *fakeTransport) Close()     { t.closed = true }

// fakeProducer is a minimal Producer collaborator.
type fakeProducer struct {
	id        domain.ProducerID
	kind      domain.MediaKind
	params    domain.RTPParameters
	transport ports.Transport
	closed    bool
	fullFrameRequests int
}

func newFakeProducer(id domain.ProducerID, kind domain.MediaKind) *fakeProducer {
	return &fakeProducer{id: id, kind: kind}
}

func (p *fakeProducer) ID() domain.ProducerID                { return p.id }
func (p *fakeProducer) Kind() domain.MediaKind                { return p.kind }
func (p *fakeProducer) RTPParameters() domain.RTPParameters   { return p.params }
func (p *fakeProducer) SetRTPParameters(params domain.RTPParameters) { p.params = params }
func (p *fakeProducer) Transport() (ports.Transport, bool)    { return p.transport, p.transport != nil }
func (p *fakeProducer) SetTransport(t ports.Transport)        { p.transport = t }
func (p *fakeProducer) ClearTransport()                       { p.transport = nil }
func (p *fakeProducer) HandleRequest(req *ports.Request)       { req.Accept(nil) }
func (p *fakeProducer) GetRtcp(ports.RTCPBuilder, int64)       {}
func (p *fakeProducer) RequestFullFrame()                      { p.fullFrameRequests++ }
func (p *fakeProducer) Dump() any                              { return map[string]any{"producerId": p.id} }
func (p *fakeProducer) Close()                                 { p.closed = true }

// fakeConsumer is a minimal Consumer collaborator.
type fakeConsumer struct {
	id         domain.ConsumerID
	kind       domain.MediaKind
	active     bool
	encodings  []domain.RTPEncoding
	transport  ports.Transport
	caps       *domain.RTPCapabilities
	rateBps    uint64
	closed     bool
	nacks      []*rtcp.TransportLayerNack
	fullFrames int
	senderReportOnNextTick bool
}

func newFakeConsumer(id domain.ConsumerID, kind domain.MediaKind, ssrc uint32) *fakeConsumer {
	return &fakeConsumer{id: id, kind: kind, active: true, encodings: []domain.RTPEncoding{{SSRC: ssrc}}}
}

func (c *fakeConsumer) ID() domain.ConsumerID              { return c.id }
func (c *fakeConsumer) Kind() domain.MediaKind              { return c.kind }
func (c *fakeConsumer) Active() bool                        { return c.active }
func (c *fakeConsumer) Encodings() []domain.RTPEncoding     { return c.encodings }
func (c *fakeConsumer) Transport() (ports.Transport, bool)  { return c.transport, c.transport != nil }
func (c *fakeConsumer) SetTransport(t ports.Transport)      { c.transport = t }
func (c *fakeConsumer) ClearTransport()                     { c.transport = nil }
func (c *fakeConsumer) SetPeerCapabilities(caps *domain.RTPCapabilities) { c.caps = caps }
func (c *fakeConsumer) Send(domain.RTPParameters)           {}
func (c *fakeConsumer) HandleRequest(req *ports.Request)    { req.Accept(nil) }
func (c *fakeConsumer) TransmissionRateBps(int64) uint64    { return c.rateBps }
func (c *fakeConsumer) ReceiveNack(nack *rtcp.TransportLayerNack) {
	c.nacks = append(c.nacks, nack)
}
func (c *fakeConsumer) RequestFullFrame() { c.fullFrames++ }
func (c *fakeConsumer) Dump() any         { return map[string]any{"consumerId": c.id} }
func (c *fakeConsumer) Close()            { c.closed = true }

func (c *fakeConsumer) GetRtcp(builder ports.RTCPBuilder, now int64) {
	if c.senderReportOnNextTick {
		builder.AddSenderReport(&rtcp.SenderReport{SSRC: c.encodings[0].SSRC})
		return
	}
	builder.AddReceiverReport(&rtcp.ReceiverReport{SSRC: c.encodings[0].SSRC})
}

// fakeListener records every up-call the Peer makes into the Room.
type fakeListener struct {
	mu sync.Mutex

	closedPeers          []ports.PeerRef
	capabilities         []*domain.RTPCapabilities
	producerParams       []ports.Producer
	producerClosed       []ports.Producer
	consumerClosed       []ports.Consumer
	rtpPackets           []ports.Producer
	senderReports        []*rtcp.SenderReport
	receiverReports      []*rtcp.ReceiverReport
	feedback             []rtcp.Packet
	fullFrameRequests    []ports.Consumer
}

func (l *fakeListener) OnPeerClosed(peer ports.PeerRef) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closedPeers = append(l.closedPeers, peer)
}

func (l *fakeListener) OnPeerCapabilities(peer ports.PeerRef, caps *domain.RTPCapabilities) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.capabilities = append(l.capabilities, caps)
}

func (l *fakeListener) OnPeerProducerParameters(peer ports.PeerRef, producer ports.Producer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.producerParams = append(l.producerParams, producer)
}

func (l *fakeListener) OnPeerProducerClosed(peer ports.PeerRef, producer ports.Producer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.producerClosed = append(l.producerClosed, producer)
}

func (l *fakeListener) OnPeerConsumerClosed(peer ports.PeerRef, consumer ports.Consumer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.consumerClosed = append(l.consumerClosed, consumer)
}

func (l *fakeListener) OnPeerRtpPacket(peer ports.PeerRef, producer ports.Producer, packet *ports.RtpPacket) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rtpPackets = append(l.rtpPackets, producer)
}

func (l *fakeListener) OnPeerRtcpSenderReport(peer ports.PeerRef, producer ports.Producer, report *rtcp.SenderReport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.senderReports = append(l.senderReports, report)
}

func (l *fakeListener) OnPeerRtcpReceiverReport(peer ports.PeerRef, consumer ports.Consumer, report *rtcp.ReceiverReport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.receiverReports = append(l.receiverReports, report)
}

func (l *fakeListener) OnPeerRtcpFeedback(peer ports.PeerRef, consumer ports.Consumer, packet rtcp.Packet) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.feedback = append(l.feedback, packet)
}

func (l *fakeListener) OnFullFrameRequired(peer ports.PeerRef, consumer ports.Consumer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fullFrameRequests = append(l.fullFrameRequests, consumer)
}

func (l *fakeListener) count(f func(*fakeListener) int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return f(l)
}

// fakeNotifier records every notification emitted on the control channel.
type fakeNotifier struct {
	mu            sync.Mutex
	notifications []notification
}

type notification struct {
	Target  domain.PeerID
	Event   string
	Payload any
}

func (n *fakeNotifier) Notify(target domain.PeerID, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification{Target: target, Event: event, Payload: payload})
}

func (n *fakeNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification, len(n.notifications))
	copy(out, n.notifications)
	return out
}

// testTransportFactory/testProducerFactory build fakes through the ports
// factory shape HandleRequest uses for PEER_CREATE_TRANSPORT/PRODUCER.
func testTransportFactory(id domain.TransportID, data json.RawMessage) (ports.Transport, error) {
	return newFakeTransport(id), nil
}

func testProducerFactory(id domain.ProducerID, kind domain.MediaKind, data json.RawMessage) (ports.Producer, error) {
	return newFakeProducer(id, kind), nil
}

// syncRequest runs a request on peer p and blocks until Accept/Reject fires,
// returning the outcome.
func syncRequest(p *Peer, methodID ports.MethodID, internal ports.RequestInternal, data []byte) (accepted bool, result any, reason string) {
	done := make(chan struct{})
	req := ports.NewRequest(methodID, internal, data,
		func(res any) { result = res; accepted = true; close(done) },
		func(r string) { reason = r; close(done) },
	)
	p.HandleRequest(req)
	<-done
	return
}

func idJSON(id uint64) json.RawMessage {
	b, _ := json.Marshal(id)
	return b
}
