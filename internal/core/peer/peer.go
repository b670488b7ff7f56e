package peer

import (
	"golang.org/x/time/rate"

	"go.uber.org/zap"

	"peercore/internal/core/domain"
	"peercore/internal/core/ports"
	"peercore/pkg/bufferpool"
	ctxlog "peercore/pkg/logger"
)

// Peer is the per-participant control object: it aggregates Transports,
// Producers and Consumers, drives their RTCP timing, and mediates every
// control-plane request addressed to the participant. See peer.go's sibling
// files for the registry, dispatcher, demultiplexer, timer and up-call
// bridge this type composes.
type Peer struct {
	id   domain.PeerID
	name string

	capabilities    *domain.RTPCapabilities
	hasCapabilities bool

	transports map[domain.TransportID]ports.Transport
	producers  map[domain.ProducerID]ports.Producer
	consumers  map[domain.ConsumerID]ports.Consumer

	listener ports.RoomListener
	notifier ports.Notifier
	logger   *zap.Logger
	metrics  Metrics
	limiter  *rate.Limiter

	transportFactory ports.TransportFactory
	producerFactory  ports.ProducerFactory

	loop  *loop
	timer *rtcpTimer

	rtcpBufferSize int
	rtcpBufPool    *bufferpool.Pool

	ctxLogger *ctxlog.ContextLogger

	closed bool
}

// contextLogger lazily builds the context-aware logger wrapper the
// dispatcher uses for per-request structured logs.
func (p *Peer) contextLogger() *ctxlog.ContextLogger {
	if p.ctxLogger == nil {
		p.ctxLogger = ctxlog.NewContextLogger(p.logger)
	}
	return p.ctxLogger
}

// Option customizes a Peer at construction time.
type Option func(*Peer)

// WithMetrics wires a Metrics sink; the default is NoopMetrics.
func WithMetrics(m Metrics) Option {
	return func(p *Peer) { p.metrics = m }
}

// WithRequestRateLimit caps HandleRequest throughput for this Peer, rejecting
// requests over the limit with ReasonTooManyRequests instead of enqueuing
// them. This is ambient hardening of the control channel, not part of the
// dispatch semantics themselves.
func WithRequestRateLimit(requestsPerSecond float64, burst int) Option {
	return func(p *Peer) { p.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst) }
}

// WithTransportFactory wires the constructor used by PEER_CREATE_TRANSPORT.
func WithTransportFactory(f ports.TransportFactory) Option {
	return func(p *Peer) { p.transportFactory = f }
}

// WithProducerFactory wires the constructor used by PEER_CREATE_PRODUCER.
func WithProducerFactory(f ports.ProducerFactory) Option {
	return func(p *Peer) { p.producerFactory = f }
}

// WithRTCPBufferSize overrides the outgoing RTCP compound size ceiling and
// the pooled buffer capacity used to check it. The default is
// RTCPBufferSize.
func WithRTCPBufferSize(size int) Option {
	return func(p *Peer) { p.rtcpBufferSize = size }
}

// New constructs a Peer and starts its loop goroutine and RTCP interval
// timer. The timer is armed immediately at half the maximum video interval.
func New(id domain.PeerID, name string, listener ports.RoomListener, notifier ports.Notifier, logger *zap.Logger, opts ...Option) *Peer {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Peer{
		id:         id,
		name:       name,
		transports: make(map[domain.TransportID]ports.Transport),
		producers:  make(map[domain.ProducerID]ports.Producer),
		consumers:  make(map[domain.ConsumerID]ports.Consumer),
		listener:   listener,
		notifier:   notifier,
		logger:     logger.With(zap.Uint32("peerId", uint32(id)), zap.String("peerName", name)),
		metrics:    NoopMetrics{},
		loop:       newLoop(),

		rtcpBufferSize: RTCPBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.rtcpBufPool = bufferpool.New(p.rtcpBufferSize)

	go p.loop.run(func(recovered any) {
		p.logger.Error("peer loop panic", zap.Any("recovered", recovered))
	})

	p.timer = newRTCPTimer(p, MaxVideoIntervalMs/2)
	p.timer.start()

	return p
}

// ID implements ports.PeerRef.
func (p *Peer) ID() domain.PeerID { return p.id }

// Name implements ports.PeerRef.
func (p *Peer) Name() string { return p.name }

// Sync blocks until every job posted before this call has completed. Tests
// use it to observe a Peer's state deterministically after async entry
// points (HandleRequest, the up-calls) have been invoked.
func (p *Peer) Sync() { p.loop.sync() }

// dump builds the PEER_DUMP snapshot. Must run on the loop.
func (p *Peer) dump() domain.PeerDump {
	d := domain.PeerDump{
		PeerID:       p.id,
		PeerName:     p.name,
		Capabilities: p.capabilities,
		Transports:   make([]any, 0, len(p.transports)),
		Producers:    make([]any, 0, len(p.producers)),
		Consumers:    make([]any, 0, len(p.consumers)),
	}
	for _, t := range p.transports {
		d.Transports = append(d.Transports, t.Dump())
	}
	for _, pr := range p.producers {
		d.Producers = append(d.Producers, pr.Dump())
	}
	for _, c := range p.consumers {
		d.Consumers = append(d.Consumers, c.Dump())
	}
	return d
}

// close tears the Peer down: Producers, then Consumers, then Transports,
// then the timer is released and the Room is notified exactly once. Must
// run on the loop.
func (p *Peer) close() {
	if p.closed {
		return
	}
	p.closed = true

	for id, producer := range p.producers {
		producer.Close()
		delete(p.producers, id)
	}
	for id, consumer := range p.consumers {
		consumer.Close()
		delete(p.consumers, id)
	}
	for id, transport := range p.transports {
		transport.Close()
		delete(p.transports, id)
	}

	p.timer.stop()

	if p.notifier != nil {
		p.notifier.Notify(p.id, "close", map[string]string{"class": "Peer"})
	}
	if p.listener != nil {
		p.listener.OnPeerClosed(p)
	}

	p.reportEntityCounts()
	p.loop.close()
}

func (p *Peer) reportEntityCounts() {
	p.metrics.SetEntityCount(uint32(p.id), "transports", len(p.transports))
	p.metrics.SetEntityCount(uint32(p.id), "producers", len(p.producers))
	p.metrics.SetEntityCount(uint32(p.id), "consumers", len(p.consumers))
}
