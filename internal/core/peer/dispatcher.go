package peer

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"peercore/internal/core/domain"
	"peercore/internal/core/ports"
	ctxlog "peercore/pkg/logger"
	"peercore/pkg/tracing"
)

// HandleRequest is the Peer's single control-plane entry point. It never
// runs the request synchronously on the caller's goroutine: it posts a job
// to the loop and returns without waiting for that job to run (posting
// blocks only while the loop's queue is full), so the caller learns the outcome only
// through the Request's Accept/Reject callbacks: a handler never suspends
// mid-request, and the caller is never the handler.
func (p *Peer) HandleRequest(req *ports.Request) {
	if p.limiter != nil && !p.limiter.Allow() {
		p.metrics.IncRequest(req.MethodID, "rejected")
		req.Reject(domain.ReasonTooManyRequests)
		return
	}
	p.loop.post(func() { p.handleRequest(req) })
}

func (p *Peer) handleRequest(req *ports.Request) {
	start := time.Now()
	ctx, span := tracing.TraceRequest(context.Background(), string(req.MethodID), uint32(p.id))
	ctx = context.WithValue(ctx, ctxlog.PeerIDKey, uint32(p.id))
	defer span.End()

	outcome := "accepted"
	defer func() {
		p.metrics.IncRequest(req.MethodID, outcome)
		p.reportEntityCounts()
		p.contextLogger().LogControlRequest(ctx, string(req.MethodID), outcome, time.Since(start).Milliseconds())
	}()

	reject := func(reason string) {
		outcome = "rejected"
		tracing.SetSpanStatus(ctx, codes.Error, reason)
		req.Reject(reason)
	}

	switch req.MethodID {

	case ports.MethodPeerClose:
		p.close()
		req.Accept(nil)

	case ports.MethodPeerDump:
		req.Accept(p.dump())

	case ports.MethodPeerSetCapabilities:
		p.handleSetCapabilities(req, reject)

	case ports.MethodPeerCreateTransport:
		p.handleCreateTransport(req, reject)

	case ports.MethodPeerCreateProducer:
		p.handleCreateProducer(req, reject)

	case ports.MethodTransportClose, ports.MethodTransportDump,
		ports.MethodTransportSetRemoteDTLSParameters, ports.MethodTransportSetMaxBitrate,
		ports.MethodTransportChangeUfragPwd:
		transport, transportID, badID := p.getTransportFromRequest(req)
		if badID != "" {
			reject(badID)
			return
		}
		if transport == nil {
			reject(domain.ReasonTransportNotFound)
			return
		}
		tracing.AddSpanAttributes(ctx, tracing.TransportIDKey.Int64(int64(transportID)))
		transport.HandleRequest(req)

	case ports.MethodProducerClose, ports.MethodProducerDump, ports.MethodProducerReceive,
		ports.MethodProducerSetRtpRawEvent, ports.MethodProducerSetRtpObjectEvent:
		producer, producerID, badID := p.getProducerFromRequest(req)
		if badID != "" {
			reject(badID)
			return
		}
		if producer == nil {
			reject(domain.ReasonProducerNotFound)
			return
		}
		tracing.AddSpanAttributes(ctx, tracing.ProducerIDKey.Int64(int64(producerID)))
		producer.HandleRequest(req)

	case ports.MethodProducerSetTransport:
		p.handleProducerSetTransport(req, reject)

	case ports.MethodConsumerDump, ports.MethodConsumerDisable:
		consumer, consumerID, badID := p.getConsumerFromRequest(req)
		if badID != "" {
			reject(badID)
			return
		}
		if consumer == nil {
			reject(domain.ReasonConsumerNotFound)
			return
		}
		tracing.AddSpanAttributes(ctx, tracing.ConsumerIDKey.Int64(int64(consumerID)))
		consumer.HandleRequest(req)

	case ports.MethodConsumerSetTransport:
		p.handleConsumerSetTransport(req, reject)

	default:
		p.logger.Warn("unknown method", zap.String("methodId", string(req.MethodID)))
		reject(domain.ReasonUnknownMethod)
	}
}

func (p *Peer) handleSetCapabilities(req *ports.Request, reject func(string)) {
	if p.hasCapabilities {
		reject(domain.ReasonCapabilitiesAlreadySet)
		return
	}

	caps, err := decodeCapabilities(req.Data)
	if err != nil {
		reject(err.Error())
		return
	}

	p.capabilities = &caps
	p.hasCapabilities = true

	// The listener (Room) is notified *before* Accept so that, per invariant
	// 5, every pre-existing Consumer has already received its "newconsumer"
	// notification by the time the caller's setCapabilities() resolves.
	if p.listener != nil {
		p.listener.OnPeerCapabilities(p, p.capabilities)
	}

	req.Accept(*p.capabilities)
}

func (p *Peer) handleCreateTransport(req *ports.Request, reject func(string)) {
	transportID, ok := req.Internal.TransportIDValue()
	if !ok {
		reject(domain.ReasonBadTransportID)
		return
	}
	if _, exists := p.transports[transportID]; exists {
		reject(domain.ReasonTransportAlreadyExists)
		return
	}
	if p.transportFactory == nil {
		reject("no transport factory configured")
		return
	}

	transport, err := p.transportFactory(transportID, req.Data)
	if err != nil {
		reject(err.Error())
		return
	}

	p.transports[transportID] = transport
	p.logger.Debug("transport created", zap.Uint32("transportId", uint32(transportID)))

	req.Accept(transport.Dump())
}

func (p *Peer) handleCreateProducer(req *ports.Request, reject func(string)) {
	if !p.hasCapabilities {
		reject(domain.ReasonCapabilitiesNotYetSet)
		return
	}

	producerID, ok := req.Internal.ProducerIDValue()
	if !ok {
		reject(domain.ReasonBadProducerID)
		return
	}
	if _, exists := p.producers[producerID]; exists {
		reject(domain.ReasonProducerAlreadyExists)
		return
	}

	transportID, ok := req.Internal.TransportIDValue()
	if !ok {
		reject(domain.ReasonBadTransportID)
		return
	}
	transport, exists := p.transports[transportID]
	if !exists {
		reject(domain.ReasonTransportNotFound)
		return
	}

	kindStr, err := decodeKind(req.Data)
	if err != nil {
		reject(domain.ReasonMissingKind)
		return
	}
	kind, ok := domain.ParseMediaKind(kindStr)
	if !ok {
		reject(domain.ReasonMissingKind)
		return
	}

	if p.producerFactory == nil {
		reject("no producer factory configured")
		return
	}
	producer, err := p.producerFactory(producerID, kind, req.Data)
	if err != nil {
		reject(err.Error())
		return
	}

	p.producers[producerID] = producer
	p.logger.Debug("producer created", zap.Uint32("producerId", uint32(producerID)))

	// The Transport is attached *after* the Producer is stored but before
	// Accept, so a concurrent OnTransportClosed can never observe a
	// Producer with a transport pointer set but no registry entry.
	producer.SetTransport(transport)

	req.Accept(nil)
}

func (p *Peer) handleProducerSetTransport(req *ports.Request, reject func(string)) {
	producer, _, badID := p.getProducerFromRequest(req)
	if badID != "" {
		reject(badID)
		return
	}
	if producer == nil {
		reject(domain.ReasonProducerNotFound)
		return
	}

	transport, _, badID := p.getTransportFromRequest(req)
	if badID != "" {
		reject(badID)
		return
	}
	if transport == nil {
		reject(domain.ReasonTransportNotFound)
		return
	}

	// AddProducer runs before the Producer's transport pointer is updated,
	// so a rejection here leaves the Producer's view unchanged.
	if err := transport.AddProducer(producer); err != nil {
		reject(err.Error())
		return
	}

	if previous, ok := producer.Transport(); ok && previous != nil && previous.HasRemb() {
		transport.EnableRemb()
	}

	producer.SetTransport(transport)

	req.Accept(nil)
}

func (p *Peer) handleConsumerSetTransport(req *ports.Request, reject func(string)) {
	consumer, _, badID := p.getConsumerFromRequest(req)
	if badID != "" {
		reject(badID)
		return
	}
	if consumer == nil {
		reject(domain.ReasonConsumerNotFound)
		return
	}

	transport, _, badID := p.getTransportFromRequest(req)
	if badID != "" {
		reject(badID)
		return
	}
	if transport == nil {
		reject(domain.ReasonTransportNotFound)
		return
	}

	consumer.SetTransport(transport)

	req.Accept(nil)
}

func decodeKind(data []byte) (string, error) {
	type kindPayload struct {
		Kind string `json:"kind"`
	}
	var payload kindPayload
	if err := jsonUnmarshal(data, &payload); err != nil || strings.TrimSpace(payload.Kind) == "" {
		return "", errMissingKind
	}
	return payload.Kind, nil
}
