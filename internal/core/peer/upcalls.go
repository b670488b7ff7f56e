package peer

import (
	"fmt"

	"peercore/internal/core/domain"
	"peercore/internal/core/ports"
	"peercore/pkg/validation"
)

// AddConsumer installs a Consumer created by the Room (another Peer's
// Producer generates one on this Peer). It blocks until the Consumer is in
// `consumers` and the "newconsumer" notification has been emitted, so a
// caller chaining into another Peer's Accept() can never observe this
// having not happened yet.
func (p *Peer) AddConsumer(consumer ports.Consumer, rtpParameters domain.RTPParameters, associatedProducerID domain.ProducerID) {
	done := make(chan struct{})
	p.loop.post(func() {
		p.addConsumer(consumer, rtpParameters, associatedProducerID)
		close(done)
	})
	<-done
}

func (p *Peer) addConsumer(consumer ports.Consumer, rtpParameters domain.RTPParameters, associatedProducerID domain.ProducerID) {
	if _, exists := p.consumers[consumer.ID()]; exists {
		// Programmer error: the Room must never hand the same Consumer id
		// to a Peer twice. This is an assertion failure, not a recoverable
		// protocol error.
		panic("peer: given Consumer already exists in this Peer")
	}

	consumer.SetPeerCapabilities(p.capabilities)
	consumer.Send(rtpParameters)

	p.consumers[consumer.ID()] = consumer

	if p.notifier != nil {
		p.notifier.Notify(p.id, "newconsumer", domain.ConsumerNotification{
			Class:                "Peer",
			ConsumerID:           consumer.ID(),
			Kind:                 consumer.Kind(),
			RTPParameters:        rtpParameters,
			Active:               consumer.Active(),
			AssociatedProducerID: associatedProducerID,
		})
	}

	p.reportEntityCounts()
}

// OnTransportConnected: for each video/depth Consumer on this Transport,
// request a full frame — the receiver needs an IDR to start decoding.
func (p *Peer) OnTransportConnected(transport ports.Transport) {
	p.loop.post(func() { p.onTransportConnected(transport) })
}

func (p *Peer) onTransportConnected(transport ports.Transport) {
	for _, consumer := range p.consumers {
		bound, ok := consumer.Transport()
		if !ok || bound == nil || bound.ID() != transport.ID() {
			continue
		}
		if !consumer.Kind().RequiresFullFrame() {
			continue
		}
		if p.listener != nil {
			p.listener.OnFullFrameRequired(p, consumer)
		}
	}
}

// OnTransportClosed clears every Producer/Consumer reference to this
// Transport, then removes it from the registry. Producers and Consumers
// survive and may be re-bound to another Transport. The Peer never touches
// this Transport instance again after this call returns.
func (p *Peer) OnTransportClosed(transport ports.Transport) {
	p.loop.post(func() { p.onTransportClosed(transport) })
}

func (p *Peer) onTransportClosed(transport ports.Transport) {
	for _, producer := range p.producers {
		if bound, ok := producer.Transport(); ok && bound != nil && bound.ID() == transport.ID() {
			producer.ClearTransport()
		}
	}
	for _, consumer := range p.consumers {
		if bound, ok := consumer.Transport(); ok && bound != nil && bound.ID() == transport.ID() {
			consumer.ClearTransport()
		}
	}
	delete(p.transports, transport.ID())
	p.reportEntityCounts()
}

// OnTransportFullFrameRequired: ask each video/depth Producer on this
// Transport to request a full frame from its upstream.
func (p *Peer) OnTransportFullFrameRequired(transport ports.Transport) {
	p.loop.post(func() { p.onTransportFullFrameRequired(transport) })
}

func (p *Peer) onTransportFullFrameRequired(transport ports.Transport) {
	for _, producer := range p.producers {
		bound, ok := producer.Transport()
		if !ok || bound == nil || bound.ID() != transport.ID() {
			continue
		}
		if producer.Kind().RequiresFullFrame() {
			producer.RequestFullFrame()
		}
	}
}

// OnProducerParameters reduces the Producer's declared codecs/encodings and
// header extensions against this Peer's capabilities; if the Producer
// already has a Transport, attach it. Failures propagate to the caller as a
// construction-style error rather than a Reject, since this is a down-call
// and not a request.
func (p *Peer) OnProducerParameters(producer ports.Producer, params domain.RTPParameters) error {
	done := make(chan error, 1)
	p.loop.post(func() { done <- p.onProducerParameters(producer, params) })
	return <-done
}

func (p *Peer) onProducerParameters(producer ports.Producer, params domain.RTPParameters) error {
	for _, enc := range params.Encodings {
		if err := validation.ValidateSSRC(enc.SSRC); err != nil {
			return fmt.Errorf("invalid encoding: %w", err)
		}
	}

	reduced := params
	if p.capabilities != nil {
		reduced = domain.ReduceCodecsAndEncodings(params, *p.capabilities, producer.Kind())
	}
	producer.SetRTPParameters(reduced)

	if transport, ok := producer.Transport(); ok && transport != nil {
		if err := transport.AddProducer(producer); err != nil {
			return err
		}
	}
	return nil
}

// OnProducerParametersDone notifies the Room.
func (p *Peer) OnProducerParametersDone(producer ports.Producer) {
	p.loop.post(func() {
		if p.listener != nil {
			p.listener.OnPeerProducerParameters(p, producer)
		}
	})
}

// OnRtpPacket forwards to the Room, which decides fan-out to Consumers.
// Zero-copy intent: the packet is handed through, not copied.
func (p *Peer) OnRtpPacket(producer ports.Producer, packet *ports.RtpPacket) {
	p.loop.post(func() {
		if p.listener != nil {
			p.listener.OnPeerRtpPacket(p, producer, packet)
		}
	})
}

// OnProducerClosed removes the Producer from its Transport
// and from the registry, then notifies the Room.
func (p *Peer) OnProducerClosed(producer ports.Producer) {
	p.loop.post(func() { p.onProducerClosed(producer) })
}

func (p *Peer) onProducerClosed(producer ports.Producer) {
	if transport, ok := producer.Transport(); ok && transport != nil {
		transport.RemoveProducer(producer)
	}
	delete(p.producers, producer.ID())
	if p.listener != nil {
		p.listener.OnPeerProducerClosed(p, producer)
	}
	p.reportEntityCounts()
}

// OnConsumerClosed removes the Consumer from the registry
// and notifies the Room.
func (p *Peer) OnConsumerClosed(consumer ports.Consumer) {
	p.loop.post(func() { p.onConsumerClosed(consumer) })
}

func (p *Peer) onConsumerClosed(consumer ports.Consumer) {
	delete(p.consumers, consumer.ID())
	if p.listener != nil {
		p.listener.OnPeerConsumerClosed(p, consumer)
	}
	p.reportEntityCounts()
}

// OnConsumerFullFrameRequired relays to the Room.
func (p *Peer) OnConsumerFullFrameRequired(consumer ports.Consumer) {
	p.loop.post(func() {
		if p.listener != nil {
			p.listener.OnFullFrameRequired(p, consumer)
		}
	})
}
