package peer

import (
	"peercore/internal/core/domain"
	"peercore/internal/core/ports"
)

// getTransportFromRequest resolves internal.transportId. When the id is
// missing/non-numeric, the returned reason is the "has not numeric" text.
// When it is numeric but no such Transport exists, the returned Transport is
// nil and the reason is empty — callers that need "Transport does not exist"
// check the returned Transport for nil themselves, matching the original's
// two-step "parse id, then look up" shape.
func (p *Peer) getTransportFromRequest(req *ports.Request) (ports.Transport, domain.TransportID, string) {
	id, ok := req.Internal.TransportIDValue()
	if !ok {
		return nil, 0, domain.ReasonBadTransportID
	}
	return p.transports[id], id, ""
}

func (p *Peer) getProducerFromRequest(req *ports.Request) (ports.Producer, domain.ProducerID, string) {
	id, ok := req.Internal.ProducerIDValue()
	if !ok {
		return nil, 0, domain.ReasonBadProducerID
	}
	return p.producers[id], id, ""
}

func (p *Peer) getConsumerFromRequest(req *ports.Request) (ports.Consumer, domain.ConsumerID, string) {
	id, ok := req.Internal.ConsumerIDValue()
	if !ok {
		return nil, 0, domain.ReasonBadConsumerID
	}
	return p.consumers[id], id, ""
}
