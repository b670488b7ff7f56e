package peer

import "peercore/internal/core/ports"

// getConsumer resolves an incoming RTCP SSRC to its owning Consumer with a
// linear scan over every Consumer's encodings, matching primary, FEC or RTX
// SSRC. First match wins; a Peer's Consumers never share an SSRC, so there
// is at most one match to find.
func (p *Peer) getConsumer(ssrc uint32) (ports.Consumer, bool) {
	for _, consumer := range p.consumers {
		for _, enc := range consumer.Encodings() {
			if enc.ClaimsSSRC(ssrc) {
				return consumer, true
			}
		}
	}
	return nil, false
}
