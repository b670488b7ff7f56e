package peer

import "peercore/internal/core/ports"

// Metrics receives counters and observations a Peer emits as it runs. It is
// an interface, not a direct Prometheus dependency, keeping internal/core
// free of any infrastructure import; internal/infrastructure/metrics
// supplies the Prometheus-backed implementation wired in cmd/worker.
type Metrics interface {
	// IncRequest records one HandleRequest outcome for methodID, outcome
	// being "accepted" or "rejected".
	IncRequest(methodID ports.MethodID, outcome string)
	// SetEntityCount reports the current size of one of this Peer's
	// registries ("transports", "producers", "consumers").
	SetEntityCount(peerID uint32, registry string, count int)
	// ObserveRtcpInterval records the jittered interval (ms) computed for
	// one timer tick.
	ObserveRtcpInterval(ms float64)
}

// NoopMetrics discards everything. It is the default when a Peer is built
// without a Metrics implementation, e.g. in unit tests.
type NoopMetrics struct{}

func (NoopMetrics) IncRequest(ports.MethodID, string)     {}
func (NoopMetrics) SetEntityCount(uint32, string, int)    {}
func (NoopMetrics) ObserveRtcpInterval(float64)           {}
