// Package metrics supplies the Prometheus-backed implementation of
// peer.Metrics, keeping the hexagonal boundary between internal/core and
// internal/infrastructure.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"peercore/internal/core/ports"
)

// Collector implements peer.Metrics with Prometheus gauges and a histogram.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	entityCount     *prometheus.GaugeVec
	rtcpIntervalMs  prometheus.Histogram
}

// NewCollector registers the control-plane metrics with prometheus's default
// registry via promauto.
func NewCollector() *Collector {
	return &Collector{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "peercore_peer_requests_total",
			Help: "Total control-plane requests handled by a Peer, by method and outcome",
		}, []string{"method_id", "outcome"}),

		entityCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "peercore_peer_entity_count",
			Help: "Current size of a Peer's Transport/Producer/Consumer registries",
		}, []string{"peer_id", "registry"}),

		rtcpIntervalMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "peercore_rtcp_interval_milliseconds",
			Help:    "Jittered RTCP interval computed on each timer tick",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1000},
		}),
	}
}

// IncRequest implements peer.Metrics.
func (c *Collector) IncRequest(methodID ports.MethodID, outcome string) {
	c.requestsTotal.WithLabelValues(string(methodID), outcome).Inc()
}

// SetEntityCount implements peer.Metrics.
func (c *Collector) SetEntityCount(peerID uint32, registry string, count int) {
	c.entityCount.WithLabelValues(strconv.FormatUint(uint64(peerID), 10), registry).Set(float64(count))
}

// ObserveRtcpInterval implements peer.Metrics.
func (c *Collector) ObserveRtcpInterval(ms float64) {
	c.rtcpIntervalMs.Observe(ms)
}
