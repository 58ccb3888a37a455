// Package metrics provides Prometheus instrumentation for the packet codec.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edgemesh/quic/internal/protocol"
)

const metricNamespace = "quic_codec"

var (
	packetsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_created_total",
			Help:      "Packets built for sending",
		},
		[]string{"packet_type"},
	)
	packetsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_received_total",
			Help:      "Received datagrams, by creation result",
		},
		[]string{"result"},
	)
	packetsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "packets_dropped_total",
			Help:      "Received datagrams that didn't produce a packet",
		},
		[]string{"reason"},
	)
)

// A Recorder counts codec events.
// The zero value is not usable; construct one with NewRecorder.
type Recorder struct {
	created  *prometheus.CounterVec
	received *prometheus.CounterVec
	dropped  *prometheus.CounterVec
}

// NewRecorder creates a new recorder using the default Prometheus registerer.
func NewRecorder() *Recorder {
	return NewRecorderWithRegisterer(prometheus.DefaultRegisterer)
}

// NewRecorderWithRegisterer creates a new recorder using a given Prometheus registerer.
func NewRecorderWithRegisterer(registerer prometheus.Registerer) *Recorder {
	for _, c := range [...]prometheus.Collector{
		packetsCreated,
		packetsReceived,
		packetsDropped,
	} {
		if err := registerer.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
	return &Recorder{
		created:  packetsCreated,
		received: packetsReceived,
		dropped:  packetsDropped,
	}
}

// PacketCreated counts a packet built for sending.
func (r *Recorder) PacketCreated(t protocol.PacketType) {
	r.created.WithLabelValues(t.String()).Inc()
}

// PacketReceived counts a processed datagram by its creation result.
func (r *Recorder) PacketReceived(result string) {
	r.received.WithLabelValues(result).Inc()
}

// PacketDropped counts a datagram that didn't produce a packet.
func (r *Recorder) PacketDropped(reason string) {
	r.dropped.WithLabelValues(reason).Inc()
}
