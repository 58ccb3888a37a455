package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/edgemesh/quic/internal/protocol"
)

func TestRecorder(t *testing.T) {
	r := NewRecorderWithRegisterer(prometheus.NewRegistry())

	created := testutil.ToFloat64(packetsCreated.WithLabelValues(protocol.PacketTypeInitial.String()))
	r.PacketCreated(protocol.PacketTypeInitial)
	r.PacketCreated(protocol.PacketTypeInitial)
	require.Equal(t, created+2, testutil.ToFloat64(packetsCreated.WithLabelValues(protocol.PacketTypeInitial.String())))

	received := testutil.ToFloat64(packetsReceived.WithLabelValues("success"))
	r.PacketReceived("success")
	require.Equal(t, received+1, testutil.ToFloat64(packetsReceived.WithLabelValues("success")))

	dropped := testutil.ToFloat64(packetsDropped.WithLabelValues("malformed_header"))
	r.PacketDropped("malformed_header")
	require.Equal(t, dropped+1, testutil.ToFloat64(packetsDropped.WithLabelValues("malformed_header")))
}

func TestRecorderRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() {
		NewRecorderWithRegisterer(reg)
		NewRecorderWithRegisterer(reg)
	})
}
