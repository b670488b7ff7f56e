package peer

import (
	"encoding/json"
	"testing"

	"github.com/pion/rtcp"
	"github.com/stretchr/testify/require"

	"peercore/internal/core/domain"
)

func marshalCaps(caps domain.RTPCapabilities) (json.RawMessage, error) {
	return json.Marshal(caps)
}

func rtcpReceiverReportFixture(blockSSRC uint32) *rtcp.ReceiverReport {
	return &rtcp.ReceiverReport{
		SSRC:    0xAAAAAAAA,
		Reports: []rtcp.ReceptionReport{{SSRC: blockSSRC}},
	}
}

func mustMarshalCompound(t *testing.T, packets ...rtcp.Packet) []byte {
	t.Helper()
	data, err := rtcp.Marshal(packets)
	require.NoError(t, err)
	return data
}
