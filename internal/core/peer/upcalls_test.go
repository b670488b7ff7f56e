package peer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peercore/internal/core/domain"
	"peercore/internal/core/ports"
)

func videoCapabilities() domain.RTPCapabilities {
	return domain.RTPCapabilities{
		Codecs: []domain.RTPCodecCapability{
			{Kind: domain.MediaKindVideo, MimeType: "video/VP8", ClockRate: 90000, PayloadType: 96},
		},
	}
}

func payloadType(pt uint8) *uint8 { return &pt }

// AddConsumer must not return until the Consumer is installed and the
// "newconsumer" notification has been emitted — no manual Sync() needed.
func TestAddConsumer_BlocksUntilInstalled(t *testing.T) {
	notifier := &fakeNotifier{}
	p := newTestPeer(t, &fakeListener{}, notifier)

	consumer := newFakeConsumer(200, domain.MediaKindAudio, 1000)
	p.AddConsumer(consumer, domain.RTPParameters{}, 100)

	_, ok := p.consumers[200]
	assert.True(t, ok)
	assert.Len(t, notifier.all(), 1)
}

// OnProducerParameters drops a codec this Peer's capabilities don't
// support, and drops the encodings that were bound to it.
func TestOnProducerParameters_DropsUnsupportedCodecAndEncoding(t *testing.T) {
	p := newTestPeer(t, &fakeListener{}, &fakeNotifier{})
	capsJSON, err := marshalCaps(videoCapabilities())
	require.NoError(t, err)
	_, _, _ = syncRequest(p, ports.MethodPeerSetCapabilities, ports.RequestInternal{}, capsJSON)

	producer := newFakeProducer(100, domain.MediaKindVideo)
	p.loop.post(func() { p.producers[100] = producer })
	p.Sync()

	params := domain.RTPParameters{
		Codecs: []domain.RTPCodecParameters{
			{Kind: domain.MediaKindVideo, MimeType: "video/VP8", ClockRate: 90000, PayloadType: 96},
			{Kind: domain.MediaKindVideo, MimeType: "video/H264", ClockRate: 90000, PayloadType: 97},
		},
		Encodings: []domain.RTPEncoding{
			{SSRC: 1, CodecPayloadType: payloadType(96)},
			{SSRC: 2, CodecPayloadType: payloadType(97)},
		},
	}

	err = p.OnProducerParameters(producer, params)
	require.NoError(t, err)

	reduced := producer.RTPParameters()
	require.Len(t, reduced.Codecs, 1)
	assert.Equal(t, uint8(96), reduced.Codecs[0].PayloadType)
	require.Len(t, reduced.Encodings, 1)
	assert.EqualValues(t, 1, reduced.Encodings[0].SSRC)
}

// A zero SSRC is never valid and is rejected before any reduction happens.
func TestOnProducerParameters_RejectsZeroSSRC(t *testing.T) {
	p := newTestPeer(t, &fakeListener{}, &fakeNotifier{})
	producer := newFakeProducer(100, domain.MediaKindVideo)
	p.loop.post(func() { p.producers[100] = producer })
	p.Sync()

	err := p.OnProducerParameters(producer, domain.RTPParameters{
		Encodings: []domain.RTPEncoding{{SSRC: 0}},
	})

	assert.Error(t, err)
}
