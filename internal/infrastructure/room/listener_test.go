package room

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"peercore/internal/core/domain"
)

type fakePeerRef struct {
	id   domain.PeerID
	name string
}

func (f fakePeerRef) ID() domain.PeerID { return f.id }
func (f fakePeerRef) Name() string      { return f.name }

func TestLoggingListener_OnPeerClosed(t *testing.T) {
	l := NewLoggingListener(zaptest.NewLogger(t))
	l.OnPeerClosed(fakePeerRef{id: 1, name: "peer-1"})
}

func TestLoggingListener_OnFullFrameRequired(t *testing.T) {
	l := NewLoggingListener(zaptest.NewLogger(t))
	l.OnFullFrameRequired(fakePeerRef{id: 2, name: "peer-2"}, nil)
}
