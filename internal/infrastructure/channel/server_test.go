package channel

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pion/rtcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"peercore/internal/core/domain"
	"peercore/internal/core/ports"
	"peercore/pkg/config"
)

type noopListener struct{}

func (noopListener) OnPeerClosed(ports.PeerRef)                                          {}
func (noopListener) OnPeerCapabilities(ports.PeerRef, *domain.RTPCapabilities)            {}
func (noopListener) OnPeerProducerParameters(ports.PeerRef, ports.Producer)               {}
func (noopListener) OnPeerProducerClosed(ports.PeerRef, ports.Producer)                   {}
func (noopListener) OnPeerConsumerClosed(ports.PeerRef, ports.Consumer)                   {}
func (noopListener) OnPeerRtpPacket(ports.PeerRef, ports.Producer, *ports.RtpPacket)      {}
func (noopListener) OnPeerRtcpSenderReport(ports.PeerRef, ports.Producer, *rtcp.SenderReport) {}
func (noopListener) OnPeerRtcpReceiverReport(ports.PeerRef, ports.Consumer, *rtcp.ReceiverReport) {
}
func (noopListener) OnPeerRtcpFeedback(ports.PeerRef, ports.Consumer, rtcp.Packet) {}
func (noopListener) OnFullFrameRequired(ports.PeerRef, ports.Consumer)            {}

func newTestServer(t *testing.T) (*Authenticator, *httptest.Server) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.RateLimiting.Enabled = false
	auth := NewAuthenticator("test-secret", time.Minute)
	srv := NewServer(cfg, auth, noopListener{}, zap.NewNop())

	httpSrv := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	return auth, httpSrv
}

func dialWithToken(t *testing.T, httpURL string, token string) *websocket.Conn {
	t.Helper()
	u, err := url.Parse(httpURL)
	require.NoError(t, err)
	u.Scheme = "ws"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	return conn
}

func TestHandleWebSocket_RejectsMissingToken(t *testing.T) {
	cfg := config.DefaultConfig()
	auth := NewAuthenticator("test-secret", time.Minute)
	srv := NewServer(cfg, auth, noopListener{}, zap.NewNop())
	httpSrv := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	defer httpSrv.Close()

	resp, err := http.Get(httpSrv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleWebSocket_DumpRoundTrip(t *testing.T) {
	auth, httpSrv := newTestServer(t)
	defer httpSrv.Close()

	token, err := auth.GenerateToken(domain.PeerID(7))
	require.NoError(t, err)

	conn := dialWithToken(t, httpSrv.URL, token)
	defer conn.Close()

	req := RequestFrame{MethodID: ports.MethodPeerDump}
	require.NoError(t, conn.WriteJSON(req))

	var resp ResponseFrame
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&resp))
	require.True(t, resp.Accept)
}

func TestHandleWebSocket_UnknownMethodRejected(t *testing.T) {
	auth, httpSrv := newTestServer(t)
	defer httpSrv.Close()

	token, err := auth.GenerateToken(domain.PeerID(8))
	require.NoError(t, err)

	conn := dialWithToken(t, httpSrv.URL, token)
	defer conn.Close()

	raw, _ := json.Marshal(map[string]any{"methodId": "BOGUS"})
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))

	var resp ResponseFrame
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&resp))
	require.False(t, resp.Accept)
	require.Equal(t, domain.ReasonUnknownMethod, resp.Reason)
}
