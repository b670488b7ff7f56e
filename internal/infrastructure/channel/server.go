// Package channel implements a minimal, explicitly best-effort
// JSON-over-WebSocket control channel for local development and the
// integration tests. It stands in for the real mediasoup-style
// Channel/Room transport, which is out of scope for the Peer core.
package channel

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"peercore/internal/core/domain"
	"peercore/internal/core/peer"
	"peercore/internal/core/ports"
	"peercore/pkg/config"
)

// connection pairs one WebSocket with the Peer it drives. Writes are
// serialized: both the read loop's responses and Notify's pushes from other
// goroutines write to the same socket.
type connection struct {
	conn      *websocket.Conn
	peer      *peer.Peer
	writeMu   sync.Mutex
	msgLimiter *rate.Limiter
}

func (c *connection) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

// Server accepts one WebSocket connection per Peer and bridges its frames to
// peer.Peer.HandleRequest. It implements ports.Notifier so Peers can push
// notifications back down the same connection they arrived on.
type Server struct {
	mu          sync.RWMutex
	connections map[domain.PeerID]*connection

	auth     *Authenticator
	listener ports.RoomListener
	logger   *zap.Logger
	cfg      *config.Config
	peerOpts []peer.Option

	upgrader websocket.Upgrader
}

// NewServer builds a channel Server. peerOpts are applied to every Peer the
// server constructs (transport/producer factories, metrics, and so on),
// in addition to the per-peer request rate limit derived from cfg.
func NewServer(cfg *config.Config, auth *Authenticator, listener ports.RoomListener, logger *zap.Logger, peerOpts ...peer.Option) *Server {
	allowed := make(map[string]bool, len(cfg.Auth.AllowedOrigins))
	for _, origin := range cfg.Auth.AllowedOrigins {
		allowed[origin] = true
	}

	return &Server{
		connections: make(map[domain.PeerID]*connection),
		auth:        auth,
		listener:    listener,
		logger:      logger,
		cfg:         cfg,
		peerOpts:    peerOpts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if allowed["*"] || len(allowed) == 0 {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// Notify implements ports.Notifier: it writes a NotificationFrame to the
// target Peer's connection if one is currently open. A disconnected target
// silently drops the notification, matching the best-effort nature of this
// demo transport.
func (s *Server) Notify(target domain.PeerID, event string, payload any) {
	s.mu.RLock()
	conn, ok := s.connections[target]
	s.mu.RUnlock()
	if !ok {
		return
	}
	frame := NotificationFrame{TargetID: target, Event: event, Data: payload}
	if err := conn.writeJSON(frame); err != nil {
		s.logger.Warn("failed to deliver notification", zap.Uint32("peerId", uint32(target)), zap.String("event", event), zap.Error(err))
	}
}

// DumpPeer issues a synchronous PEER_DUMP request to a connected Peer, for
// the admin HTTP surface. It reports ok=false if no Peer with that id is
// currently connected.
func (s *Server) DumpPeer(id domain.PeerID) (result any, ok bool) {
	s.mu.RLock()
	c, found := s.connections[id]
	s.mu.RUnlock()
	if !found {
		return nil, false
	}

	done := make(chan struct{})
	req := ports.NewRequest(ports.MethodPeerDump, ports.RequestInternal{}, nil,
		func(res any) { result = res; close(done) },
		func(string) { close(done) },
	)
	c.peer.HandleRequest(req)
	<-done
	return result, true
}

// HandleWebSocket upgrades the connection, authenticates it, constructs the
// addressed Peer, and runs its read loop until the socket closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	peerID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(s.cfg.RateLimiting.Channel.MaxMessageSizeBytes)

	opts := append([]peer.Option{}, s.peerOpts...)
	if s.cfg.RateLimiting.Enabled {
		opts = append(opts, peer.WithRequestRateLimit(
			s.cfg.RateLimiting.PerPeerRequest.RequestsPerSecond,
			s.cfg.RateLimiting.PerPeerRequest.Burst,
		))
	}

	p := peer.New(peerID, fmt.Sprintf("peer-%d", peerID), s.listener, s, s.logger, opts...)

	c := &connection{conn: conn, peer: p}
	if s.cfg.RateLimiting.Enabled {
		c.msgLimiter = rate.NewLimiter(
			rate.Limit(s.cfg.RateLimiting.Channel.MessagesPerSecond),
			s.cfg.RateLimiting.Channel.Burst,
		)
	}

	s.mu.Lock()
	if existing, reconnect := s.connections[peerID]; reconnect {
		existing.conn.Close()
	}
	s.connections[peerID] = c
	s.mu.Unlock()

	s.logger.Info("peer connected", zap.Uint32("peerId", uint32(peerID)))
	s.readLoop(c)

	s.mu.Lock()
	if s.connections[peerID] == c {
		delete(s.connections, peerID)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	closeReq := ports.NewRequest(ports.MethodPeerClose, ports.RequestInternal{}, nil,
		func(any) { close(done) },
		func(string) { close(done) },
	)
	p.HandleRequest(closeReq)
	<-done

	s.logger.Info("peer disconnected", zap.Uint32("peerId", uint32(peerID)))
}

func (s *Server) readLoop(c *connection) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("unexpected websocket close", zap.Error(err))
			}
			return
		}

		if c.msgLimiter != nil && !c.msgLimiter.Allow() {
			_ = c.writeJSON(ResponseFrame{Accept: false, Reason: domain.ReasonTooManyRequests})
			continue
		}

		var frame RequestFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			_ = c.writeJSON(ResponseFrame{Accept: false, Reason: "malformed request frame"})
			continue
		}

		req := ports.NewRequest(frame.MethodID, frame.Internal, frame.Data,
			func(result any) { _ = c.writeJSON(ResponseFrame{Accept: true, Data: result}) },
			func(reason string) { _ = c.writeJSON(ResponseFrame{Accept: false, Reason: reason}) },
		)
		c.peer.HandleRequest(req)
	}
}

// authenticate extracts and validates the bearer token from either the
// Authorization header or a "token" query parameter (gorilla/websocket
// clients can't always set arbitrary headers), and returns the Peer id held
// in the token's claim. No peer id is read from the request itself.
func (s *Server) authenticate(r *http.Request) (domain.PeerID, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
	}
	if token == "" {
		return 0, fmt.Errorf("missing bearer token")
	}
	return s.auth.ValidateToken(token)
}
