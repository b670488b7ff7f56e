package channel

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"peercore/internal/core/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims identifies which Peer a control-channel connection is allowed to
// drive.
type Claims struct {
	PeerID domain.PeerID `json:"peer_id"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates the bearer tokens the demo control
// channel uses to gate a WebSocket connection to one Peer.
type Authenticator struct {
	secret         []byte
	accessTokenTTL time.Duration
}

func NewAuthenticator(secret string, accessTokenTTL time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), accessTokenTTL: accessTokenTTL}
}

// GenerateToken issues a short-lived bearer token scoped to one Peer.
func (a *Authenticator) GenerateToken(peerID domain.PeerID) (string, error) {
	claims := &Claims{
		PeerID: peerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken returns the Peer ID a bearer token is scoped to.
func (a *Authenticator) ValidateToken(tokenString string) (domain.PeerID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.PeerID, nil
}
