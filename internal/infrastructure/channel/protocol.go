package channel

import (
	"encoding/json"

	"peercore/internal/core/domain"
	"peercore/internal/core/ports"
)

// RequestFrame is the wire shape of one inbound control-plane request.
type RequestFrame struct {
	MethodID ports.MethodID         `json:"methodId"`
	Internal ports.RequestInternal  `json:"internal"`
	Data     json.RawMessage        `json:"data,omitempty"`
}

// ResponseFrame is the wire shape of a Request's resolution.
type ResponseFrame struct {
	Accept bool   `json:"accept"`
	Data   any    `json:"data,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// NotificationFrame is the wire shape of an unsolicited event pushed to a
// Peer's connection.
type NotificationFrame struct {
	TargetID domain.PeerID `json:"targetId"`
	Event    string        `json:"event"`
	Data     any           `json:"data,omitempty"`
}
