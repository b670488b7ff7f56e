package ports

import (
	"encoding/json"
	"fmt"

	"peercore/internal/core/domain"
)

// MethodID enumerates the control-plane request methods a Peer dispatches.
type MethodID string

const (
	MethodPeerClose               MethodID = "PEER_CLOSE"
	MethodPeerDump                MethodID = "PEER_DUMP"
	MethodPeerSetCapabilities     MethodID = "PEER_SET_CAPABILITIES"
	MethodPeerCreateTransport     MethodID = "PEER_CREATE_TRANSPORT"
	MethodPeerCreateProducer      MethodID = "PEER_CREATE_PRODUCER"

	MethodTransportClose                     MethodID = "TRANSPORT_CLOSE"
	MethodTransportDump                      MethodID = "TRANSPORT_DUMP"
	MethodTransportSetRemoteDTLSParameters   MethodID = "TRANSPORT_SET_REMOTE_DTLS_PARAMETERS"
	MethodTransportSetMaxBitrate             MethodID = "TRANSPORT_SET_MAX_BITRATE"
	MethodTransportChangeUfragPwd            MethodID = "TRANSPORT_CHANGE_UFRAG_PWD"

	MethodProducerClose                MethodID = "PRODUCER_CLOSE"
	MethodProducerDump                 MethodID = "PRODUCER_DUMP"
	MethodProducerReceive              MethodID = "PRODUCER_RECEIVE"
	MethodProducerSetRtpRawEvent       MethodID = "PRODUCER_SET_RTP_RAW_EVENT"
	MethodProducerSetRtpObjectEvent    MethodID = "PRODUCER_SET_RTP_OBJECT_EVENT"
	MethodProducerSetTransport         MethodID = "PRODUCER_SET_TRANSPORT"

	MethodConsumerDump         MethodID = "CONSUMER_DUMP"
	MethodConsumerSetTransport MethodID = "CONSUMER_SET_TRANSPORT"
	MethodConsumerDisable      MethodID = "CONSUMER_DISABLE"
)

// RequestInternal carries the id fields addressed by a request. Each field is
// raw JSON so the dispatcher can distinguish "absent" from "present but not
// numeric" the same way the wire protocol does — both are a rejection, but
// with method-specific reason text.
type RequestInternal struct {
	TransportID json.RawMessage `json:"transportId,omitempty"`
	ProducerID  json.RawMessage `json:"producerId,omitempty"`
	ConsumerID  json.RawMessage `json:"consumerId,omitempty"`
}

// uintID decodes a raw internal id field as an unsigned 32-bit integer.
// Absent or non-numeric fields report ok=false.
func uintID(raw json.RawMessage) (uint32, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n uint32
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// TransportIDValue returns the request's internal.transportId, if numeric.
func (i RequestInternal) TransportIDValue() (domain.TransportID, bool) {
	n, ok := uintID(i.TransportID)
	return domain.TransportID(n), ok
}

// ProducerIDValue returns the request's internal.producerId, if numeric.
func (i RequestInternal) ProducerIDValue() (domain.ProducerID, bool) {
	n, ok := uintID(i.ProducerID)
	return domain.ProducerID(n), ok
}

// ConsumerIDValue returns the request's internal.consumerId, if numeric.
func (i RequestInternal) ConsumerIDValue() (domain.ConsumerID, bool) {
	n, ok := uintID(i.ConsumerID)
	return domain.ConsumerID(n), ok
}

// Request is one control-plane request addressed to a Peer or one of its
// owned entities. Accept and Reject resolve it exactly once; calling either
// a second time is a programmer error and panics, matching the "every
// operation must Accept or Reject exactly once" contract.
type Request struct {
	MethodID MethodID
	Internal RequestInternal
	Data     json.RawMessage

	accept   func(result any)
	reject   func(reason string)
	resolved bool
}

// NewRequest constructs a Request bound to the given resolution callbacks.
// Callers (the control channel) own delivering the resolution back to the
// client; the Peer only ever calls Accept/Reject once.
func NewRequest(method MethodID, internal RequestInternal, data json.RawMessage, accept func(any), reject func(string)) *Request {
	return &Request{MethodID: method, Internal: internal, Data: data, accept: accept, reject: reject}
}

func (r *Request) Accept(result any) {
	if r.resolved {
		panic(fmt.Sprintf("request %s already resolved", r.MethodID))
	}
	r.resolved = true
	if r.accept != nil {
		r.accept(result)
	}
}

func (r *Request) Reject(reason string) {
	if r.resolved {
		panic(fmt.Sprintf("request %s already resolved", r.MethodID))
	}
	r.resolved = true
	if r.reject != nil {
		r.reject(reason)
	}
}
