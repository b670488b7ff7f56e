package peer

import "time"

// MaxVideoIntervalMs is the ceiling on the RTCP reporting interval: the RFC
// 3550 aggregate-bandwidth formula is never allowed to push the interval
// above this, no matter how little egress bandwidth a Peer's Consumers use.
const MaxVideoIntervalMs = 1000

// RTCPBufferSize is the fixed size of the RTCP send buffer. A serialized
// compound larger than this is dropped rather than sent.
const RTCPBufferSize = 65536

// requestQueueDepth bounds how many posted jobs may be outstanding on a
// Peer's loop before post blocks its caller.
const requestQueueDepth = 256

func msToDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
