package rtcpext

import (
	"errors"

	"github.com/pion/rtcp"
)

// headerSize is the fixed 4-byte RTCP header every sub-packet starts with.
const headerSize = 4

// errPacketTooShort is returned when a sub-packet's declared length exceeds
// the remaining buffer. pion/rtcp does not export an equivalent error.
var errPacketTooShort = errors.New("rtcp: packet too short")

// DecodeCompound splits a raw RTCP compound packet into pion/rtcp's own
// packet types plus this package's SLI/RPSI types, in wire order. It exists
// because pion/rtcp.Unmarshal does not recognize PSFB FMT 2 (SLI) or FMT 3
// (RPSI) and returns an error on encountering them; this walks the compound
// sub-packet by sub-packet instead, handing each one to pion/rtcp unless its
// header says SLI or RPSI.
func DecodeCompound(data []byte) ([]rtcp.Packet, error) {
	var packets []rtcp.Packet

	for len(data) >= headerSize {
		var header rtcp.Header
		if err := header.Unmarshal(data); err != nil {
			return packets, err
		}
		length := (int(header.Length) + 1) * 4
		if length > len(data) {
			return packets, errPacketTooShort
		}
		chunk := data[:length]

		switch {
		case header.Type == rtcp.TypePayloadSpecificFeedback && header.Count == sliFMT:
			sli := &SLIPacket{}
			if err := sli.Unmarshal(chunk); err == nil {
				packets = append(packets, sli)
			}
		case header.Type == rtcp.TypePayloadSpecificFeedback && header.Count == rpsiFMT:
			rpsi := &RPSIPacket{}
			if err := rpsi.Unmarshal(chunk); err == nil {
				packets = append(packets, rpsi)
			}
		default:
			pkt, err := rtcp.Unmarshal(chunk)
			if err == nil {
				packets = append(packets, pkt...)
			}
		}

		data = data[length:]
	}

	return packets, nil
}
