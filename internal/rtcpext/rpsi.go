package rtcpext

import (
	"encoding/binary"
	"fmt"

	"github.com/pion/rtcp"
)

// rpsiFMT is the PSFB feedback message type for Reference Picture Selection
// Indication.
const rpsiFMT = 3

// RPSIPacket is an RFC 4585 §6.3.3 Reference Picture Selection Indication
// message: an opaque, codec-specific bitstring naming the picture the
// decoder should roll back to.
type RPSIPacket struct {
	SenderSSRC    uint32
	MediaSSRC     uint32
	PayloadType   uint8
	PictureBitstring []byte
}

var _ rtcp.Packet = (*RPSIPacket)(nil)

func (p *RPSIPacket) Header() rtcp.Header {
	paddedBitstringLen := (len(p.PictureBitstring) + 2 + 3) / 4 * 4
	return rtcp.Header{
		Count:  rpsiFMT,
		Type:   rtcp.TypePayloadSpecificFeedback,
		Length: uint16((headerSize+8+paddedBitstringLen)/4 - 1),
	}
}

func (p *RPSIPacket) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}

// Marshal encodes the packet per RFC 4585 §6.3.3: a one-byte padding-bit
// count, a one-byte payload type, then the native bitstring padded to a
// 32-bit boundary with zero bits (the padding count records how many).
func (p *RPSIPacket) Marshal() ([]byte, error) {
	body := make([]byte, 2+len(p.PictureBitstring))
	body[1] = p.PayloadType
	copy(body[2:], p.PictureBitstring)

	padding := (4 - len(body)%4) % 4
	body[0] = uint8(padding * 8)
	body = append(body, make([]byte, padding)...)

	payload := make([]byte, 8+len(body))
	binary.BigEndian.PutUint32(payload[0:4], p.SenderSSRC)
	binary.BigEndian.PutUint32(payload[4:8], p.MediaSSRC)
	copy(payload[8:], body)

	header := p.Header()
	headerBytes, err := header.Marshal()
	if err != nil {
		return nil, err
	}
	return append(headerBytes, payload...), nil
}

// Unmarshal decodes a Reference Picture Selection Indication packet, header
// included.
func (p *RPSIPacket) Unmarshal(rawPacket []byte) error {
	var header rtcp.Header
	if err := header.Unmarshal(rawPacket); err != nil {
		return err
	}
	if header.Type != rtcp.TypePayloadSpecificFeedback || header.Count != rpsiFMT {
		return fmt.Errorf("rtcpext: not a Reference Picture Selection Indication packet")
	}

	body := rawPacket[4:]
	if len(body) < 10 {
		return fmt.Errorf("rtcpext: RPSI packet too short")
	}
	p.SenderSSRC = binary.BigEndian.Uint32(body[0:4])
	p.MediaSSRC = binary.BigEndian.Uint32(body[4:8])

	paddingBits := int(body[8])
	p.PayloadType = body[9] & 0x7f

	bitstring := body[10:]
	paddingBytes := paddingBits / 8
	if paddingBytes > len(bitstring) {
		return fmt.Errorf("rtcpext: RPSI padding exceeds bitstring")
	}
	p.PictureBitstring = bitstring[:len(bitstring)-paddingBytes]
	return nil
}
