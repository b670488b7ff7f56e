// Package rtcpext implements the two legacy RFC 4585 payload-specific
// feedback messages github.com/pion/rtcp does not: Slice Loss Indication
// (PSFB FMT 2) and Reference Picture Selection Indication (PSFB FMT 3). Both
// types are shaped like pion/rtcp's own packet types (Header/Marshal/
// Unmarshal/DestinationSSRC) so they compose into the same []rtcp.Packet
// slice the demultiplexer already walks.
package rtcpext

import (
	"encoding/binary"
	"fmt"

	"github.com/pion/rtcp"
)

const (
	// sliFMT is the PSFB feedback message type for Slice Loss Indication.
	sliFMT = 2
	sliEntryLength = 4
	sliHeaderLength = 8 // SenderSSRC + MediaSSRC
)

// SLIEntry is one slice-loss entry: First is the first lost macroblock
// (13 bits), Number is the run length of lost macroblocks (13 bits), and
// PictureID is the six low bits of the picture's temporal id.
type SLIEntry struct {
	First     uint16
	Number    uint16
	PictureID uint8
}

// SLIPacket is an RFC 4585 §6.3.2 Slice Loss Indication message.
type SLIPacket struct {
	SenderSSRC uint32
	MediaSSRC  uint32
	Entries    []SLIEntry
}

var _ rtcp.Packet = (*SLIPacket)(nil)

// Header returns the RTCP header this packet would marshal with.
func (p *SLIPacket) Header() rtcp.Header {
	return rtcp.Header{
		Count:  sliFMT,
		Type:   rtcp.TypePayloadSpecificFeedback,
		Length: uint16((headerSize+sliHeaderLength+len(p.Entries)*sliEntryLength)/4 - 1),
	}
}

// DestinationSSRC implements rtcp.Packet.
func (p *SLIPacket) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}

// Marshal encodes the packet per RFC 4585 §6.3.2.
func (p *SLIPacket) Marshal() ([]byte, error) {
	payload := make([]byte, sliHeaderLength+len(p.Entries)*sliEntryLength)
	binary.BigEndian.PutUint32(payload[0:4], p.SenderSSRC)
	binary.BigEndian.PutUint32(payload[4:8], p.MediaSSRC)
	for i, e := range p.Entries {
		off := sliHeaderLength + i*sliEntryLength
		word := (uint32(e.First&0x1fff) << 19) | (uint32(e.Number&0x1fff) << 6) | uint32(e.PictureID&0x3f)
		binary.BigEndian.PutUint32(payload[off:off+4], word)
	}

	header := p.Header()
	headerBytes, err := header.Marshal()
	if err != nil {
		return nil, err
	}
	return append(headerBytes, payload...), nil
}

// Unmarshal decodes a Slice Loss Indication packet, header included.
func (p *SLIPacket) Unmarshal(rawPacket []byte) error {
	var header rtcp.Header
	if err := header.Unmarshal(rawPacket); err != nil {
		return err
	}
	if header.Type != rtcp.TypePayloadSpecificFeedback || header.Count != sliFMT {
		return fmt.Errorf("rtcpext: not a Slice Loss Indication packet")
	}

	body := rawPacket[4:]
	if len(body) < sliHeaderLength {
		return fmt.Errorf("rtcpext: SLI packet too short")
	}
	p.SenderSSRC = binary.BigEndian.Uint32(body[0:4])
	p.MediaSSRC = binary.BigEndian.Uint32(body[4:8])

	remaining := body[sliHeaderLength:]
	p.Entries = p.Entries[:0]
	for len(remaining) >= sliEntryLength {
		word := binary.BigEndian.Uint32(remaining[:sliEntryLength])
		p.Entries = append(p.Entries, SLIEntry{
			First:     uint16(word>>19) & 0x1fff,
			Number:    uint16(word>>6) & 0x1fff,
			PictureID: uint8(word & 0x3f),
		})
		remaining = remaining[sliEntryLength:]
	}
	return nil
}
