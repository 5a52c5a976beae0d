package headers

import (
	"encoding/binary"
	"net"
)

// IP protocol numbers this controller classifies on.
const (
	ProtoICMP uint8 = 1
	ProtoTCP  uint8 = 6
	ProtoUDP  uint8 = 17
)

// IPv4 is an IPv4 header, stripped of options (the controller never
// needs to match on them).
type IPv4 struct {
	Protocol uint8
	Src      net.IP
	Dst      net.IP

	// ihl is the header length in 32-bit words, kept so ParseIPv4 can
	// skip any options before returning the payload.
	ihl uint8
}

// ParseIPv4 parses the IPv4 header from the front of b and returns the
// header along with the remaining payload (options stripped).
func ParseIPv4(b []byte) (*IPv4, []byte, error) {
	if len(b) < 20 {
		return nil, nil, ErrTruncated
	}

	ihl := b[0] & 0x0f
	hlen := int(ihl) * 4
	if hlen < 20 || len(b) < hlen {
		return nil, nil, ErrTruncated
	}

	ip := &IPv4{
		Protocol: b[9],
		Src:      net.IP(append([]byte(nil), b[12:16]...)),
		Dst:      net.IP(append([]byte(nil), b[16:20]...)),
		ihl:      ihl,
	}

	return ip, b[hlen:], nil
}

// Bytes serializes a minimal IPv4 header (20 bytes, no options) with
// the given payload length. It is used only to round-trip test data;
// the controller never originates IPv4 packets of its own.
func (ip *IPv4) Bytes(payloadLen int) []byte {
	buf := make([]byte, 20)
	buf[0] = 0x45 // version 4, IHL 5
	binary.BigEndian.PutUint16(buf[2:4], uint16(20+payloadLen))
	buf[8] = 64 // TTL
	buf[9] = ip.Protocol
	copy(buf[12:16], ip.Src.To4())
	copy(buf[16:20], ip.Dst.To4())
	return buf
}
