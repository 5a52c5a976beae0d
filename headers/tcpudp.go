package headers

import "encoding/binary"

// TCP is a TCP header truncated to the fields the controller matches
// on: the source and destination ports.
type TCP struct {
	SrcPort uint16
	DstPort uint16
}

// ParseTCP parses the source/destination port pair from the front of a
// TCP segment.
func ParseTCP(b []byte) (*TCP, error) {
	if len(b) < 4 {
		return nil, ErrTruncated
	}

	return &TCP{
		SrcPort: binary.BigEndian.Uint16(b[0:2]),
		DstPort: binary.BigEndian.Uint16(b[2:4]),
	}, nil
}

// UDP is a UDP header truncated to the fields the controller matches
// on: the source and destination ports.
type UDP struct {
	SrcPort uint16
	DstPort uint16
}

// ParseUDP parses the source/destination port pair from the front of a
// UDP datagram.
func ParseUDP(b []byte) (*UDP, error) {
	if len(b) < 4 {
		return nil, ErrTruncated
	}

	return &UDP{
		SrcPort: binary.BigEndian.Uint16(b[0:2]),
		DstPort: binary.BigEndian.Uint16(b[2:4]),
	}, nil
}
