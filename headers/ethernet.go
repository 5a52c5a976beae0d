// Package headers encodes and decodes the handful of L2/L3/L4 headers
// the controller needs to inspect to classify a packet-in and to
// synthesize an ARP reply: Ethernet, ARP, IPv4, TCP and UDP.
//
// Each protocol is a tagged variant rather than a single struct with
// dynamic field access: the dispatcher parses one layer at a time and
// switches exhaustively on the result, matching the wire codec's own
// WriteTo/ReadFrom convention.
package headers

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
)

// EtherType identifies the payload protocol carried by an Ethernet frame.
type EtherType uint16

const (
	EtherTypeIPv4 EtherType = 0x0800
	EtherTypeARP  EtherType = 0x0806
	EtherTypeVLAN EtherType = 0x8100
)

const ethernetLen = 14

// ErrTruncated is returned when a buffer is too short to contain the
// header being parsed.
var ErrTruncated = errors.New("headers: truncated frame")

// Ethernet is an Ethernet II frame header.
type Ethernet struct {
	Dst       net.HardwareAddr
	Src       net.HardwareAddr
	EtherType EtherType
}

// ParseEthernet parses the Ethernet header from the front of b and
// returns the header along with the remaining payload.
func ParseEthernet(b []byte) (*Ethernet, []byte, error) {
	if len(b) < ethernetLen {
		return nil, nil, ErrTruncated
	}

	eth := &Ethernet{
		Dst:       net.HardwareAddr(append([]byte(nil), b[0:6]...)),
		Src:       net.HardwareAddr(append([]byte(nil), b[6:12]...)),
		EtherType: EtherType(binary.BigEndian.Uint16(b[12:14])),
	}

	return eth, b[ethernetLen:], nil
}

// WriteTo implements io.WriterTo. It serializes the Ethernet header
// into the wire format.
func (e *Ethernet) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, ethernetLen)
	copy(buf[0:6], padMAC(e.Dst))
	copy(buf[6:12], padMAC(e.Src))
	binary.BigEndian.PutUint16(buf[12:14], uint16(e.EtherType))

	n, err := w.Write(buf)
	return int64(n), err
}

// padMAC returns hw padded or truncated to exactly 6 bytes, so a zero
// value net.HardwareAddr never produces a malformed frame.
func padMAC(hw net.HardwareAddr) []byte {
	out := make([]byte, 6)
	copy(out, hw)
	return out
}
