package headers

import (
	"encoding/binary"
	"errors"
	"net"
)

// ARPOpcode identifies the operation carried by an ARP packet.
type ARPOpcode uint16

const (
	ARPRequest ARPOpcode = 1
	ARPReply   ARPOpcode = 2
)

const (
	hwTypeEthernet  uint16 = 1
	protoTypeIPv4   uint16 = uint16(EtherTypeIPv4)
	hwAddrLen       uint8  = 6
	protoAddrLen    uint8  = 4
	arpLen          int    = 28
)

// ARP is an ARP packet restricted to Ethernet/IPv4 addressing, which
// is the only combination this controller ever needs to parse or
// synthesize.
type ARP struct {
	Opcode ARPOpcode

	// SHA/THA are the sender/target hardware (MAC) addresses.
	SHA, THA net.HardwareAddr

	// SPA/TPA are the sender/target protocol (IPv4) addresses.
	SPA, TPA net.IP
}

// ParseARP parses an Ethernet/IPv4 ARP packet from b.
func ParseARP(b []byte) (*ARP, error) {
	if len(b) < arpLen {
		return nil, ErrTruncated
	}

	if binary.BigEndian.Uint16(b[0:2]) != hwTypeEthernet ||
		binary.BigEndian.Uint16(b[2:4]) != protoTypeIPv4 ||
		b[4] != hwAddrLen || b[5] != protoAddrLen {
		return nil, errors.New("headers: unsupported ARP address family")
	}

	a := &ARP{
		Opcode: ARPOpcode(binary.BigEndian.Uint16(b[6:8])),
		SHA:    net.HardwareAddr(append([]byte(nil), b[8:14]...)),
		SPA:    net.IP(append([]byte(nil), b[14:18]...)),
		THA:    net.HardwareAddr(append([]byte(nil), b[18:24]...)),
		TPA:    net.IP(append([]byte(nil), b[24:28]...)),
	}

	return a, nil
}

// Bytes serializes the ARP packet into its wire format.
func (a *ARP) Bytes() []byte {
	buf := make([]byte, arpLen)
	binary.BigEndian.PutUint16(buf[0:2], hwTypeEthernet)
	binary.BigEndian.PutUint16(buf[2:4], protoTypeIPv4)
	buf[4], buf[5] = hwAddrLen, protoAddrLen
	binary.BigEndian.PutUint16(buf[6:8], uint16(a.Opcode))
	copy(buf[8:14], padMAC(a.SHA))
	copy(buf[14:18], a.SPA.To4())
	copy(buf[18:24], padMAC(a.THA))
	copy(buf[24:28], a.TPA.To4())
	return buf
}
