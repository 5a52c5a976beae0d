package ofputil

import "github.com/pathweave/sdnctl/ofp"

// The basic()-based constructors below extend match.go with the L2/L3/L4
// fields the flow-classified and L2 packet-in branches match on: MAC
// addresses, IPv4 addresses, and TCP/UDP ports.

// MatchEthDst creates a match of the Ethernet destination address.
func MatchEthDst(mac []byte) ofp.XM {
	return basic(ofp.XMTypeEthDst, mac, nil)
}

// MatchEthSrc creates a match of the Ethernet source address.
func MatchEthSrc(mac []byte) ofp.XM {
	return basic(ofp.XMTypeEthSrc, mac, nil)
}

// MatchIPv4Src creates a match of the IPv4 source address.
func MatchIPv4Src(ip []byte) ofp.XM {
	return basic(ofp.XMTypeIPv4Src, ip, nil)
}

// MatchIPv4Dst creates a match of the IPv4 destination address.
func MatchIPv4Dst(ip []byte) ofp.XM {
	return basic(ofp.XMTypeIPv4Dst, ip, nil)
}

// MatchTCPSrc creates a match of the TCP source port.
func MatchTCPSrc(port uint16) ofp.XM {
	return basic(ofp.XMTypeTCPSrc, bytesOf(port), nil)
}

// MatchTCPDst creates a match of the TCP destination port.
func MatchTCPDst(port uint16) ofp.XM {
	return basic(ofp.XMTypeTCPDst, bytesOf(port), nil)
}

// MatchUDPSrc creates a match of the UDP source port.
func MatchUDPSrc(port uint16) ofp.XM {
	return basic(ofp.XMTypeUDPSrc, bytesOf(port), nil)
}

// MatchUDPDst creates a match of the UDP destination port.
func MatchUDPDst(port uint16) ofp.XM {
	return basic(ofp.XMTypeUDPDst, bytesOf(port), nil)
}
