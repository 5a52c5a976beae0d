package pathengine

import "net"

// FlowKey is the TCP/UDP 5-tuple a flow is classified on (§3).
type FlowKey struct {
	IPProto        uint8
	SrcIP, DstIP   string // net.IP.String() form, comparable/hashable
	SrcPort, DstPort uint16
}

// canonKey and its Reversed flag are the cache-key replacement of
// §9's first REDESIGN FLAG: rather than linearly scanning the cache
// for both a tuple and its reverse, the tuple is canonicalized once
// by ordering its two endpoints, so a single map lookup finds either
// direction.
type canonKey struct {
	IPProto          uint8
	AIP, BIP         string
	APort, BPort     uint16
}

// canonicalize returns k's canonical form and whether k matched in
// reverse order relative to that form.
func canonicalize(k FlowKey) (ck canonKey, reversed bool) {
	a := endpoint{k.SrcIP, k.SrcPort}
	b := endpoint{k.DstIP, k.DstPort}

	if a.less(b) {
		return canonKey{k.IPProto, a.ip, b.ip, a.port, b.port}, false
	}
	return canonKey{k.IPProto, b.ip, a.ip, b.port, a.port}, true
}

type endpoint struct {
	ip   string
	port uint16
}

func (e endpoint) less(o endpoint) bool {
	if e.ip != o.ip {
		return e.ip < o.ip
	}
	return e.port < o.port
}

// NewFlowKey builds a FlowKey from parsed headers.
func NewFlowKey(proto uint8, srcIP, dstIP net.IP, srcPort, dstPort uint16) FlowKey {
	return FlowKey{
		IPProto: proto,
		SrcIP:   srcIP.String(), DstIP: dstIP.String(),
		SrcPort: srcPort, DstPort: dstPort,
	}
}
