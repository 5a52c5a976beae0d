package controller

import (
	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/headers"
	"github.com/pathweave/sdnctl/ofp"
	"github.com/pathweave/sdnctl/ofputil"
	"github.com/pathweave/sdnctl/pathengine"
)

// handlePacketIn implements the classification of §4.5: Ethernet is
// parsed first; ARP goes to the proxy; non-IPv4 is dropped; IPv4
// TCP/UDP enters the flow-classified branch, everything else the L2
// branch.
func (c *Controller) handlePacketIn(rw of.ResponseWriter, r *of.Request) {
	var pin ofp.PacketIn
	if _, err := pin.ReadFrom(r.Body); err != nil {
		c.Log.WithError(err).Debug("controller: malformed packet-in")
		return
	}

	dpid, ok := c.dpidOf(rw)
	if !ok {
		return
	}
	c.Store.Touch(dpid)

	var inPort ofp.PortNo
	if f := pin.Match.Field(ofp.XMTypeInPort); f != nil {
		inPort = ofp.PortNo(f.Value.UInt32())
	}

	eth, payload, err := headers.ParseEthernet(pin.Data)
	if err != nil {
		return
	}

	c.Store.UpsertHost(eth.Src, nil, dpid, uint32(inPort))

	switch eth.EtherType {
	case headers.EtherTypeARP:
		c.handleARP(rw, &pin, dpid, inPort, eth, payload)
		return
	case headers.EtherTypeIPv4:
	default:
		return // LLDP and the like: drop silently, §4.5 step 3
	}

	ip, l4, err := headers.ParseIPv4(payload)
	if err != nil {
		return
	}

	switch ip.Protocol {
	case headers.ProtoTCP, headers.ProtoUDP:
		c.handleFlowClassified(rw, &pin, dpid, inPort, eth, ip, l4)
	default:
		c.handleL2(rw, &pin, dpid, inPort, eth, ip)
	}
}

// dpidOf resolves the dpid of the session rw belongs to.
func (c *Controller) dpidOf(rw of.ResponseWriter) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dpid, ok := c.sessions[rw.Conn()]
	return dpid, ok
}

// handleFlowClassified implements §4.5.1: a TCP/UDP packet-in is
// routed along a path computed/cached by the path engine.
func (c *Controller) handleFlowClassified(rw of.ResponseWriter, pin *ofp.PacketIn, ingress uint64, inPort ofp.PortNo, eth *headers.Ethernet, ip *headers.IPv4, l4 []byte) {
	var srcPort, dstPort uint16
	switch ip.Protocol {
	case headers.ProtoTCP:
		tcp, err := headers.ParseTCP(l4)
		if err != nil {
			return
		}
		srcPort, dstPort = tcp.SrcPort, tcp.DstPort
	case headers.ProtoUDP:
		udp, err := headers.ParseUDP(l4)
		if err != nil {
			return
		}
		srcPort, dstPort = udp.SrcPort, udp.DstPort
	}

	host := c.Store.FindHostByMAC(eth.Dst)
	if host == nil {
		return // unknown destination: drop silently
	}
	egress, egressPort := host.DPID, host.Port

	key := pathengine.NewFlowKey(ip.Protocol, ip.Src, ip.Dst, srcPort, dstPort)

	// Case A: ingress switch is also the egress switch.
	if ingress == egress {
		c.installExactFlow(rw, key, ip, srcPort, dstPort, ofp.PortNo(egressPort))
		c.emitPacketOut(rw, pin, inPort, ofp.PortNo(egressPort))
		return
	}

	// Case B: the cache already has an entry for this flow (or its
	// reverse); if this switch sits on that path, use it directly.
	if entry, reversed, ok := c.Engine.Lookup(key); ok {
		if port, ok := c.hopPort(entry, reversed, ingress); ok {
			c.installExactFlow(rw, key, ip, srcPort, dstPort, port)
			c.emitPacketOut(rw, pin, inPort, port)
			return
		}
		// This switch isn't on the cached path: drop it and fall
		// through to Case C's fresh computation.
		c.Engine.InvalidateKey(key)
	}

	// Case C: compute (and cache) a fresh path.
	entry, reversed := c.Engine.LookupOrCompute(key, ingress, egress)
	if entry == nil {
		return
	}

	port, ok := c.hopPort(entry, reversed, ingress)
	if !ok {
		return
	}
	c.installExactFlow(rw, key, ip, srcPort, dstPort, port)
	c.emitPacketOut(rw, pin, inPort, port)
}

// hopPort resolves the outbound port `at` should use for a cached
// path entry, taking its position and the traversal direction into
// account. It is O(1) thanks to the entry's dpid->index map (§9).
func (c *Controller) hopPort(entry *pathengine.CacheEntry, reversed bool, at uint64) (ofp.PortNo, bool) {
	idx, ok := entry.IndexOf(at)
	if !ok {
		return 0, false
	}

	var next uint64
	if !reversed {
		if idx+1 >= len(entry.Path) {
			return 0, false
		}
		next = entry.Path[idx+1]
	} else {
		if idx-1 < 0 {
			return 0, false
		}
		next = entry.Path[idx-1]
	}

	port, _, ok := c.Engine.PortsForHop(at, next)
	return ofp.PortNo(port), ok
}

// handleL2 implements §4.5.2: non-TCP/UDP IPv4 traffic is forwarded
// along a freshly-computed path and matched only on eth_dst.
func (c *Controller) handleL2(rw of.ResponseWriter, pin *ofp.PacketIn, ingress uint64, inPort ofp.PortNo, eth *headers.Ethernet, ip *headers.IPv4) {
	host := c.Store.FindHostByMAC(eth.Dst)
	if host == nil {
		return
	}
	egress, egressPort := host.DPID, host.Port

	var outPort ofp.PortNo
	if ingress == egress {
		outPort = ofp.PortNo(egressPort)
	} else {
		paths := c.Engine.AllShortestPaths(ingress, egress)
		if len(paths) == 0 || len(paths[0]) < 2 {
			return
		}
		port, _, ok := c.Engine.PortsForHop(paths[0][0], paths[0][1])
		if !ok {
			return
		}
		outPort = ofp.PortNo(port)
	}

	fmod := &ofp.FlowMod{
		Table: 0, Command: ofp.FlowAdd, Priority: priorityL2,
		Buffer: ofp.NoBuffer,
		Match:  ofputil.ExtendedMatch(ofputil.MatchEthDst(macBytes(eth.Dst))),
		Instructions: ofp.Instructions{
			&ofp.InstructionApplyActions{Actions: ofp.Actions{&ofp.ActionOutput{Port: outPort}}},
		},
	}
	if err := sendFlowMod(rw, fmod); err != nil {
		c.Log.WithError(err).Debug("controller: failed to install L2 flow")
	}

	c.emitPacketOut(rw, pin, inPort, outPort)
}

// installExactFlow installs the priority-1000 5-tuple flow-mod of
// §4.5.1/§4.7.
func (c *Controller) installExactFlow(rw of.ResponseWriter, key pathengine.FlowKey, ip *headers.IPv4, srcPort, dstPort uint16, outPort ofp.PortNo) {
	matches := []ofp.XM{
		ofputil.MatchEthType(0x0800),
		ofputil.MatchIPProto(ip.Protocol),
		ofputil.MatchIPv4Src(ipBytes(ip.Src)),
		ofputil.MatchIPv4Dst(ipBytes(ip.Dst)),
	}
	switch ip.Protocol {
	case headers.ProtoTCP:
		matches = append(matches, ofputil.MatchTCPSrc(srcPort), ofputil.MatchTCPDst(dstPort))
	case headers.ProtoUDP:
		matches = append(matches, ofputil.MatchUDPSrc(srcPort), ofputil.MatchUDPDst(dstPort))
	}

	cookie := flowCookie(key)
	fmod := &ofp.FlowMod{
		Table: 0, Command: ofp.FlowAdd, Priority: priorityFlow,
		Buffer:       ofp.NoBuffer,
		Cookie:       cookie,
		Flags:        ofp.FlowFlagSendFlowRem,
		IdleTimeout:  flowIdleTimeoutSec,
		Match:        ofputil.ExtendedMatch(matches...),
		Instructions: ofp.Instructions{&ofp.InstructionApplyActions{Actions: ofp.Actions{&ofp.ActionOutput{Port: outPort}}}},
	}
	if err := sendFlowMod(rw, fmod); err != nil {
		c.Log.WithError(err).Debug("controller: failed to install 5-tuple flow")
		return
	}
	c.registerCookie(cookie, key)
}

// emitPacketOut releases the packet that triggered pin out of port,
// reusing the switch's buffer when one was assigned and falling back
// to re-injecting pin.Data otherwise.
func (c *Controller) emitPacketOut(rw of.ResponseWriter, pin *ofp.PacketIn, inPort, port ofp.PortNo) {
	pout := &ofp.PacketOut{
		Buffer:  pin.Buffer,
		InPort:  inPort,
		Actions: ofp.Actions{&ofp.ActionOutput{Port: port}},
	}
	if pin.Buffer == ofp.NoBuffer {
		pout.Data = pin.Data
	}

	rw.Header().Set(of.TypeHeaderKey, of.TypePacketOut)
	if _, err := pout.WriteTo(rw); err != nil {
		c.Log.WithError(err).Debug("controller: failed to write packet-out")
		return
	}
	if err := rw.WriteHeader(); err != nil {
		c.Log.WithError(err).Debug("controller: failed to send packet-out")
	}
}
