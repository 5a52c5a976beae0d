package controller

import (
	"bytes"
	"net"

	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/headers"
	"github.com/pathweave/sdnctl/ofp"
)

// handleARP implements the ARP proxy of §4.6: a request for an IP the
// controller already knows the MAC of is answered directly out of
// the switch that received it, without flooding the network. A reply
// is never forwarded, but its sender is still learned, so the host's
// IP is recorded whether it was observed via a request or a reply
// (§9). A request for an unknown target IP is dropped, not flooded.
func (c *Controller) handleARP(rw of.ResponseWriter, pin *ofp.PacketIn, dpid uint64, inPort ofp.PortNo, eth *headers.Ethernet, payload []byte) {
	req, err := headers.ParseARP(payload)
	if err != nil {
		return
	}

	c.Store.UpsertHost(req.SHA, req.SPA, dpid, uint32(inPort))

	if req.Opcode != headers.ARPRequest {
		return // replies update host IPs but are never forwarded
	}

	target := c.Store.FindHostByIP(req.TPA)
	if target == nil {
		return // unknown target: let it go unanswered rather than flood
	}

	reply := arpReply(target.MAC, eth.Src, req)

	pout := &ofp.PacketOut{
		Buffer:  ofp.NoBuffer,
		InPort:  ofp.PortController,
		Actions: ofp.Actions{&ofp.ActionOutput{Port: inPort}},
		Data:    reply,
	}

	rw.Header().Set(of.TypeHeaderKey, of.TypePacketOut)
	if _, err := pout.WriteTo(rw); err != nil {
		c.Log.WithError(err).Debug("controller: failed to write ARP reply")
		return
	}
	if err := rw.WriteHeader(); err != nil {
		c.Log.WithError(err).Debug("controller: failed to send ARP reply")
	}
}

// arpReply synthesizes the Ethernet+ARP frame answering req on behalf
// of the host at targetMAC.
func arpReply(targetMAC, requesterMAC net.HardwareAddr, req *headers.ARP) []byte {
	ethHdr := &headers.Ethernet{
		Dst:       requesterMAC,
		Src:       targetMAC,
		EtherType: headers.EtherTypeARP,
	}

	arpHdr := &headers.ARP{
		Opcode: headers.ARPReply,
		SHA:    targetMAC,
		SPA:    req.TPA,
		THA:    req.SHA,
		TPA:    req.SPA,
	}

	var buf bytes.Buffer
	ethHdr.WriteTo(&buf)
	buf.Write(arpHdr.Bytes())
	return buf.Bytes()
}
