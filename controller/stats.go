package controller

import (
	"time"

	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/ofp"
)

// reservedLocalPort is the switch's own management interface (§4.8);
// it never carries inter-switch traffic and is excluded from port
// bookkeeping.
const reservedLocalPort = uint32(ofp.PortLocal)

// handlePortStatus keeps the topology store's per-port state current
// with link-down/up notifications, invalidating any cached path that
// might be using the affected switch when a port goes down.
func (c *Controller) handlePortStatus(rw of.ResponseWriter, r *of.Request) {
	var ps ofp.PortStatus
	if _, err := ps.ReadFrom(r.Body); err != nil {
		c.Log.WithError(err).Debug("controller: malformed port status")
		return
	}

	dpid, ok := c.dpidOf(rw)
	if !ok {
		return
	}
	portNo := uint32(ps.Port.PortNo)
	if portNo == reservedLocalPort {
		return
	}

	up := ps.Reason != ofp.PortReasonDelete && ps.Port.State&ofp.PortStateLinkDown == 0
	c.Store.UpsertPort(dpid, portNo, ps.Port.HWAddr, uint64(ps.Port.CurrSpeed)*1000, up)

	if !up {
		c.Store.RemoveLink(dpid, portNo)
		c.Engine.Invalidate(dpid)
	}
}

// handleMultipartReply decodes the trailing body of a multipart
// reply according to its type (§4.8): port descriptions refresh the
// switch's port table, port statistics feed the dynamic-bandwidth
// cost function's measured_bps derivation.
func (c *Controller) handleMultipartReply(rw of.ResponseWriter, r *of.Request) {
	var mp ofp.MultipartReply
	if _, err := mp.ReadFrom(r.Body); err != nil {
		c.Log.WithError(err).Debug("controller: malformed multipart reply")
		return
	}

	dpid, ok := c.dpidOf(rw)
	if !ok {
		return
	}

	switch mp.Type {
	case ofp.MultipartTypePortDescription:
		var ports ofp.Ports
		if _, err := ports.ReadFrom(r.Body); err != nil {
			c.Log.WithError(err).Debug("controller: malformed port description reply")
			return
		}
		for _, p := range ports {
			portNo := uint32(p.PortNo)
			if portNo == reservedLocalPort {
				continue
			}
			up := p.State&ofp.PortStateLinkDown == 0
			c.Store.UpsertPort(dpid, portNo, p.HWAddr, uint64(p.CurrSpeed)*1000, up)
		}

	case ofp.MultipartTypePortStats:
		now := time.Now()
		for {
			var ps ofp.PortStats
			if _, err := ps.ReadFrom(r.Body); err != nil {
				break
			}
			portNo := uint32(ps.PortNo)
			if portNo == reservedLocalPort {
				continue
			}
			c.Store.RecordPortSample(dpid, portNo, ps.RxBytes, ps.TxBytes, now)
		}
	}
}
