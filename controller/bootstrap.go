package controller

import (
	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/ofp"
	"github.com/pathweave/sdnctl/ofputil"
)

// Default flow-table priorities, per §4.7.
const (
	priorityDefaultTCP = 100
	priorityDefaultUDP = 100
	priorityTableMiss  = 1
	priorityL2         = 5
	priorityFlow       = 1000
)

// handleFeaturesReply registers the switch with the topology store
// and installs the three default table entries (§4.7): any TCP or
// UDP IPv4 packet, and everything else, are all sent to the
// controller. It is the switch-session's first message after the
// hello/features handshake.
func (c *Controller) handleFeaturesReply(rw of.ResponseWriter, r *of.Request) {
	var sf ofp.SwitchFeatures
	if _, err := sf.ReadFrom(r.Body); err != nil {
		c.Log.WithError(err).Warn("controller: malformed features reply")
		return
	}

	dpid := sf.DatapathID
	conn := rw.Conn()

	c.mu.Lock()
	c.sessions[conn] = dpid
	c.byDPID[dpid] = conn
	c.mu.Unlock()

	c.Store.AddSwitch(dpid, nil)
	c.Log.WithField("dpid", dpid).Info("switch connected")

	toCtrl := ofp.Instructions{
		&ofp.InstructionApplyActions{
			Actions: ofp.Actions{&ofp.ActionOutput{Port: ofp.PortController, MaxLen: ofp.ContentLenNoBuffer}},
		},
	}

	defaults := []*ofp.FlowMod{
		{
			Table: 0, Command: ofp.FlowAdd, Priority: priorityDefaultTCP,
			Buffer: ofp.NoBuffer,
			Match: ofputil.ExtendedMatch(
				ofputil.MatchEthType(uint16(0x0800)),
				ofputil.MatchIPProto(6),
			),
			Instructions: toCtrl,
		},
		{
			Table: 0, Command: ofp.FlowAdd, Priority: priorityDefaultUDP,
			Buffer: ofp.NoBuffer,
			Match: ofputil.ExtendedMatch(
				ofputil.MatchEthType(uint16(0x0800)),
				ofputil.MatchIPProto(17),
			),
			Instructions: toCtrl,
		},
		{
			Table: 0, Command: ofp.FlowAdd, Priority: priorityTableMiss,
			Buffer:       ofp.NoBuffer,
			Match:        ofp.Match{ofp.MatchTypeXM, nil},
			Instructions: toCtrl,
		},
	}

	for _, fmod := range defaults {
		if err := sendFlowMod(rw, fmod); err != nil {
			c.Log.WithError(err).Warn("controller: failed to install default flow")
		}
	}

	// OF1.3's FeaturesReply carries no port list; the switch's ports
	// are only learned through a port-description multipart reply.
	mreq := ofp.NewMultipartRequest(ofp.MultipartTypePortDescription, nil)
	rw.Header().Set(of.TypeHeaderKey, of.TypeMultipartRequest)
	if _, err := mreq.WriteTo(rw); err != nil {
		c.Log.WithError(err).Warn("controller: failed to request port description")
		return
	}
	if err := rw.WriteHeader(); err != nil {
		c.Log.WithError(err).Warn("controller: failed to send port description request")
	}
}

// sendFlowMod writes a FlowMod message to the given ResponseWriter,
// reusing the per-session writer the dispatch loop already serializes
// through (§4.2).
func sendFlowMod(rw of.ResponseWriter, fmod *ofp.FlowMod) error {
	rw.Header().Set(of.TypeHeaderKey, of.TypeFlowMod)
	_, err := fmod.WriteTo(rw)
	if err != nil {
		return err
	}
	return rw.WriteHeader()
}
