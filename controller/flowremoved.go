package controller

import (
	"hash/fnv"

	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/ofp"
	"github.com/pathweave/sdnctl/pathengine"
)

// flowIdleTimeoutSec bounds how long an installed exact-match flow
// survives without traffic before the switch expires it and reports
// TypeFlowRemoved. §4.7 fixes no value; 60s is this controller's choice.
const flowIdleTimeoutSec = 60

// flowCookie derives a stable, collision-resistant cookie for key so
// the flow-removed handler can map a switch's eviction notice back to
// the path-engine cache entry it came from.
func flowCookie(key pathengine.FlowKey) uint64 {
	h := fnv.New64a()
	h.Write([]byte{key.IPProto})
	h.Write([]byte(key.SrcIP))
	h.Write([]byte{byte(key.SrcPort), byte(key.SrcPort >> 8)})
	h.Write([]byte(key.DstIP))
	h.Write([]byte{byte(key.DstPort), byte(key.DstPort >> 8)})
	return h.Sum64()
}

// registerCookie remembers the flow key a cookie was derived from.
func (c *Controller) registerCookie(cookie uint64, key pathengine.FlowKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookies[cookie] = key
}

// handleFlowRemoved invalidates the cached path for a flow whose
// table entry the switch just expired or evicted, so the next
// packet-in for that flow recomputes (and possibly reroutes) rather
// than reinstalling a flow-mod the switch no longer has.
func (c *Controller) handleFlowRemoved(rw of.ResponseWriter, r *of.Request) {
	var fr ofp.FlowRemoved
	if _, err := fr.ReadFrom(r.Body); err != nil {
		c.Log.WithError(err).Debug("controller: malformed flow removed")
		return
	}

	c.mu.Lock()
	key, ok := c.cookies[fr.Cookie]
	if ok {
		delete(c.cookies, fr.Cookie)
	}
	c.mu.Unlock()

	if !ok {
		return // not one of our cookie-tagged exact-match flows
	}
	c.Engine.InvalidateKey(key)
}
