// Package controller wires the wire codec, the topology store and the
// path engine together into the OpenFlow control-plane behavior
// described for this SDN controller: bootstrap of newly connected
// switches, packet-in classification, the ARP proxy, and flow
// installation.
package controller

import (
	"net"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/ofp"
	"github.com/pathweave/sdnctl/ofputil"
	"github.com/pathweave/sdnctl/pathengine"
	"github.com/pathweave/sdnctl/topology"
)

// Controller holds the shared state behind every registered handler.
type Controller struct {
	Store  *topology.Store
	Engine *pathengine.Engine
	Log    *logrus.Logger

	mu       sync.Mutex
	sessions map[of.Conn]uint64 // conn -> dpid, populated on FeaturesReply
	byDPID   map[uint64]of.Conn

	// cookies maps the cookie tagged on each installed exact-match
	// flow back to the flow key it was computed from, so a
	// FlowRemoved notification (expiry or eviction) can invalidate
	// the matching path-engine cache entry (§4.4's cache eviction
	// rule extended to flow-table expiry).
	cookies map[uint64]pathengine.FlowKey
}

// New builds a Controller over the given topology store and path
// engine. log may be nil, in which case a disabled logger is used.
func New(store *topology.Store, engine *pathengine.Engine, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}
	return &Controller{
		Store:    store,
		Engine:   engine,
		Log:      log,
		sessions: make(map[of.Conn]uint64),
		byDPID:   make(map[uint64]of.Conn),
		cookies:  make(map[uint64]pathengine.FlowKey),
	}
}

// Mux builds the *of.ServeMux wiring every handler this controller
// implements, in the shape described by §4.2: registering the
// dispatcher is just a sequence of mux.HandleFunc(type, fn) calls.
func (c *Controller) Mux() *of.ServeMux {
	mux := of.NewServeMux()

	mux.Handle(of.TypeHello, ofputil.HelloHandler(4, nil))
	mux.Handle(of.TypeEchoRequest, ofputil.EchoHandler(nil))
	mux.HandleFunc(of.TypeFeaturesReply, c.handleFeaturesReply)
	mux.HandleFunc(of.TypePacketIn, c.handlePacketIn)
	mux.HandleFunc(of.TypePortStatus, c.handlePortStatus)
	mux.HandleFunc(of.TypeMultipartReply, c.handleMultipartReply)
	mux.HandleFunc(of.TypeFlowRemoved, c.handleFlowRemoved)

	return mux
}

// ConnState is installed as the of.Server's ConnState hook. It
// purges topology and path-engine state for a switch the moment its
// session closes, per §4.2's disconnect rule.
func (c *Controller) ConnState(conn of.Conn, state of.ConnState) {
	switch state {
	case of.StateClosed:
		c.mu.Lock()
		dpid, ok := c.sessions[conn]
		delete(c.sessions, conn)
		if ok {
			delete(c.byDPID, dpid)
		}
		c.mu.Unlock()

		if ok {
			c.Store.RemoveSwitch(dpid)
			c.Engine.Invalidate(dpid)
			c.Log.WithField("dpid", dpid).Info("switch disconnected")
		}
	}
}

// conn looks up the live connection for dpid, used by the stats
// poller to send requests to a specific switch.
func (c *Controller) conn(dpid uint64) (of.Conn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn, ok := c.byDPID[dpid]
	return conn, ok
}

// Conns returns a snapshot of (dpid, conn) pairs for every session
// currently registered, for the stats poller to iterate over.
func (c *Controller) Conns() map[uint64]of.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[uint64]of.Conn, len(c.byDPID))
	for dpid, conn := range c.byDPID {
		out[dpid] = conn
	}
	return out
}

func macBytes(hw net.HardwareAddr) []byte {
	out := make([]byte, 6)
	copy(out, hw)
	return out
}

func ipBytes(ip net.IP) []byte {
	v4 := ip.To4()
	out := make([]byte, 4)
	copy(out, v4)
	return out
}
