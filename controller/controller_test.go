package controller_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/controller"
	"github.com/pathweave/sdnctl/headers"
	"github.com/pathweave/sdnctl/ofp"
	"github.com/pathweave/sdnctl/ofptest"
	"github.com/pathweave/sdnctl/ofputil"
	"github.com/pathweave/sdnctl/pathengine"
	"github.com/pathweave/sdnctl/topology"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// newTestController wires a fresh Controller's mux and ConnState hook
// into an in-process ofptest.Server, the same pairing cmd/sdnctl wires
// of.Server to in production.
func newTestController(t *testing.T, store *topology.Store, engine *pathengine.Engine) (*ofptest.Server, *controller.Controller) {
	t.Helper()

	ctrl := controller.New(store, engine, quietLog())

	srv := ofptest.NewUnstartedServer(ctrl.Mux(), nil)
	srv.Config.ConnState = ctrl.ConnState
	srv.Start()
	t.Cleanup(srv.Close)

	return srv, ctrl
}

func dialSwitch(t *testing.T, srv *ofptest.Server) of.Conn {
	t.Helper()

	conn, err := of.Dial("tcp", srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func mustMAC(s string) net.HardwareAddr {
	hw, err := net.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return hw
}

func sendFeaturesReply(t *testing.T, conn of.Conn, dpid uint64) {
	t.Helper()

	sf := &ofp.SwitchFeatures{DatapathID: dpid, NumTables: 1}
	var buf bytes.Buffer
	if _, err := sf.WriteTo(&buf); err != nil {
		t.Fatalf("SwitchFeatures.WriteTo: %v", err)
	}

	req, _ := of.NewRequest(of.TypeFeaturesReply, &buf)
	if err := conn.Send(req); err != nil {
		t.Fatalf("send features-reply: %v", err)
	}
	if err := conn.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func sendPacketIn(t *testing.T, conn of.Conn, inPort ofp.PortNo, data []byte) {
	t.Helper()

	pin := &ofp.PacketIn{
		Buffer: ofp.NoBuffer,
		Reason: ofp.PacketInReasonAction,
		Match:  ofputil.ExtendedMatch(ofputil.MatchInPort(inPort)),
		Data:   data,
	}

	var buf bytes.Buffer
	if _, err := pin.WriteTo(&buf); err != nil {
		t.Fatalf("PacketIn.WriteTo: %v", err)
	}

	req, _ := of.NewRequest(of.TypePacketIn, &buf)
	if err := conn.Send(req); err != nil {
		t.Fatalf("send packet-in: %v", err)
	}
	if err := conn.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func recv(t *testing.T, conn of.Conn) *of.Request {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	resp, err := conn.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	return resp
}

func arpRequestFrame(t *testing.T, senderMAC net.HardwareAddr, senderIP, targetIP net.IP) []byte {
	t.Helper()

	eth := &headers.Ethernet{
		Dst:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		Src:       senderMAC,
		EtherType: headers.EtherTypeARP,
	}
	arp := &headers.ARP{
		Opcode: headers.ARPRequest,
		SHA:    senderMAC,
		SPA:    senderIP.To4(),
		THA:    net.HardwareAddr{0, 0, 0, 0, 0, 0},
		TPA:    targetIP.To4(),
	}

	var buf bytes.Buffer
	if _, err := eth.WriteTo(&buf); err != nil {
		t.Fatalf("Ethernet.WriteTo: %v", err)
	}
	buf.Write(arp.Bytes())
	return buf.Bytes()
}

// TestARPBootstrap drives a switch connecting, receiving the §4.7
// default flows and port-description request, and then exercises the
// ARP proxy of §4.6 against a host the controller already knows.
func TestARPBootstrap(t *testing.T) {
	var store topology.Store
	engine := &pathengine.Engine{Store: &store, Cost: pathengine.CostHOP}

	srv, _ := newTestController(t, &store, engine)
	conn := dialSwitch(t, srv)

	const dpid = 1
	sendFeaturesReply(t, conn, dpid)

	var sawTCP, sawUDP, sawMiss, sawPortDesc bool
	for i := 0; i < 4; i++ {
		resp := recv(t, conn)
		switch resp.Header.Get(of.TypeHeaderKey).(of.Type) {
		case of.TypeFlowMod:
			var fmod ofp.FlowMod
			if _, err := fmod.ReadFrom(resp.Body); err != nil {
				t.Fatalf("FlowMod.ReadFrom: %v", err)
			}
			switch fmod.Priority {
			case 100:
				if f := fmod.Match.Field(ofp.XMTypeIPProto); f != nil && f.Value.UInt8() == headers.ProtoTCP {
					sawTCP = true
				} else {
					sawUDP = true
				}
			case 1:
				sawMiss = true
			default:
				t.Fatalf("unexpected default flow priority %d", fmod.Priority)
			}
		case of.TypeMultipartRequest:
			var mreq ofp.MultipartRequest
			if _, err := mreq.ReadFrom(resp.Body); err != nil {
				t.Fatalf("MultipartRequest.ReadFrom: %v", err)
			}
			if mreq.Type != ofp.MultipartTypePortDescription {
				t.Fatalf("multipart type = %v, want MultipartTypePortDescription", mreq.Type)
			}
			sawPortDesc = true
		default:
			t.Fatalf("unexpected message during bootstrap: %v", resp.Header.Get(of.TypeHeaderKey))
		}
	}
	if !sawTCP || !sawUDP || !sawMiss || !sawPortDesc {
		t.Fatalf("bootstrap incomplete: tcp=%v udp=%v miss=%v portdesc=%v", sawTCP, sawUDP, sawMiss, sawPortDesc)
	}

	// Teach the controller about the ARP request's target, as an
	// earlier packet-in would have via its source MAC/IP.
	targetMAC := mustMAC("aa:00:00:00:00:02")
	store.UpsertHost(targetMAC, net.ParseIP("10.0.0.2"), dpid, 2)

	reqMAC := mustMAC("aa:00:00:00:00:01")
	frame := arpRequestFrame(t, reqMAC, net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.2"))
	sendPacketIn(t, conn, 1, frame)

	resp := recv(t, conn)
	if typ := resp.Header.Get(of.TypeHeaderKey).(of.Type); typ != of.TypePacketOut {
		t.Fatalf("type = %v, want TypePacketOut", typ)
	}

	var pout ofp.PacketOut
	if _, err := pout.ReadFrom(resp.Body); err != nil {
		t.Fatalf("PacketOut.ReadFrom: %v", err)
	}

	eth, payload, err := headers.ParseEthernet(pout.Data)
	if err != nil {
		t.Fatalf("ParseEthernet: %v", err)
	}
	if eth.EtherType != headers.EtherTypeARP {
		t.Fatalf("EtherType = %v, want EtherTypeARP", eth.EtherType)
	}

	arp, err := headers.ParseARP(payload)
	if err != nil {
		t.Fatalf("ParseARP: %v", err)
	}
	if arp.Opcode != headers.ARPReply {
		t.Fatalf("Opcode = %v, want ARPReply", arp.Opcode)
	}
	if arp.SHA.String() != targetMAC.String() {
		t.Fatalf("SHA = %v, want %v", arp.SHA, targetMAC)
	}
	if !arp.SPA.Equal(net.ParseIP("10.0.0.2")) {
		t.Fatalf("SPA = %v, want 10.0.0.2", arp.SPA)
	}
}

// TestSingleHopFlowInstall exercises §4.5.1 Case A: a TCP packet-in
// whose destination is attached to the same switch that received it
// gets an exact-match flow installed and the triggering packet
// released directly, without ever touching the path engine.
func TestSingleHopFlowInstall(t *testing.T) {
	var store topology.Store
	engine := &pathengine.Engine{Store: &store, Cost: pathengine.CostHOP}

	srv, _ := newTestController(t, &store, engine)
	conn := dialSwitch(t, srv)

	const dpid = 1
	sendFeaturesReply(t, conn, dpid)
	for i := 0; i < 4; i++ {
		recv(t, conn) // drain the bootstrap flows/port-desc request
	}

	srcMAC := mustMAC("aa:00:00:00:00:01")
	dstMAC := mustMAC("aa:00:00:00:00:02")
	store.UpsertHost(dstMAC, net.ParseIP("10.0.0.2"), dpid, 2)

	eth := &headers.Ethernet{Dst: dstMAC, Src: srcMAC, EtherType: headers.EtherTypeIPv4}
	ip := &headers.IPv4{Protocol: headers.ProtoTCP, Src: net.ParseIP("10.0.0.1"), Dst: net.ParseIP("10.0.0.2")}
	tcp := make([]byte, 20)
	tcp[0], tcp[1] = 0x13, 0x88 // src port 5000
	tcp[2], tcp[3] = 0x00, 0x50 // dst port 80

	var buf bytes.Buffer
	eth.WriteTo(&buf)
	buf.Write(ip.Bytes(len(tcp)))
	buf.Write(tcp)

	sendPacketIn(t, conn, 1, buf.Bytes())

	var sawFlowMod, sawPacketOut bool
	for i := 0; i < 2; i++ {
		resp := recv(t, conn)
		switch resp.Header.Get(of.TypeHeaderKey).(of.Type) {
		case of.TypeFlowMod:
			var fmod ofp.FlowMod
			if _, err := fmod.ReadFrom(resp.Body); err != nil {
				t.Fatalf("FlowMod.ReadFrom: %v", err)
			}
			if fmod.Priority != 1000 {
				t.Fatalf("Priority = %d, want 1000", fmod.Priority)
			}
			if fmod.Cookie == 0 {
				t.Fatalf("Cookie = 0, want a non-zero cookie tagging this flow")
			}
			if fmod.Flags&ofp.FlowFlagSendFlowRem == 0 {
				t.Fatalf("Flags missing FlowFlagSendFlowRem")
			}
			sawFlowMod = true
		case of.TypePacketOut:
			var pout ofp.PacketOut
			if _, err := pout.ReadFrom(resp.Body); err != nil {
				t.Fatalf("PacketOut.ReadFrom: %v", err)
			}
			found := false
			for _, a := range pout.Actions {
				if out, ok := a.(*ofp.ActionOutput); ok && out.Port == ofp.PortNo(2) {
					found = true
				}
			}
			if !found {
				t.Fatalf("PacketOut actions missing output to port 2: %+v", pout.Actions)
			}
			sawPacketOut = true
		default:
			t.Fatalf("unexpected message: %v", resp.Header.Get(of.TypeHeaderKey))
		}
	}
	if !sawFlowMod || !sawPacketOut {
		t.Fatalf("flow install incomplete: flowmod=%v packetout=%v", sawFlowMod, sawPacketOut)
	}
}

// TestSwitchDisconnectPurgesState exercises §4.2's disconnect rule: a
// closed session removes the switch from the topology store so it no
// longer appears in path computations.
func TestSwitchDisconnectPurgesState(t *testing.T) {
	var store topology.Store
	engine := &pathengine.Engine{Store: &store, Cost: pathengine.CostHOP}

	srv, _ := newTestController(t, &store, engine)
	conn := dialSwitch(t, srv)

	const dpid = 42
	sendFeaturesReply(t, conn, dpid)
	for i := 0; i < 4; i++ {
		recv(t, conn)
	}

	if store.Switch(dpid) == nil {
		t.Fatalf("switch %d not registered after features-reply", dpid)
	}

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for store.Switch(dpid) != nil {
		if time.Now().After(deadline) {
			t.Fatalf("switch %d still present after disconnect", dpid)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
