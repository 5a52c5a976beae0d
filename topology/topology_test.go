package topology

import (
	"context"
	"net"
	"testing"
	"time"
)

func mustMAC(s string) net.HardwareAddr {
	hw, err := net.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return hw
}

func TestUpsertHostLearnsAttachmentAndIP(t *testing.T) {
	var s Store

	mac := mustMAC("aa:00:00:00:00:01")
	s.UpsertHost(mac, net.ParseIP("10.0.0.1"), 1, 2)

	h := s.FindHostByMAC(mac)
	if h == nil {
		t.Fatal("host not found by MAC")
	}
	if h.DPID != 1 || h.Port != 2 {
		t.Fatalf("attachment = (%d,%d), want (1,2)", h.DPID, h.Port)
	}

	byIP := s.FindHostByIP(net.ParseIP("10.0.0.1"))
	if byIP == nil || byIP.MAC.String() != mac.String() {
		t.Fatalf("FindHostByIP returned %+v", byIP)
	}
}

func TestUpsertHostUpdatesAttachment(t *testing.T) {
	var s Store
	mac := mustMAC("aa:00:00:00:00:01")

	s.UpsertHost(mac, nil, 1, 1)
	s.UpsertHost(mac, nil, 2, 5)

	h := s.FindHostByMAC(mac)
	if h.DPID != 2 || h.Port != 5 {
		t.Fatalf("attachment not updated: %+v", h)
	}
}

func TestRemoveSwitchDropsIncidentLinks(t *testing.T) {
	var s Store

	s.AddSwitch(1, nil)
	s.AddSwitch(2, nil)
	s.UpsertLink(1, 1, 2, 1, 1e9)
	s.UpsertLink(2, 1, 1, 1, 1e9)

	s.RemoveSwitch(1)

	if s.NominalBps(1, 1) != 0 {
		t.Fatal("link from removed switch still present")
	}
	if s.NominalBps(2, 1) != 0 {
		t.Fatal("link into removed switch still present")
	}
	if sw := s.Switch(1); sw != nil {
		t.Fatal("switch 1 still registered")
	}
}

func TestMeasuredBpsRequiresTwoSamples(t *testing.T) {
	var s Store
	s.UpsertLink(1, 1, 2, 1, 1e9)

	if got := s.MeasuredBps(1, 1); got != 0 {
		t.Fatalf("MeasuredBps with no samples = %d, want 0", got)
	}

	t0 := time.Unix(0, 0)
	s.RecordPortSample(1, 1, 1000, 1000, t0)
	if got := s.MeasuredBps(1, 1); got != 0 {
		t.Fatalf("MeasuredBps with one sample = %d, want 0", got)
	}

	s.RecordPortSample(1, 1, 2000, 2000, t0.Add(time.Second))
	// delta rx+tx = 2000 bytes over 1s => 16000 bps
	if got := s.MeasuredBps(1, 1); got != 16000 {
		t.Fatalf("MeasuredBps = %d, want 16000", got)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	var s Store
	s.AddSwitch(1, map[uint32]*PortInfo{1: {HWAddr: mustMAC("aa:00:00:00:00:01"), Up: true}})
	s.UpsertHost(mustMAC("aa:00:00:00:00:02"), net.ParseIP("10.0.0.2"), 1, 1)
	s.UpsertLink(1, 2, 2, 1, 1e9)

	snap := s.Snapshot()

	var restored Store
	restored.Restore(snap)

	if restored.Switch(1) == nil {
		t.Fatal("restored store missing switch 1")
	}
	if restored.FindHostByIP(net.ParseIP("10.0.0.2")) == nil {
		t.Fatal("restored store missing host")
	}
	if restored.NominalBps(1, 2) != 1e9 {
		t.Fatal("restored store missing link")
	}
}

func TestSweeperEvictsIdleSwitch(t *testing.T) {
	var s Store
	s.IdleTimeout = time.Millisecond
	s.AddSwitch(1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.StartSweeper(ctx, time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.Switch(1) == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("sweeper did not evict idle switch in time")
}
