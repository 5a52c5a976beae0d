package pathengine

import (
	"math/rand"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pathweave/sdnctl/topology"
)

// linearTopology wires DPIDs 1-2-3 as a straight line, each hop
// bidirectional with the given nominal speed.
func linearTopology(nominalBps uint64) *topology.Store {
	var s topology.Store
	s.AddSwitch(1, nil)
	s.AddSwitch(2, nil)
	s.AddSwitch(3, nil)

	s.UpsertLink(1, 1, 2, 1, nominalBps)
	s.UpsertLink(2, 1, 1, 1, nominalBps)
	s.UpsertLink(2, 2, 3, 1, nominalBps)
	s.UpsertLink(3, 1, 2, 2, nominalBps)

	return &s
}

func TestAllShortestPathsLinear(t *testing.T) {
	s := linearTopology(1e8)
	e := &Engine{Store: s, Cost: CostHOP}

	paths := e.AllShortestPaths(1, 3)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	want := []uint64{1, 2, 3}
	if diff := cmp.Diff(want, paths[0]); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
}

func TestAllShortestPathsECMP(t *testing.T) {
	var s topology.Store
	s.AddSwitch(1, nil)
	s.AddSwitch(2, nil)
	s.AddSwitch(3, nil)
	s.AddSwitch(4, nil)

	// Two equal-cost paths 1->2->4 and 1->3->4.
	s.UpsertLink(1, 1, 2, 1, 1e8)
	s.UpsertLink(2, 1, 1, 1, 1e8)
	s.UpsertLink(2, 2, 4, 1, 1e8)
	s.UpsertLink(4, 1, 2, 2, 1e8)

	s.UpsertLink(1, 2, 3, 1, 1e8)
	s.UpsertLink(3, 1, 1, 2, 1e8)
	s.UpsertLink(3, 2, 4, 2, 1e8)
	s.UpsertLink(4, 2, 3, 2, 1e8)

	e := &Engine{Store: &s, Cost: CostHOP}
	paths := e.AllShortestPaths(1, 4)
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2 equal-cost paths", len(paths))
	}
}

func TestLookupOrComputeCachesAndReverses(t *testing.T) {
	s := linearTopology(1e8)
	e := &Engine{Store: s, Cost: CostHOP, Rand: rand.New(rand.NewSource(0))}

	fwd := NewFlowKey(6, net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.3"), 5000, 80)

	entry, reversed := e.LookupOrCompute(fwd, 1, 3)
	if entry == nil {
		t.Fatal("expected a computed path")
	}
	if reversed {
		t.Fatal("first computation should not report reversed")
	}

	rev := NewFlowKey(6, net.ParseIP("10.0.0.3"), net.ParseIP("10.0.0.1"), 80, 5000)
	got, wasReversed, ok := e.Lookup(rev)
	if !ok {
		t.Fatal("reverse 5-tuple should hit the same cache entry")
	}
	if !wasReversed {
		t.Fatal("reverse lookup should report reversed=true")
	}
	if got != entry {
		t.Fatal("reverse lookup returned a different cache entry")
	}
}

func TestInvalidateDropsPathsThroughDPID(t *testing.T) {
	s := linearTopology(1e8)
	e := &Engine{Store: s, Cost: CostHOP}

	key := NewFlowKey(6, net.ParseIP("10.0.0.1"), net.ParseIP("10.0.0.3"), 1, 2)
	e.LookupOrCompute(key, 1, 3)

	e.Invalidate(2)

	if _, _, ok := e.Lookup(key); ok {
		t.Fatal("expected cache entry through dpid 2 to be invalidated")
	}
}

func TestOSPFCostPrefersHigherBandwidth(t *testing.T) {
	var s topology.Store
	s.AddSwitch(1, nil)
	s.AddSwitch(2, nil)
	s.AddSwitch(3, nil)

	// Direct low-bandwidth link 1->3, and a two-hop high-bandwidth
	// path 1->2->3. OSPF cost should prefer whichever has the lower
	// sum of REF_BW/nominal.
	s.UpsertLink(1, 1, 3, 1, 1e6) // slow direct link
	s.UpsertLink(3, 1, 1, 1, 1e6)

	s.UpsertLink(1, 2, 2, 1, 1e9)
	s.UpsertLink(2, 1, 1, 2, 1e9)
	s.UpsertLink(2, 2, 3, 2, 1e9)
	s.UpsertLink(3, 2, 2, 2, 1e9)

	e := &Engine{Store: &s, Cost: CostOSPF, RefBw: 1e8}
	paths := e.AllShortestPaths(1, 3)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	if len(paths[0]) != 3 {
		t.Fatalf("expected the two-hop high-bandwidth path to win, got %v", paths[0])
	}
}
