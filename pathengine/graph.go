package pathengine

import (
	"container/heap"
	"math"

	"github.com/pathweave/sdnctl/topology"
)

// CostFunc selects how edge weights are derived from link
// measurements, per §4.4.
type CostFunc int

const (
	// CostHOP weights every edge 1, minimizing hop count.
	CostHOP CostFunc = iota
	// CostOSPF weights an edge inversely to its nominal speed.
	CostOSPF
	// CostDynamicBandwidth weights an edge inversely to its residual
	// (nominal - measured) bandwidth.
	CostDynamicBandwidth
)

// Default constants from §4.4.
const (
	defaultRefBw uint64 = 1e8 // 100 Mbps
	defaultMinBw uint64 = 1e3 // 1 kbps
)

// edge is one directed link in the weighted digraph, built fresh from
// a topology.Snapshot on every path computation.
type edge struct {
	to       uint64
	port     uint32 // source-side port of this edge
	dstPort  uint32
	weight   float64
}

// graph is a weighted adjacency-list digraph over switch DPIDs.
type graph struct {
	adj map[uint64][]edge
}

// buildGraph constructs the digraph from a topology snapshot using
// the given cost function. Host-facing links are absent from the
// snapshot's Links map only in the sense that the caller is expected
// to have asserted inter-switch links; buildGraph itself includes
// every link present, since only the topology store's link set feeds
// it (§4.8 already filters host-facing ports out at the poller).
func buildGraph(snap *topology.Snapshot, cost CostFunc, refBw, minBw uint64) *graph {
	g := &graph{adj: make(map[uint64][]edge)}

	for dpid := range snap.Switches {
		if _, ok := g.adj[dpid]; !ok {
			g.adj[dpid] = nil
		}
	}

	for _, l := range snap.Links {
		w := weight(l, cost, refBw, minBw)
		g.adj[l.SrcDPID] = append(g.adj[l.SrcDPID], edge{to: l.DstDPID, port: l.SrcPort, dstPort: l.DstPort, weight: w})
	}

	return g
}

func weight(l *topology.Link, cost CostFunc, refBw, minBw uint64) float64 {
	switch cost {
	case CostHOP:
		return 1
	case CostOSPF:
		if l.NominalBps == 0 {
			return 1
		}
		return float64(refBw) / float64(l.NominalBps)
	case CostDynamicBandwidth:
		if l.NominalBps == 0 {
			return 1 // missing nominal falls back to OSPF's missing-nominal behavior
		}
		measured := l.MeasuredBps()
		residual := int64(l.NominalBps) - int64(measured)
		if residual < int64(minBw) {
			residual = int64(minBw)
		}
		return float64(refBw) / float64(residual)
	default:
		return 1
	}
}

// heapItem is one entry in the Dijkstra priority queue.
type heapItem struct {
	dpid uint64
	dist float64
	idx  int
}

type minHeap []*heapItem

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].idx, h[j].idx = i, j }
func (h *minHeap) Push(x interface{}) { item := x.(*heapItem); item.idx = len(*h); *h = append(*h, item) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// allShortestPaths runs Dijkstra from src and returns, for dst, every
// simple path tied for minimum cost (the ECMP enumeration of §4.4).
// It returns nil if dst is unreachable from src.
func allShortestPaths(g *graph, src, dst uint64) [][]uint64 {
	dist := map[uint64]float64{src: 0}
	// preds[v] is the set of predecessors u such that the edge u->v
	// lies on some shortest path from src to v.
	preds := make(map[uint64][]uint64)

	h := &minHeap{{dpid: src, dist: 0}}
	heap.Init(h)
	visited := make(map[uint64]bool)

	for h.Len() > 0 {
		cur := heap.Pop(h).(*heapItem)
		if visited[cur.dpid] {
			continue
		}
		visited[cur.dpid] = true

		for _, e := range g.adj[cur.dpid] {
			nd := cur.dist + e.weight
			d, ok := dist[e.to]
			switch {
			case !ok || nd < d-1e-9:
				dist[e.to] = nd
				preds[e.to] = []uint64{cur.dpid}
				heap.Push(h, &heapItem{dpid: e.to, dist: nd})
			case math.Abs(nd-d) <= 1e-9:
				preds[e.to] = append(preds[e.to], cur.dpid)
			}
		}
	}

	if _, ok := dist[dst]; !ok {
		if src != dst {
			return nil
		}
	}

	if src == dst {
		return [][]uint64{{src}}
	}

	var paths [][]uint64
	var walk func(node uint64, suffix []uint64)
	walk = func(node uint64, suffix []uint64) {
		path := append([]uint64{node}, suffix...)
		if node == src {
			cp := append([]uint64(nil), path...)
			paths = append(paths, cp)
			return
		}
		for _, p := range preds[node] {
			walk(p, path)
		}
	}
	walk(dst, nil)

	return paths
}

// portsForHop returns the port on `from` that the first edge found
// from `from` to `to` departs on, and the port on `to` it arrives on.
func (g *graph) portsForHop(from, to uint64) (srcPort, dstPort uint32, ok bool) {
	for _, e := range g.adj[from] {
		if e.to == to {
			return e.port, e.dstPort, true
		}
	}
	return 0, 0, false
}
