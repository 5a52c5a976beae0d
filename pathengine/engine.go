package pathengine

import (
	"fmt"
	"math/rand"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pathweave/sdnctl/topology"
)

// CacheEntry is a cached path for a flow (or its reverse). Alongside
// the path itself it stores a dpid -> index map so a switch handling
// a packet-in for this flow can find its own position in O(1) rather
// than re-scanning the path slice (§9's second REDESIGN FLAG).
type CacheEntry struct {
	Path  []uint64
	index map[uint64]int
}

// IndexOf returns dpid's position in the cached path, and whether it
// is present at all.
func (c *CacheEntry) IndexOf(dpid uint64) (int, bool) {
	i, ok := c.index[dpid]
	return i, ok
}

func newCacheEntry(path []uint64) *CacheEntry {
	idx := make(map[uint64]int, len(path))
	for i, dpid := range path {
		idx[dpid] = i
	}
	return &CacheEntry{Path: path, index: idx}
}

// Engine computes shortest paths over a topology.Store's current
// graph and caches per-flow path choices, per §4.4.
type Engine struct {
	Store *topology.Store
	Cost  CostFunc
	RefBw uint64
	MinBw uint64

	// Rand drives the ECMP tie-break. Tests construct an Engine with
	// a seeded *rand.Rand for deterministic path selection; when Rand
	// is nil, init installs a source seeded with 0.
	Rand *rand.Rand

	mu    sync.Mutex
	cache map[canonKey]*CacheEntry

	// group collapses concurrent LookupOrCompute calls for the same
	// flow key into a single shortest-path computation: packet-ins
	// for one new flow commonly arrive from more than one switch
	// within the same instant, and without this every one of them
	// would run its own Dijkstra pass before any had a chance to
	// populate the cache.
	group singleflight.Group
}

func (e *Engine) init() {
	if e.RefBw == 0 {
		e.RefBw = defaultRefBw
	}
	if e.MinBw == 0 {
		e.MinBw = defaultMinBw
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(0))
	}
	if e.cache == nil {
		e.cache = make(map[canonKey]*CacheEntry)
	}
}

// AllShortestPaths enumerates every path tied for minimum cost
// between src and dst over the store's current topology. It does not
// touch the flow cache.
func (e *Engine) AllShortestPaths(src, dst uint64) [][]uint64 {
	e.mu.Lock()
	e.init()
	e.mu.Unlock()

	snap := e.Store.Snapshot()
	g := buildGraph(snap, e.Cost, e.RefBw, e.MinBw)
	return allShortestPaths(g, src, dst)
}

// Lookup returns the cached path for key (or its reverse), and
// whether the match was in reverse order. ok is false on a cache
// miss.
func (e *Engine) Lookup(key FlowKey) (entry *CacheEntry, reversed bool, ok bool) {
	ck, rev := canonicalize(key)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.init()

	entry, ok = e.cache[ck]
	return entry, rev, ok
}

// LookupOrCompute returns the cached path for key, computing and
// caching a freshly chosen shortest path via AllShortestPaths+ECMP
// tie-break if none exists yet (§4.5.1 Case C). It returns nil if no
// path exists between ingress and egress.
func (e *Engine) LookupOrCompute(key FlowKey, ingress, egress uint64) (entry *CacheEntry, reversed bool) {
	if entry, rev, ok := e.Lookup(key); ok {
		return entry, rev
	}

	ck, rev := canonicalize(key)
	groupKey := fmt.Sprintf("%d:%s:%s:%d:%d", ck.IPProto, ck.AIP, ck.BIP, ck.APort, ck.BPort)

	type result struct {
		entry *CacheEntry
		fresh bool // computed by this call, as opposed to found already cached
	}

	v, err, _ := e.group.Do(groupKey, func() (interface{}, error) {
		// Another goroutine may have populated the cache while this
		// one waited to enter Do.
		if entry, _, ok := e.Lookup(key); ok {
			return result{entry, false}, nil
		}

		paths := e.AllShortestPaths(ingress, egress)
		if len(paths) == 0 {
			return result{nil, false}, nil
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		e.init()

		chosen := paths[e.Rand.Intn(len(paths))]
		ce := newCacheEntry(chosen)
		e.cache[ck] = ce

		return result{ce, true}, nil
	})
	if err != nil {
		return nil, false
	}

	res := v.(result)
	if res.entry == nil {
		return nil, false
	}
	if res.fresh {
		// The Path was just computed directly from ingress->egress,
		// i.e. already in the direction this caller asked for.
		return res.entry, false
	}
	return res.entry, rev
}

// Invalidate drops any cached entry whose path traverses dpid. It is
// called on switch disconnect and on link removal, per §4.4's cache
// eviction rule.
func (e *Engine) Invalidate(dpid uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.init()

	for k, entry := range e.cache {
		if _, ok := entry.IndexOf(dpid); ok {
			delete(e.cache, k)
		}
	}
}

// InvalidateKey drops the cache entry for key (or its reverse), used
// when a switch on the cached path turns out to not actually be on it
// (§4.5.1 Case B, fall-through to Case C).
func (e *Engine) InvalidateKey(key FlowKey) {
	ck, _ := canonicalize(key)

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.cache, ck)
}

// PortsForHop returns the outbound port on `from` that departs toward
// `to` along an edge in the current topology, and the port `to`
// receives on. It is used by the dispatcher to translate a path's
// adjacent DPID pair into concrete switch ports.
func (e *Engine) PortsForHop(from, to uint64) (srcPort, dstPort uint32, ok bool) {
	snap := e.Store.Snapshot()
	g := buildGraph(snap, e.Cost, e.RefBw, e.MinBw)
	return g.portsForHop(from, to)
}
