package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pathweave/sdnctl/topology"
)

// BootstrapHost is one host attached to a bootstrap switch.
type BootstrapHost struct {
	HostID string `json:"hostid"`
	IP     string `json:"ip"`
	Bw     int64  `json:"bw"`
}

// BootstrapLink is one inter-switch link from a bootstrap switch. The
// reverse direction is implicit (§6): the loader asserts both
// directed edges from a single entry.
type BootstrapLink struct {
	SwitchID string `json:"switchid"`
	Bw       int64  `json:"bw"`
}

// BootstrapSwitch is one switch entry in the topology-bootstrap file.
type BootstrapSwitch struct {
	ID    string          `json:"id"`
	Hosts []BootstrapHost `json:"hosts"`
	Links []BootstrapLink `json:"links"`
}

// Bootstrap is the optional debug-mode topology-describing document
// (§6), used to seed link nominal bandwidths when port descriptions
// are unavailable.
type Bootstrap struct {
	Switches []BootstrapSwitch `json:"switches"`
}

// LoadBootstrap reads and validates a topology-bootstrap file at
// path.
func LoadBootstrap(path string) (*Bootstrap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	defer f.Close()

	return DecodeBootstrap(f)
}

// DecodeBootstrap reads and validates a topology-bootstrap document
// from r. Any violation of the rules in §6 is refused outright: no
// partial application. This includes keys not in the documented
// schema — an extra or misspelled field fails the decode instead of
// being silently dropped.
func DecodeBootstrap(r io.Reader) (*Bootstrap, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var b Bootstrap
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("bootstrap: decode: %w", err)
	}

	if err := b.validate(); err != nil {
		return nil, err
	}

	return &b, nil
}

func (b *Bootstrap) validate() error {
	seen := make(map[string]bool, len(b.Switches))
	for _, sw := range b.Switches {
		if sw.ID == "" {
			return fmt.Errorf("bootstrap: switch entry missing id")
		}
		if seen[sw.ID] {
			return fmt.Errorf("bootstrap: duplicate switch id %q", sw.ID)
		}
		seen[sw.ID] = true

		for _, h := range sw.Hosts {
			if h.HostID == "" || h.IP == "" {
				return fmt.Errorf("bootstrap: switch %q has a host missing hostid/ip", sw.ID)
			}
			if h.Bw <= 0 {
				return fmt.Errorf("bootstrap: switch %q host %q has non-positive bw", sw.ID, h.HostID)
			}
		}

		for _, l := range sw.Links {
			if l.SwitchID == "" {
				return fmt.Errorf("bootstrap: switch %q has a link missing switchid", sw.ID)
			}
			if l.Bw <= 0 {
				return fmt.Errorf("bootstrap: switch %q link to %q has non-positive bw", sw.ID, l.SwitchID)
			}
		}
	}

	// Every undirected link must appear exactly once: if A lists a
	// link to B, B must not also list a link to A.
	linked := make(map[[2]string]bool)
	for _, sw := range b.Switches {
		for _, l := range sw.Links {
			if !seen[l.SwitchID] {
				return fmt.Errorf("bootstrap: switch %q links to unknown switch %q", sw.ID, l.SwitchID)
			}
			key := [2]string{sw.ID, l.SwitchID}
			rev := [2]string{l.SwitchID, sw.ID}
			if linked[key] || linked[rev] {
				return fmt.Errorf("bootstrap: link between %q and %q appears more than once", sw.ID, l.SwitchID)
			}
			linked[key] = true
		}
	}

	return nil
}

// dpidOf derives a stable numeric DPID from a bootstrap switch id by
// hashing it; the bootstrap file's ids are opaque strings, but the
// topology store and the wire protocol key switches by uint64.
func dpidOf(id string) uint64 {
	var h uint64 = 14695981039346656037 // FNV-1a offset basis
	for i := 0; i < len(id); i++ {
		h ^= uint64(id[i])
		h *= 1099511628211 // FNV-1a prime
	}
	return h
}

// Apply seeds store with the switches and bidirectional inter-switch
// links described by b. It does not create hosts in the topology
// store: host attachment is still learned from live packet-in
// traffic (§4.3); the bootstrap file only supplies link bandwidth
// ahead of the first stats poll.
func (b *Bootstrap) Apply(store *topology.Store) {
	ids := make(map[string]uint64, len(b.Switches))
	for _, sw := range b.Switches {
		ids[sw.ID] = dpidOf(sw.ID)
		store.AddSwitch(ids[sw.ID], nil)
	}

	portOf := make(map[string]uint32)
	nextPort := make(map[string]uint32)
	for _, sw := range b.Switches {
		for _, l := range sw.Links {
			nextPort[sw.ID]++
			portOf[sw.ID+">"+l.SwitchID] = nextPort[sw.ID]
			nextPort[l.SwitchID]++
			portOf[l.SwitchID+">"+sw.ID] = nextPort[l.SwitchID]
		}
	}

	for _, sw := range b.Switches {
		for _, l := range sw.Links {
			srcPort := portOf[sw.ID+">"+l.SwitchID]
			dstPort := portOf[l.SwitchID+">"+sw.ID]
			bw := uint64(l.Bw)
			store.UpsertLink(ids[sw.ID], srcPort, ids[l.SwitchID], dstPort, bw)
			store.UpsertLink(ids[l.SwitchID], dstPort, ids[sw.ID], srcPort, bw)
		}
	}
}
