package config

import (
	"strings"
	"testing"

	"github.com/pathweave/sdnctl/topology"
)

func TestDecodeAppliesDefaults(t *testing.T) {
	doc := `{"cost_protocol": "HOP"}`
	c, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c.ControllerHost != defaultHost {
		t.Fatalf("ControllerHost = %q, want %q", c.ControllerHost, defaultHost)
	}
	if c.ControllerPort != defaultPort {
		t.Fatalf("ControllerPort = %d, want %d", c.ControllerPort, defaultPort)
	}
	if c.PollIntervalSec != defaultPollSec {
		t.Fatalf("PollIntervalSec = %d, want %d", c.PollIntervalSec, defaultPollSec)
	}
}

func TestDecodeRejectsBadCostProtocol(t *testing.T) {
	doc := `{"cost_protocol": "BOGUS"}`
	if _, err := Decode(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for an invalid cost_protocol")
	}
}

func TestDecodeRejectsNegativePollInterval(t *testing.T) {
	doc := `{"cost_protocol": "HOP", "poll_interval_sec": -1}`
	if _, err := Decode(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for a non-positive poll_interval_sec")
	}
}

func TestDecodeRejectsUnknownKey(t *testing.T) {
	doc := `{"cost_protocol": "HOP", "cost_protocl": "HOP"}`
	if _, err := Decode(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for a misspelled key")
	}
}

func TestDecodeBootstrapValid(t *testing.T) {
	doc := `{
		"switches": [
			{"id": "s1", "hosts": [{"hostid": "h1", "ip": "10.0.0.1", "bw": 1000}], "links": [{"switchid": "s2", "bw": 1000000}]},
			{"id": "s2", "hosts": [], "links": []}
		]
	}`
	b, err := DecodeBootstrap(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeBootstrap: %v", err)
	}
	if len(b.Switches) != 2 {
		t.Fatalf("got %d switches, want 2", len(b.Switches))
	}
}

func TestDecodeBootstrapRejectsDuplicateLink(t *testing.T) {
	doc := `{
		"switches": [
			{"id": "s1", "links": [{"switchid": "s2", "bw": 1000}]},
			{"id": "s2", "links": [{"switchid": "s1", "bw": 1000}]}
		]
	}`
	if _, err := DecodeBootstrap(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for a link asserted from both ends")
	}
}

func TestDecodeBootstrapRejectsDuplicateSwitchID(t *testing.T) {
	doc := `{"switches": [{"id": "s1"}, {"id": "s1"}]}`
	if _, err := DecodeBootstrap(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for a duplicate switch id")
	}
}

func TestDecodeBootstrapRejectsNonPositiveBw(t *testing.T) {
	doc := `{"switches": [{"id": "s1", "hosts": [{"hostid": "h1", "ip": "10.0.0.1", "bw": 0}]}]}`
	if _, err := DecodeBootstrap(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for non-positive host bw")
	}
}

func TestDecodeBootstrapRejectsUnknownKey(t *testing.T) {
	doc := `{"switches": [{"id": "s1", "hosts": [], "links": [], "vlan": 7}]}`
	if _, err := DecodeBootstrap(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for an undocumented switch key")
	}
}

func TestBootstrapApplySeedsBidirectionalLinks(t *testing.T) {
	doc := `{
		"switches": [
			{"id": "s1", "links": [{"switchid": "s2", "bw": 1000000}]},
			{"id": "s2", "links": []}
		]
	}`
	b, err := DecodeBootstrap(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("DecodeBootstrap: %v", err)
	}

	var store topology.Store
	b.Apply(&store)

	s1, s2 := dpidOf("s1"), dpidOf("s2")
	if store.NominalBps(s1, 1) != 1000000 {
		t.Fatalf("forward link nominal bps = %d, want 1000000", store.NominalBps(s1, 1))
	}
	if store.NominalBps(s2, 1) != 1000000 {
		t.Fatalf("reverse link nominal bps = %d, want 1000000", store.NominalBps(s2, 1))
	}
}
