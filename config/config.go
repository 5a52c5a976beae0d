// Package config loads the controller's JSON configuration file and
// the optional JSON topology-bootstrap file (§6). Both loaders
// validate by hand, matching the style of the topology-bootstrap
// reference code this schema was distilled from: a config or
// bootstrap problem is a fatal, before-serving error (§7), never a
// recoverable one.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pathweave/sdnctl/pathengine"
)

// Config is the top-level controller configuration (§6).
type Config struct {
	ControllerHost string `json:"controller_host"`
	ControllerPort uint16 `json:"controller_port"`

	CostProtocol string `json:"cost_protocol"`

	OSPFReferenceBandwidth uint64 `json:"OSPF_reference_bandwidth"`
	PollIntervalSec        int    `json:"poll_interval_sec"`
	Debug                  bool   `json:"debug"`
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort     uint16 = 6653
	defaultPollSec         = 5
)

// Load reads and validates a config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads and validates a config document from r. Per §6, a
// document with any key outside the documented set is refused rather
// than silently ignored.
func Decode(r io.Reader) (*Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var c Config
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if c.ControllerHost == "" {
		c.ControllerHost = defaultHost
	}
	if c.ControllerPort == 0 {
		c.ControllerPort = defaultPort
	}
	if c.PollIntervalSec == 0 {
		c.PollIntervalSec = defaultPollSec
	}
	if c.OSPFReferenceBandwidth == 0 {
		c.OSPFReferenceBandwidth = 1e8
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) validate() error {
	switch c.CostProtocol {
	case "HOP", "OSPF", "DYNAMIC_BANDWIDTH":
	default:
		return fmt.Errorf("config: invalid cost_protocol %q", c.CostProtocol)
	}
	if c.PollIntervalSec <= 0 {
		return fmt.Errorf("config: poll_interval_sec must be positive, got %d", c.PollIntervalSec)
	}
	return nil
}

// CostFunc translates the config's cost_protocol string into a
// pathengine.CostFunc.
func (c *Config) CostFunc() pathengine.CostFunc {
	switch c.CostProtocol {
	case "OSPF":
		return pathengine.CostOSPF
	case "DYNAMIC_BANDWIDTH":
		return pathengine.CostDynamicBandwidth
	default:
		return pathengine.CostHOP
	}
}

// ListenAddr is the host:port the controller listens on.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ControllerHost, c.ControllerPort)
}
