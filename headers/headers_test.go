package headers

import (
	"bytes"
	"net"
	"testing"
)

func mustMAC(s string) net.HardwareAddr {
	hw, err := net.ParseMAC(s)
	if err != nil {
		panic(err)
	}
	return hw
}

func TestEthernetRoundTrip(t *testing.T) {
	eth := &Ethernet{
		Dst:       mustMAC("aa:00:00:00:00:02"),
		Src:       mustMAC("aa:00:00:00:00:01"),
		EtherType: EtherTypeARP,
	}

	var buf bytes.Buffer
	if _, err := eth.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	got, rest, err := ParseEthernet(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseEthernet: %v", err)
	}

	if got.EtherType != EtherTypeARP {
		t.Fatalf("EtherType = %v, want %v", got.EtherType, EtherTypeARP)
	}

	if got.Dst.String() != eth.Dst.String() || got.Src.String() != eth.Src.String() {
		t.Fatalf("addresses mismatch: got %+v", got)
	}

	if len(rest) != 0 {
		t.Fatalf("expected no trailing payload, got %d bytes", len(rest))
	}
}

func TestEthernetTruncated(t *testing.T) {
	if _, _, err := ParseEthernet(make([]byte, 4)); err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestARPRoundTrip(t *testing.T) {
	a := &ARP{
		Opcode: ARPReply,
		SHA:    mustMAC("aa:00:00:00:00:02"),
		SPA:    net.ParseIP("10.0.0.2").To4(),
		THA:    mustMAC("aa:00:00:00:00:01"),
		TPA:    net.ParseIP("10.0.0.1").To4(),
	}

	got, err := ParseARP(a.Bytes())
	if err != nil {
		t.Fatalf("ParseARP: %v", err)
	}

	if got.Opcode != ARPReply {
		t.Fatalf("Opcode = %v, want ARPReply", got.Opcode)
	}

	if !got.SPA.Equal(a.SPA) || !got.TPA.Equal(a.TPA) {
		t.Fatalf("addresses mismatch: got %+v", got)
	}
}

func TestParseIPv4TCP(t *testing.T) {
	ip := &IPv4{
		Protocol: ProtoTCP,
		Src:      net.ParseIP("10.0.0.1").To4(),
		Dst:      net.ParseIP("10.0.0.2").To4(),
	}

	tcp := make([]byte, 20)
	tcp[0], tcp[1] = 0x13, 0x88 // src port 5000
	tcp[2], tcp[3] = 0x00, 0x50 // dst port 80

	frame := append(ip.Bytes(len(tcp)), tcp...)

	gotIP, payload, err := ParseIPv4(frame)
	if err != nil {
		t.Fatalf("ParseIPv4: %v", err)
	}

	if gotIP.Protocol != ProtoTCP {
		t.Fatalf("Protocol = %v, want ProtoTCP", gotIP.Protocol)
	}

	gotTCP, err := ParseTCP(payload)
	if err != nil {
		t.Fatalf("ParseTCP: %v", err)
	}

	if gotTCP.SrcPort != 5000 || gotTCP.DstPort != 80 {
		t.Fatalf("ports = %d/%d, want 5000/80", gotTCP.SrcPort, gotTCP.DstPort)
	}
}
