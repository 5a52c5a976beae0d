package ofputil

import (
	"testing"

	of "github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/ofp"
	"github.com/pathweave/sdnctl/ofptest"
)

func TestHelloHandler(t *testing.T) {
	ver := uint8(4)

	rw := ofptest.NewRecorder()
	h := HelloHandler(ver, nil)

	req, err := of.NewRequest(of.TypeHello, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Version = 3
	req.Header.XID = 42

	h.Serve(rw, req)

	resp := rw.First()
	if resp == nil {
		t.Fatal("expected a reply to be written")
	}
	if resp.Header.Type != of.TypeHello {
		t.Errorf("hello message expected: %d", resp.Header.Type)
	}
	if resp.Header.Version != ver {
		t.Errorf("unexpected version returned: %d", resp.Header.Version)
	}
	if resp.Header.XID != req.Header.XID {
		t.Errorf("transaction identifier changed: %d", resp.Header.XID)
	}
}

func TestEchoHandler(t *testing.T) {
	rw := ofptest.NewRecorder()
	h := EchoHandler(nil)

	echo := &ofp.EchoRequest{Data: []byte{1, 2, 3, 4}}
	rd, err := of.NewReader(echo)
	if err != nil {
		t.Fatal(err)
	}

	req, err := of.NewRequest(of.TypeEchoRequest, rd)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.XID = 43

	h.Serve(rw, req)

	resp := rw.First()
	if resp == nil {
		t.Fatal("expected a reply to be written")
	}
	if resp.Header.Type != of.TypeEchoReply {
		t.Errorf("echo reply message expected: %d", resp.Header.Type)
	}
	if resp.Header.XID != req.Header.XID {
		t.Errorf("transaction identifier changed: %d", resp.Header.XID)
	}
}
