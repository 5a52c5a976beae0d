package statspoller

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/ofp"
)

// pipeConn is a minimal of.Conn backed by an in-memory net.Pipe, just
// enough for Poller to write requests into and a test to read them
// back out.
type pipeConn struct {
	of.Conn
	wc net.Conn
}

func newPipeConn(t *testing.T) (*pipeConn, net.Conn) {
	t.Helper()
	a, b := net.Pipe()
	return &pipeConn{Conn: of.NewConn(a), wc: a}, b
}

type fakeConns struct {
	conns map[uint64]of.Conn
}

func (f *fakeConns) Conns() map[uint64]of.Conn { return f.conns }

func TestPollerSendsMultipartRequests(t *testing.T) {
	pc, remote := newPipeConn(t)
	defer remote.Close()

	read := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 4096)
		n, _ := remote.Read(buf)
		read <- buf[:n]
	}()

	p := &Poller{
		Conns:    &fakeConns{conns: map[uint64]of.Conn{1: pc.Conn}},
		Interval: 20 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)

	select {
	case b := <-read:
		if len(b) == 0 {
			t.Fatal("expected non-empty multipart request on the wire")
		}
		if b[1] != byte(of.TypeMultipartRequest) {
			t.Fatalf("expected a multipart request header, got type byte %d", b[1])
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a poll")
	}
	cancel()
}

func TestSendMultipartWithNilBody(t *testing.T) {
	pc, remote := newPipeConn(t)
	defer remote.Close()

	done := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		b := make([]byte, 256)
		n, err := remote.Read(b)
		buf.Write(b[:n])
		done <- err
	}()

	if err := sendMultipart(pc.Conn, ofp.MultipartTypePortDescription, nil); err != nil {
		t.Fatalf("sendMultipart: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("read: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the request to be written")
	}
}
