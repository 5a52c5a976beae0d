package ofptest

import (
	"bufio"
	"bytes"
	"errors"
	"net"

	of "github.com/pathweave/sdnctl"
)

// recordedHeader is an of.Header that just remembers the last values
// passed to Set, for ResponseRecorder to read back once a handler
// calls WriteHeader.
type recordedHeader struct {
	version uint8
	typ     of.Type
	xid     uint32
}

func (h *recordedHeader) Set(k of.HeaderKey, v interface{}) error {
	switch k {
	case of.VersionHeaderKey:
		ver, ok := v.(uint8)
		if !ok {
			return errors.New("ofptest: version must be uint8")
		}
		h.version = ver
	case of.TypeHeaderKey:
		t, ok := v.(of.Type)
		if !ok {
			return errors.New("ofptest: type must be of.Type")
		}
		h.typ = t
	case of.XIDHeaderKey:
		xid, ok := v.(uint32)
		if !ok {
			return errors.New("ofptest: xid must be uint32")
		}
		h.xid = xid
	default:
		return errors.New("ofptest: unknown header key")
	}
	return nil
}

func (h *recordedHeader) Get(k of.HeaderKey) interface{} {
	switch k {
	case of.VersionHeaderKey:
		return h.version
	case of.TypeHeaderKey:
		return h.typ
	case of.XIDHeaderKey:
		return h.xid
	default:
		return nil
	}
}

// ResponseRecorder is an of.ResponseWriter that records every message
// written to it instead of sending it over a connection, for use in
// handler unit tests, mirroring net/http/httptest.ResponseRecorder.
type ResponseRecorder struct {
	header  recordedHeader
	buf     bytes.Buffer
	written []*of.Request
}

// NewRecorder returns an initialized ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{}
}

func (w *ResponseRecorder) Header() of.Header {
	return &w.header
}

func (w *ResponseRecorder) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

// WriteHeader freezes the currently buffered body and header into a
// *of.Request, appended to Written, and resets the buffer for the
// next message a handler may send.
func (w *ResponseRecorder) WriteHeader() error {
	body := append([]byte(nil), w.buf.Bytes()...)
	req, err := of.NewRequest(w.header.typ, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.XID = w.header.xid
	if w.header.version != 0 {
		req.Header.Version = w.header.version
	}

	w.written = append(w.written, req)
	w.buf.Reset()
	return nil
}

func (w *ResponseRecorder) Close() error { return nil }

// Conn reports no underlying connection: a recorder isn't backed by one.
func (w *ResponseRecorder) Conn() of.Conn { return nil }

func (w *ResponseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return nil, nil, errors.New("ofptest: recorder does not support hijacking")
}

// Written returns every message recorded so far, in the order they
// were written.
func (w *ResponseRecorder) Written() []*of.Request {
	return w.written
}

// First returns the first message recorded, or nil if none was written.
func (w *ResponseRecorder) First() *of.Request {
	if len(w.written) == 0 {
		return nil
	}
	return w.written[0]
}
