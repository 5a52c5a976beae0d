package ofputil

import (
	"log"

	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/ofp"
)

// EchoHandler returns a request handler that replies on
// each request with a echo message with the same data
// as it was retrieved in the original message.
//
// The method accepts optional handler, that will executed
// in case of successful message submission.
func EchoHandler(h of.Handler) of.Handler {
	fn := func(rw of.ResponseWriter, r *of.Request) {
		var req ofp.EchoRequest

		// Try to parse the retrieved request to copy
		// the data of echo message into the request.
		_, err := req.ReadFrom(r.Body)
		if err != nil {
			text := "ofputil: failed to read the message: %v"
			log.Printf(text, err)
			return
		}

		reply := &ofp.EchoReply{Data: req.Data}
		rw.Header().Set(of.XIDHeaderKey, r.Header.XID)
		rw.Header().Set(of.TypeHeaderKey, of.TypeEchoReply)
		if _, err := reply.WriteTo(rw); err != nil {
			log.Printf("ofputil: failed to write echo reply: %v", err)
			return
		}
		rw.WriteHeader()

		// Execute optional handler.
		if h != nil {
			h.Serve(rw, r)
		}
	}

	return of.HandlerFunc(fn)
}

// HelloHandler returns a simple request handler that replies
// to each request with hello message of the specified version.
//
// The method accepts optional handler, that will executed
// in case of successful message submission.
func HelloHandler(version uint8, h of.Handler) of.Handler {
	fn := func(rw of.ResponseWriter, r *of.Request) {
		// Reply with the same transaction id, advertising our
		// supported version.
		rw.Header().Set(of.XIDHeaderKey, r.Header.XID)
		rw.Header().Set(of.TypeHeaderKey, of.TypeHello)
		rw.Header().Set(of.VersionHeaderKey, version)
		rw.WriteHeader()

		if h != nil {
			h.Serve(rw, r)
		}
	}

	return of.HandlerFunc(fn)
}
