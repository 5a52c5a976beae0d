// Package statspoller periodically requests port statistics and port
// descriptions from every connected switch, feeding the topology
// store's bandwidth measurements that the DYNAMIC_BANDWIDTH cost
// function depends on (§4.8).
package statspoller

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/ofp"
)

// connLister is the subset of controller.Controller the poller needs:
// a snapshot of live (dpid, conn) pairs. Keeping it an interface (
// rather than importing the controller package directly) avoids a
// dependency cycle should the controller ever want to import this
// package back.
type connLister interface {
	Conns() map[uint64]of.Conn
}

// Poller sends PortStatsRequest and a port-description multipart
// request to every connected switch once per Interval.
type Poller struct {
	Conns    connLister
	Interval time.Duration
	Log      *logrus.Logger
}

// Run blocks, polling every Interval, until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	log := p.Log
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.PanicLevel)
	}

	interval := p.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(log)
		}
	}
}

func (p *Poller) pollOnce(log *logrus.Logger) {
	for dpid, conn := range p.Conns.Conns() {
		if err := sendMultipart(conn, ofp.MultipartTypePortStats, &ofp.PortStatsRequest{PortNo: ofp.PortAny}); err != nil {
			log.WithError(err).WithField("dpid", dpid).Debug("statspoller: port stats request failed")
			continue
		}
		if err := sendMultipart(conn, ofp.MultipartTypePortDescription, nil); err != nil {
			log.WithError(err).WithField("dpid", dpid).Debug("statspoller: port description request failed")
		}
	}
}

// sendMultipart wraps body (nil for requests with no body) into a
// MultipartRequest and writes it to conn, flushing immediately since
// the poller runs outside the session's own receive/response loop.
func sendMultipart(conn of.Conn, t ofp.MultipartType, body io.WriterTo) error {
	mreq := ofp.NewMultipartRequest(t, body)

	rd, err := of.NewReader(mreq)
	if err != nil {
		return err
	}

	req, err := of.NewRequest(of.TypeMultipartRequest, rd)
	if err != nil {
		return err
	}

	if err := conn.Send(req); err != nil {
		return err
	}
	return conn.Flush()
}
