package ofputil

import (
	"github.com/pathweave/sdnctl"
	"github.com/pathweave/sdnctl/ofp"
)

// newFlowModRequest wraps a FlowMod (an io.WriterTo, not an
// io.Reader) into a request body the same way the rest of the
// package's request constructors do.
func newFlowModRequest(fmod *ofp.FlowMod) *of.Request {
	body, err := of.NewReader(fmod)
	if err != nil {
		panic(err)
	}

	r, _ := of.NewRequest(of.TypeFlowMod, body)
	return r
}

func TableFlush(table ofp.Table) *of.Request {
	return newFlowModRequest(&ofp.FlowMod{
		Table:    table,
		Command:  ofp.FlowDelete,
		Buffer:   ofp.NoBuffer,
		OutPort:  ofp.PortAny,
		OutGroup: ofp.GroupAny,
		Match:    ofp.Match{ofp.MatchTypeXM, nil},
	})
}

func FlowFlush(table ofp.Table, match ofp.Match) *of.Request {
	return newFlowModRequest(&ofp.FlowMod{
		Table:    table,
		Command:  ofp.FlowDelete,
		Buffer:   ofp.NoBuffer,
		OutPort:  ofp.PortAny,
		OutGroup: ofp.GroupAny,
		Match:    match,
	})
}

func FlowDrop(table ofp.Table) *of.Request {
	return newFlowModRequest(&ofp.FlowMod{
		Table:   table,
		Command: ofp.FlowAdd,
		Buffer:  ofp.NoBuffer,
		Match:   ofp.Match{ofp.MatchTypeXM, nil},
	})
}
