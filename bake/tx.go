package bake

import (
	"github.com/charmbracelet/log"

	"github.com/reforge/reforge/host"
)

// graphTx records shading-graph mutations so they can be undone exactly.
// Original links are captured as (source socket, destination socket) pairs
// rather than node identities, since temporary nodes come and go during
// the bake. revert is idempotent and safe to defer alongside an explicit
// call; restore failures are logged and swallowed, never escalated.
type graphTx struct {
	graph    host.Graph
	restores [][2]host.Socket // {from, to}
	cleared  []host.Socket
	temps    []host.Node
	log      *log.Logger
	done     bool
}

func newGraphTx(graph host.Graph, logger *log.Logger) *graphTx {
	return &graphTx{graph: graph, log: logger}
}

// disconnect captures and removes the link feeding an input socket.
func (tx *graphTx) disconnect(in host.Socket) {
	if from := in.LinkedFrom(); from != nil {
		tx.restores = append(tx.restores, [2]host.Socket{from, in})
	}
	tx.cleared = append(tx.cleared, in)
	tx.graph.Unlink(in)
}

func (tx *graphTx) addTemp(n host.Node) {
	tx.temps = append(tx.temps, n)
}

func (tx *graphTx) revert() {
	if tx.done {
		return
	}
	tx.done = true

	for _, in := range tx.cleared {
		tx.graph.Unlink(in)
	}
	for _, pair := range tx.restores {
		if err := tx.graph.Link(pair[0], pair[1]); err != nil && tx.log != nil {
			tx.log.Warnf("bake cleanup: can't restore link into %q: %v", pair[1].Name(), err)
		}
	}
	for _, n := range tx.temps {
		tx.graph.RemoveNode(n)
	}
	tx.cleared = nil
	tx.restores = nil
	tx.temps = nil
}
