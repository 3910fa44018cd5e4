package journal

import (
	"sync"

	"github.com/joripage/fixgateway-dev/pkg/gateway"
)

// Journal is the in-process audit log of emitted acknowledgements. The
// session goroutines append, the archiver drains; ClOrdID chains are kept
// so a replaced order can be traced back through its previous ids.
type Journal struct {
	mu            sync.RWMutex
	pending       []*gateway.OrderEvent
	byOrderID     map[string][]*gateway.OrderEvent
	latestClOrdID map[string]string // OrderID -> current ClOrdID
	clOrdChain    map[string]string // ClOrdID -> OrigClOrdID
}

func New() *Journal {
	return &Journal{
		byOrderID:     make(map[string][]*gateway.OrderEvent),
		latestClOrdID: make(map[string]string),
		clOrdChain:    make(map[string]string),
	}
}

func (j *Journal) Append(ev *gateway.OrderEvent) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pending = append(j.pending, ev)
	j.byOrderID[ev.OrderID] = append(j.byOrderID[ev.OrderID], ev)
	j.trackChain(ev.OrderID, ev.ClOrdID, ev.OrigClOrdID)
}

func (j *Journal) trackChain(orderID, clOrdID, origClOrdID string) {
	j.latestClOrdID[orderID] = clOrdID
	if origClOrdID != "" {
		j.clOrdChain[clOrdID] = origClOrdID
	}
}

// Drain removes and returns up to max pending events, oldest first.
// max <= 0 drains everything.
func (j *Journal) Drain(max int) []*gateway.OrderEvent {
	j.mu.Lock()
	defer j.mu.Unlock()

	if max <= 0 || max > len(j.pending) {
		max = len(j.pending)
	}
	if max == 0 {
		return nil
	}
	out := make([]*gateway.OrderEvent, max)
	copy(out, j.pending[:max])
	j.pending = j.pending[max:]
	return out
}

func (j *Journal) Events(orderID string) []*gateway.OrderEvent {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.byOrderID[orderID]
}

func (j *Journal) LatestClOrdID(orderID string) string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.latestClOrdID[orderID]
}

func (j *Journal) OrigClOrdID(clOrdID string) string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return j.clOrdChain[clOrdID]
}

// ReconstructChain walks backward from clOrdID through every id the order
// has carried.
func (j *Journal) ReconstructChain(clOrdID string) []string {
	j.mu.RLock()
	defer j.mu.RUnlock()

	var chain []string
	curr := clOrdID
	for curr != "" {
		chain = append(chain, curr)
		curr = j.clOrdChain[curr]
	}
	return chain
}
