package gateway

// Ledger maps ClOrdID to order state for one session. A single goroutine
// drives each session, so there is no locking here; nothing is shared
// across sessions.
type Ledger struct {
	orders map[string]*Order
}

func NewLedger() *Ledger {
	return &Ledger{
		orders: make(map[string]*Order),
	}
}

// Insert adds or replaces the entry. Duplicate ClOrdIDs overwrite,
// last write wins.
func (l *Ledger) Insert(clOrdID string, order *Order) {
	l.orders[clOrdID] = order
}

func (l *Ledger) Lookup(clOrdID string) (*Order, bool) {
	order, ok := l.orders[clOrdID]
	return order, ok
}

// Rekey moves the entry at oldID to newID. No-op when oldID is absent;
// callers validate existence before mutating.
func (l *Ledger) Rekey(oldID, newID string) {
	order, ok := l.orders[oldID]
	if !ok {
		return
	}
	delete(l.orders, oldID)
	l.orders[newID] = order
}

// Clear drops every entry. Called on disconnect.
func (l *Ledger) Clear() {
	l.orders = make(map[string]*Order)
}

func (l *Ledger) Len() int {
	return len(l.orders)
}
