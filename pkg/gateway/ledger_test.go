package gateway

import "testing"

func TestLedgerInsertLookup(t *testing.T) {
	l := NewLedger()
	order := &Order{ClOrdID: "C1", OrderID: "1", Status: OrderStatusNew}
	l.Insert("C1", order)

	got, ok := l.Lookup("C1")
	if !ok {
		t.Fatal("expected order under C1")
	}
	if got != order {
		t.Errorf("expected same order back, got %+v", got)
	}
	if _, ok := l.Lookup("C2"); ok {
		t.Error("expected C2 to be absent")
	}
}

func TestLedgerInsertOverwrites(t *testing.T) {
	l := NewLedger()
	l.Insert("C1", &Order{OrderID: "1"})
	l.Insert("C1", &Order{OrderID: "2"})

	got, _ := l.Lookup("C1")
	if got.OrderID != "2" {
		t.Errorf("expected last write to win, got OrderID=%s", got.OrderID)
	}
	if l.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", l.Len())
	}
}

func TestLedgerRekey(t *testing.T) {
	l := NewLedger()
	order := &Order{ClOrdID: "A", OrderID: "1"}
	l.Insert("A", order)
	l.Rekey("A", "B")

	if _, ok := l.Lookup("A"); ok {
		t.Error("expected A to be gone after rekey")
	}
	got, ok := l.Lookup("B")
	if !ok || got != order {
		t.Errorf("expected same order under B, got %+v ok=%v", got, ok)
	}
}

func TestLedgerRekeyAbsentIsNoop(t *testing.T) {
	l := NewLedger()
	l.Insert("A", &Order{OrderID: "1"})
	l.Rekey("X", "Y")

	if l.Len() != 1 {
		t.Errorf("expected ledger untouched, got %d entries", l.Len())
	}
	if _, ok := l.Lookup("Y"); ok {
		t.Error("expected no entry under Y")
	}
}

func TestLedgerClear(t *testing.T) {
	l := NewLedger()
	l.Insert("A", &Order{OrderID: "1"})
	l.Insert("B", &Order{OrderID: "2"})
	l.Clear()

	if l.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d entries", l.Len())
	}
	if _, ok := l.Lookup("A"); ok {
		t.Error("expected A to be gone after clear")
	}
}
