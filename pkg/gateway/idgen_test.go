package gateway

import "testing"

func TestIDGeneratorStartsAtOne(t *testing.T) {
	g := NewIDGenerator()
	if id := g.Next(); id != "1" {
		t.Fatalf("expected first id to be \"1\", got %q", id)
	}
}

func TestIDGeneratorStrictlyIncreasing(t *testing.T) {
	g := NewIDGenerator()
	seen := make(map[string]bool)
	last := 0
	for i := 0; i < 10_000; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("duplicate id %q at call %d", id, i)
		}
		seen[id] = true

		n := 0
		for _, c := range id {
			n = n*10 + int(c-'0')
		}
		if n <= last {
			t.Fatalf("id %q not strictly greater than previous %d", id, last)
		}
		last = n
	}
}

func TestIDGeneratorInstancesIndependent(t *testing.T) {
	a, b := NewIDGenerator(), NewIDGenerator()
	a.Next()
	a.Next()
	if id := b.Next(); id != "1" {
		t.Errorf("expected fresh instance to start at \"1\", got %q", id)
	}
	if id := a.Next(); id != "3" {
		t.Errorf("expected third id \"3\", got %q", id)
	}
}

func BenchmarkIDGeneratorNext(b *testing.B) {
	g := NewIDGenerator()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = g.Next()
	}
}
