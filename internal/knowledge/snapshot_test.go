package knowledge

import (
	"testing"
)

const sampleTable = `
domain: visa
preferred_default: b211a
entries:
  - key: b211a
    name: Visit Visa
    timeline: 1-2 weeks
  - key: investor_kitas
    name: Investor KITAS
    timeline: 4-6 weeks
    restricted: true
`

func TestParseTable(t *testing.T) {
	snap, err := ParseTable([]byte(sampleTable))
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}
	if snap.Domain != "visa" {
		t.Errorf("expected domain visa, got %s", snap.Domain)
	}
	if got := snap.Keys(); len(got) != 2 || got[0] != "b211a" {
		t.Errorf("unexpected keys: %v", got)
	}
}

func TestParseTableRejectsDuplicates(t *testing.T) {
	bad := `
domain: visa
entries:
  - key: a
    name: one
  - key: a
    name: two
`
	if _, err := ParseTable([]byte(bad)); err == nil {
		t.Error("expected duplicate key error")
	}
}

func TestLookupExact(t *testing.T) {
	snap, _ := ParseTable([]byte(sampleTable))
	e, resolved, exact, ok := snap.Lookup("investor_kitas")
	if !ok || !exact {
		t.Fatalf("expected exact hit, got ok=%v exact=%v", ok, exact)
	}
	if resolved != "investor_kitas" || !e.Restricted {
		t.Errorf("wrong entry resolved: %s restricted=%v", resolved, e.Restricted)
	}
}

func TestLookupFallsBackToPreferredDefault(t *testing.T) {
	snap, _ := ParseTable([]byte(sampleTable))
	e, resolved, exact, ok := snap.Lookup("no_such_visa")
	if !ok || exact {
		t.Fatalf("expected inexact fallback, got ok=%v exact=%v", ok, exact)
	}
	if resolved != "b211a" || e.Name != "Visit Visa" {
		t.Errorf("expected preferred default, got %s", resolved)
	}
}

func TestLookupFallsBackToFirstEntry(t *testing.T) {
	noDefault := `
domain: tax
entries:
  - key: first
    name: First Regime
  - key: second
    name: Second Regime
`
	snap, _ := ParseTable([]byte(noDefault))
	_, resolved, exact, ok := snap.Lookup("missing")
	if !ok || exact || resolved != "first" {
		t.Errorf("expected first-entry fallback, got resolved=%s exact=%v ok=%v", resolved, exact, ok)
	}
}

func TestLookupEmptySnapshot(t *testing.T) {
	var snap Snapshot
	if _, _, _, ok := snap.Lookup("anything"); ok {
		t.Error("empty snapshot must miss")
	}
	if !snap.Empty() {
		t.Error("zero snapshot should be empty")
	}
}
