// Package knowledge provides read-only domain knowledge tables for the
// analysis providers: visa types, KBLI business codes, tax regimes, and
// legal structures. Tables are keyed lookups with documented fallback
// semantics - an inexact query resolves to the table's preferred default
// entry, or failing that to the first available entry.
package knowledge

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Domain identifiers for the bundled tables.
const (
	DomainVisa      = "visa"
	DomainLicensing = "licensing"
	DomainTax       = "tax"
	DomainLegal     = "legal"
)

// Entry is one knowledge-base record.
type Entry struct {
	Name         string   `yaml:"name"`
	Requirements []string `yaml:"requirements"`
	Timeline     string   `yaml:"timeline"`
	Investment   string   `yaml:"investment"`
	Obligations  []string `yaml:"obligations"`
	// Restricted marks categories that force an INTERNAL classification:
	// long-stay permits, foreign-ineligible business codes.
	Restricted bool   `yaml:"restricted"`
	Notes      string `yaml:"notes"`
}

// Snapshot is an immutable view of one domain table. The zero value is a
// valid empty snapshot; Lookup on it always misses.
type Snapshot struct {
	Domain           string
	PreferredDefault string
	entries          map[string]Entry
	order            []string
}

// tableFile is the on-disk/embedded yaml shape.
type tableFile struct {
	Domain           string           `yaml:"domain"`
	PreferredDefault string           `yaml:"preferred_default"`
	Entries          []tableFileEntry `yaml:"entries"`
}

type tableFileEntry struct {
	Key   string `yaml:"key"`
	Entry `yaml:",inline"`
}

// ParseTable decodes a yaml table into a Snapshot. Entry order in the file
// is preserved; it determines the first-available fallback.
func ParseTable(data []byte) (Snapshot, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse knowledge table: %w", err)
	}
	if tf.Domain == "" {
		return Snapshot{}, fmt.Errorf("knowledge table missing domain")
	}

	s := Snapshot{
		Domain:           tf.Domain,
		PreferredDefault: tf.PreferredDefault,
		entries:          make(map[string]Entry, len(tf.Entries)),
	}
	for _, e := range tf.Entries {
		if e.Key == "" {
			return Snapshot{}, fmt.Errorf("knowledge table %s has entry without key", tf.Domain)
		}
		if _, dup := s.entries[e.Key]; dup {
			return Snapshot{}, fmt.Errorf("knowledge table %s has duplicate key %q", tf.Domain, e.Key)
		}
		s.entries[e.Key] = e.Entry
		s.order = append(s.order, e.Key)
	}
	return s, nil
}

// Empty reports whether the snapshot has no entries.
func (s Snapshot) Empty() bool {
	return len(s.order) == 0
}

// Keys returns the entry keys in table order.
func (s Snapshot) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Has reports whether the exact key exists.
func (s Snapshot) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Lookup resolves a key. An exact match wins; otherwise the preferred
// default entry is returned if present, else the first available entry.
// The resolved key is returned alongside the entry; exact reports whether
// the match was exact. An empty snapshot returns ok=false.
func (s Snapshot) Lookup(key string) (entry Entry, resolved string, exact bool, ok bool) {
	if e, found := s.entries[key]; found {
		return e, key, true, true
	}
	if s.PreferredDefault != "" {
		if e, found := s.entries[s.PreferredDefault]; found {
			return e, s.PreferredDefault, false, true
		}
	}
	if len(s.order) > 0 {
		first := s.order[0]
		return s.entries[first], first, false, true
	}
	return Entry{}, "", false, false
}
