package knowledge

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"advisim/internal/logging"
)

//go:embed defaults/*.yaml
var defaultTables embed.FS

// domainFiles maps each domain to its table file name. Override files in the
// configured directory use the same names.
var domainFiles = map[string]string{
	DomainVisa:      "visa.yaml",
	DomainLicensing: "kbli.yaml",
	DomainTax:       "tax.yaml",
	DomainLegal:     "legal.yaml",
}

// Base holds the loaded knowledge tables for all domains. Snapshots are
// swapped atomically on reload, so a provider holding a Snapshot never sees
// a half-updated table.
type Base struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
	dir       string // override directory, may be empty
}

// NewBase loads the embedded default tables, then applies overrides from
// dir when it is non-empty. Missing override files are not an error; the
// embedded table stays in effect.
func NewBase(dir string) (*Base, error) {
	b := &Base{
		snapshots: make(map[string]Snapshot, len(domainFiles)),
		dir:       dir,
	}
	if err := b.Reload(); err != nil {
		return nil, err
	}
	return b, nil
}

// Reload re-reads all tables (embedded defaults plus directory overrides).
func (b *Base) Reload() error {
	fresh := make(map[string]Snapshot, len(domainFiles))

	for domain, file := range domainFiles {
		data, err := defaultTables.ReadFile("defaults/" + file)
		if err != nil {
			return fmt.Errorf("embedded table %s missing: %w", file, err)
		}
		snap, err := ParseTable(data)
		if err != nil {
			return fmt.Errorf("embedded table %s: %w", file, err)
		}

		if b.dir != "" {
			path := filepath.Join(b.dir, file)
			if override, err := os.ReadFile(path); err == nil {
				snap, err = ParseTable(override)
				if err != nil {
					return fmt.Errorf("override table %s: %w", path, err)
				}
				logging.Knowledge("loaded override table %s (%d entries)", path, len(snap.order))
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to read override table %s: %w", path, err)
			}
		}

		if snap.Domain != domain {
			return fmt.Errorf("table %s declares domain %q, expected %q", file, snap.Domain, domain)
		}
		fresh[domain] = snap
	}

	b.mu.Lock()
	b.snapshots = fresh
	b.mu.Unlock()

	logging.Knowledge("knowledge base loaded (%d domains)", len(fresh))
	return nil
}

// Snapshot returns the current table for a domain. Unknown domains yield an
// empty snapshot, which providers treat as absent knowledge.
func (b *Base) Snapshot(domain string) Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshots[domain]
}
