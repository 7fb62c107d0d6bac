// Package playbook holds the static catalog of recognized operational edge
// cases and the operator guidance attached to each. The catalog is embedded
// at build time and read-only at run time.
package playbook

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Entry is one edge case with its operator-facing guidance.
type Entry struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Severity string `yaml:"severity"`
	Guidance string `yaml:"guidance"`
}

// Registry is an id-keyed lookup over playbook entries.
type Registry struct {
	entries map[string]Entry
}

// Load parses the embedded catalog. It fails only on a malformed catalog;
// that is a build defect, not an operational condition.
func Load() (*Registry, error) {
	return parse(catalogYAML)
}

func parse(data []byte) (*Registry, error) {
	var doc struct {
		Entries []Entry `yaml:"entries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse playbook catalog: %w", err)
	}

	r := &Registry{entries: make(map[string]Entry, len(doc.Entries))}
	for _, e := range doc.Entries {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an entry to the registry. Duplicate ids are rejected.
func (r *Registry) Register(e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("playbook entry: missing id")
	}
	if _, exists := r.entries[e.ID]; exists {
		return fmt.Errorf("playbook entry %q: duplicate id", e.ID)
	}
	r.entries[e.ID] = e
	return nil
}

// Lookup returns the entry for an edge-case id. A missing id is not an
// error: the caller degrades to "no guidance available".
func (r *Registry) Lookup(id string) (Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Len returns the number of catalog entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
