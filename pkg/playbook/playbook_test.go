package playbook //nolint:testpackage // white-box tests for parse

import (
	"strings"
	"testing"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	t.Parallel()

	r, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.Len() == 0 {
		t.Fatal("embedded catalog is empty")
	}

	// Every entry the foreman can name must resolve with usable guidance.
	for _, id := range []string{
		"machine_fault_mid_slot",
		"jam_partial_bar",
		"bar_code_mismatch",
		"low_stock_bar",
		"unplanned_changeover",
	} {
		e, ok := r.Lookup(id)
		if !ok {
			t.Errorf("lookup %q: not found", id)
			continue
		}
		if e.Title == "" || e.Guidance == "" {
			t.Errorf("entry %q missing title or guidance", id)
		}
	}
}

func TestLookup_MissingIDIsNotAnError(t *testing.T) {
	t.Parallel()

	r, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := r.Lookup("no_such_edge_case"); ok {
		t.Fatal("lookup of unknown id reported found")
	}
}

func TestParse_DuplicateIDRejected(t *testing.T) {
	t.Parallel()

	doc := `
entries:
  - id: dup
    title: one
    guidance: a
  - id: dup
    title: two
    guidance: b
`
	_, err := parse([]byte(doc))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := parse([]byte("entries: {not a list")); err == nil {
		t.Fatal("expected parse error for malformed catalog")
	}
}
