package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harborgrid-justin/lexiflow-premium-sub012/models"
)

func TestLoadJSON(t *testing.T) {
	doc := `{
		"nodes": [
			{"id": "case", "label": "Case 24-1138", "type": "root"},
			{"id": "acme", "type": "organization"}
		],
		"links": [
			{"source": "case", "target": "acme", "strength": 2}
		]
	}`

	nodes, links, err := LoadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 || len(links) != 1 {
		t.Fatalf("got %d nodes, %d links; want 2, 1", len(nodes), len(links))
	}
	if nodes[1].Label != "acme" {
		t.Errorf("missing label should default to ID, got %q", nodes[1].Label)
	}
	if links[0].Strength != 2 {
		t.Errorf("strength = %v, want 2", links[0].Strength)
	}
}

func TestLoadJSONUnknownType(t *testing.T) {
	_, _, err := LoadJSON(strings.NewReader(`{"nodes":[{"id":"x","type":"widget"}]}`))
	if err == nil {
		t.Fatal("expected error for unknown node type")
	}
}

func TestLoadCSV(t *testing.T) {
	nodes := "id,label,type\ncase,Case 24-1138,root\ndoe,J. Doe,party\n"
	links := "source,target,strength\ncase,doe,1.5\ncase,ghost,\n"

	ns, ls, err := LoadCSV(strings.NewReader(nodes), strings.NewReader(links))
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 2 {
		t.Fatalf("got %d nodes, want 2", len(ns))
	}
	if ns[1].Type != models.TypeParty {
		t.Errorf("node type = %v, want party", ns[1].Type)
	}
	if len(ls) != 2 {
		// The dangling link survives ingest; the engine filters it later.
		t.Fatalf("got %d links, want 2", len(ls))
	}
	if ls[0].Strength != 1.5 {
		t.Errorf("strength = %v, want 1.5", ls[0].Strength)
	}
}

func TestLoadCSVWithoutLinks(t *testing.T) {
	ns, ls, err := LoadCSV(strings.NewReader("id,label,type\na,A,evidence\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(ns) != 1 || ls != nil {
		t.Fatalf("got %d nodes, %v links; want 1 node, no links", len(ns), ls)
	}
}

func TestLoadCSVBadType(t *testing.T) {
	_, _, err := LoadCSV(strings.NewReader("id,label,type\na,A,unknown\n"), nil)
	if err == nil || !strings.Contains(err.Error(), "row 1") {
		t.Fatalf("error = %v, want row-level type error", err)
	}
}

func TestLoadFileDispatch(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(jsonPath, []byte(`{"nodes":[{"id":"a","type":"root"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	nodes, _, err := LoadFile(jsonPath, "")
	if err != nil || len(nodes) != 1 {
		t.Fatalf("json dispatch: nodes=%d err=%v", len(nodes), err)
	}

	badPath := filepath.Join(dir, "graph.xml")
	if err := os.WriteFile(badPath, []byte("<graph/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadFile(badPath, ""); err == nil {
		t.Error("expected error for unsupported format")
	}

	if _, _, err := LoadFile(filepath.Join(dir, "missing.json"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}
