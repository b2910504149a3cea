// Package ingest loads graph definition files for the layout CLI. Two
// formats are supported: a single JSON document with node and link lists,
// or a pair of CSV files (nodes plus optional links).
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/harborgrid-justin/lexiflow-premium-sub012/models"
)

type document struct {
	Nodes []models.NodeSpec `json:"nodes"`
	Links []models.LinkSpec `json:"links"`
}

// LoadJSON reads a graph document of the form
//
//	{"nodes": [{"id", "label", "type"}, ...],
//	 "links": [{"source", "target", "strength"}, ...]}
//
// Unknown node types are an error; unresolvable links are not (the engine
// drops them at construction).
func LoadJSON(r io.Reader) ([]models.NodeSpec, []models.LinkSpec, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("parsing graph JSON: %w", err)
	}
	normalize(doc.Nodes)
	return doc.Nodes, doc.Links, nil
}

// nodeRow is the CSV row shape for nodes.
type nodeRow struct {
	ID    string `csv:"id"`
	Label string `csv:"label"`
	Type  string `csv:"type"`
}

// linkRow is the CSV row shape for links.
type linkRow struct {
	Source   string  `csv:"source"`
	Target   string  `csv:"target"`
	Strength float32 `csv:"strength"`
}

// LoadCSV reads nodes (required) and links (optional, may be nil) from
// CSV with header rows.
func LoadCSV(nodes, links io.Reader) ([]models.NodeSpec, []models.LinkSpec, error) {
	var nrows []nodeRow
	if err := gocsv.Unmarshal(nodes, &nrows); err != nil {
		return nil, nil, fmt.Errorf("parsing nodes CSV: %w", err)
	}

	specs := make([]models.NodeSpec, 0, len(nrows))
	for i, r := range nrows {
		t, err := models.ParseNodeType(r.Type)
		if err != nil {
			return nil, nil, fmt.Errorf("nodes CSV row %d: %w", i+1, err)
		}
		specs = append(specs, models.NodeSpec{ID: r.ID, Label: r.Label, Type: t})
	}
	normalize(specs)

	var linkSpecs []models.LinkSpec
	if links != nil {
		var lrows []linkRow
		if err := gocsv.Unmarshal(links, &lrows); err != nil {
			return nil, nil, fmt.Errorf("parsing links CSV: %w", err)
		}
		linkSpecs = make([]models.LinkSpec, 0, len(lrows))
		for _, r := range lrows {
			linkSpecs = append(linkSpecs, models.LinkSpec{
				SourceID: r.Source,
				TargetID: r.Target,
				Strength: r.Strength,
			})
		}
	}
	return specs, linkSpecs, nil
}

// LoadFile loads a graph from disk, dispatching on the file extension.
// For CSV input, linksPath may be empty.
func LoadFile(path, linksPath string) ([]models.NodeSpec, []models.LinkSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening graph file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f)
	case ".csv":
		var links io.Reader
		if linksPath != "" {
			lf, err := os.Open(linksPath)
			if err != nil {
				return nil, nil, fmt.Errorf("opening links file: %w", err)
			}
			defer lf.Close()
			links = lf
		}
		return LoadCSV(f, links)
	default:
		return nil, nil, fmt.Errorf("unsupported graph file format %q", filepath.Ext(path))
	}
}

// normalize fills defaulted fields: a missing label falls back to the ID.
func normalize(nodes []models.NodeSpec) {
	for i := range nodes {
		if nodes[i].Label == "" {
			nodes[i].Label = nodes[i].ID
		}
	}
}
