package pipeline

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/graph"
)

// Input formats accepted by [ParseInput].
const (
	InputJSON  = "json"  // {"nodes": [...], "edges": [...]}
	InputLinks = "links" // {"nodes": {"id": {...}}, "links": [{"from":..,"to":..}]}
	InputEdges = "edges" // one "parent child" or "parent -> child" pair per line
)

// ReadInputFile reads a graph from path, detecting the format from the
// extension and content.
func ReadInputFile(path string) (graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return graph.Graph{}, fmt.Errorf("read %s: %w", path, err)
	}
	format := ""
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".edges", ".tsv":
		format = InputEdges
	}
	return ParseInput(data, format)
}

// ParseInput decodes a graph. An empty format is detected: JSON objects
// whose "nodes" is an object use the links form, other JSON uses the
// canonical form, anything else is an edge list.
func ParseInput(data []byte, format string) (graph.Graph, error) {
	if format == "" {
		format = detectFormat(data)
	}
	var (
		g   graph.Graph
		err error
	)
	switch format {
	case InputJSON:
		return graph.UnmarshalGraph(data)
	case InputLinks:
		g, err = parseLinks(data)
	case InputEdges:
		g, err = parseEdges(bytes.NewReader(data))
	default:
		return graph.Graph{}, errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q", format)
	}
	if err != nil {
		return graph.Graph{}, err
	}
	if err := g.Validate(0); err != nil {
		return graph.Graph{}, err
	}
	return g, nil
}

func detectFormat(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return InputEdges
	}
	var doc struct {
		Nodes json.RawMessage `json:"nodes"`
	}
	if json.Unmarshal(trimmed, &doc) == nil {
		if n := bytes.TrimSpace(doc.Nodes); len(n) > 0 && n[0] == '{' {
			return InputLinks
		}
	}
	return InputJSON
}

// parseLinks reads the object form, keeping node keys in document order
// since root selection depends on it.
func parseLinks(data []byte) (graph.Graph, error) {
	var doc struct {
		Nodes json.RawMessage `json:"nodes"`
		Links []graph.Edge    `json:"links"`
		Edges []graph.Edge    `json:"edges"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode links document")
	}

	dec := json.NewDecoder(bytes.NewReader(doc.Nodes))
	if _, err := dec.Token(); err != nil {
		return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode nodes")
	}
	var g graph.Graph
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode node id")
		}
		id, _ := tok.(string)
		var meta map[string]any
		if err := dec.Decode(&meta); err != nil {
			return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode node %q", id)
		}
		n := graph.Node{ID: id, Meta: meta}
		if name, ok := meta["name"].(string); ok {
			n.Label = name
		}
		g.Nodes = append(g.Nodes, n)
	}
	g.Edges = append(doc.Links, doc.Edges...)
	return g, nil
}

// parseEdges reads an edge list. Nodes are collected in first-seen order;
// a line with a single token declares an isolated node. '#' starts a comment.
func parseEdges(r io.Reader) (graph.Graph, error) {
	var g graph.Graph
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			g.Nodes = append(g.Nodes, graph.Node{ID: id})
		}
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(strings.ReplaceAll(text, "->", " "))
		switch len(fields) {
		case 0:
		case 1:
			add(fields[0])
		case 2:
			add(fields[0])
			add(fields[1])
			g.Edges = append(g.Edges, graph.Edge{From: fields[0], To: fields[1]})
		default:
			return graph.Graph{}, errors.New(errors.ErrCodeInvalidGraph, "line %d: expected \"parent child\", got %q", line, sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		return graph.Graph{}, fmt.Errorf("scan edges: %w", err)
	}
	return g, nil
}
