package pograph

import (
	"bytes"
	"encoding/json"
	"io"
	"unicode/utf8"

	"github.com/matzehuels/poatree/pkg/errors"
)

// jsonGraph is the wire form of a Graph. Thread IDs are implied by the
// position of each name in Threads.
type jsonGraph struct {
	Name    string     `json:"name,omitempty"`
	Title   string     `json:"title,omitempty"`
	Threads []string   `json:"threads"`
	Nodes   []jsonNode `json:"nodes"`
}

type jsonNode struct {
	Symbol  string  `json:"symbol"`
	Visits  []Visit `json:"visits"`
	Links   []int   `json:"links,omitempty"`
	Aligned []int   `json:"aligned,omitempty"`
}

// ReadJSON decodes a graph from its JSON form and validates it.
//
//	{
//	  "threads": ["seqA", "seqB"],
//	  "nodes": [
//	    {"symbol": "A", "visits": [{"thread": 0, "position": 0}, {"thread": 1, "position": 0}]},
//	    {"symbol": "C", "visits": [{"thread": 0, "position": 1}], "links": [0]}
//	  ]
//	}
func ReadJSON(r io.Reader) (*Graph, error) {
	var jg jsonGraph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&jg); err != nil {
		return nil, errors.NewFormatError(0, "decode JSON: %v", err)
	}

	g := &Graph{
		Name:    jg.Name,
		Title:   jg.Title,
		Threads: make([]Thread, len(jg.Threads)),
		Nodes:   make([]Node, len(jg.Nodes)),
	}
	for i, name := range jg.Threads {
		g.Threads[i] = Thread{ID: ThreadID(i), Name: name}
	}
	for i, jn := range jg.Nodes {
		symbol, size := utf8.DecodeRuneInString(jn.Symbol)
		if size == 0 || size != len(jn.Symbol) || !isSymbol(symbol) {
			return nil, errors.NewFormatError(0, "node %d: invalid symbol %q", i, jn.Symbol)
		}
		g.Nodes[i] = Node{
			Index:   i,
			Symbol:  symbol,
			Visits:  jn.Visits,
			Links:   jn.Links,
			Aligned: jn.Aligned,
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseJSON is a convenience wrapper around ReadJSON for in-memory input.
func ParseJSON(data []byte) (*Graph, error) {
	return ReadJSON(bytes.NewReader(data))
}

// MarshalJSON encodes g in the form accepted by ReadJSON.
// The output is deterministic for a given graph, which makes it suitable as
// input to content hashing.
func MarshalJSON(g *Graph) ([]byte, error) {
	jg := jsonGraph{
		Name:    g.Name,
		Title:   g.Title,
		Threads: g.ThreadNames(),
		Nodes:   make([]jsonNode, len(g.Nodes)),
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		visits := n.Visits
		if visits == nil {
			visits = []Visit{}
		}
		jg.Nodes[i] = jsonNode{
			Symbol:  string(n.Symbol),
			Visits:  visits,
			Links:   n.Links,
			Aligned: n.Aligned,
		}
	}
	return json.Marshal(jg)
}
