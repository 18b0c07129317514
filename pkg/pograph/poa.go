package pograph

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/poatree/pkg/errors"
)

// Header keys recognised in the POA text format. Unknown keys are ignored.
const (
	keyName        = "NAME"
	keyTitle       = "TITLE"
	keyLength      = "LENGTH"
	keySourceCount = "SOURCECOUNT"
	keySourceName  = "SOURCENAME"
)

// maxLineLength bounds a single line of input.
const maxLineLength = 1 << 20

// LoadFile reads a graph from path in either supported format.
// Format errors carry the file name as their source.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Load(f)
	if fe, ok := err.(*errors.FormatError); ok {
		fe.Source = path
	}
	return g, err
}

// Load reads a graph from r, choosing the JSON reader when the first
// non-whitespace byte is '{' and the POA text reader otherwise.
func Load(r io.Reader) (*Graph, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return ReadPOA(br)
			}
			return nil, fmt.Errorf("read graph: %w", err)
		}
		if !unicode.IsSpace(rune(b[0])) {
			if b[0] == '{' {
				return ReadJSON(br)
			}
			return ReadPOA(br)
		}
		if _, err := br.ReadByte(); err != nil {
			return nil, fmt.Errorf("read graph: %w", err)
		}
	}
}

// ParsePOA is a convenience wrapper around ReadPOA for in-memory input.
func ParsePOA(data []byte) (*Graph, error) {
	return ReadPOA(bytes.NewReader(data))
}

// ReadPOA decodes the POA text format.
//
// Threads are declared by SOURCENAME lines and numbered in declaration order.
// Each node line has the form "<symbol>:<labels>" where labels is a run of
// L<n>, S<n> and A<n> tokens. The k-th node line mentioning a thread is
// position k of that thread. LENGTH and SOURCECOUNT are checked against the
// actual counts when present.
func ReadPOA(r io.Reader) (*Graph, error) {
	p := &poaReader{
		g:         &Graph{},
		names:     make(map[string]bool),
		positions: make(map[ThreadID]int),
		length:    -1,
		sources:   -1,
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(strings.TrimRight(sc.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewFormatError(p.line+1, "read: %v", err)
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.g, nil
}

type poaReader struct {
	g         *Graph
	line      int
	nodeLines []int // source line of each node, for late validation
	names     map[string]bool
	positions map[ThreadID]int
	length    int
	sources   int
}

func (p *poaReader) parseLine(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if isNodeLine(line) {
		return p.parseNode(line)
	}
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return errors.NewFormatError(p.line, "unrecognized line %q", line)
	}
	return p.parseHeader(strings.TrimSpace(key), strings.TrimSpace(value))
}

// isNodeLine reports whether line looks like "<symbol>:...".
func isNodeLine(line string) bool {
	return len(line) >= 2 && line[1] == ':'
}

func (p *poaReader) parseHeader(key, value string) error {
	switch key {
	case keyName:
		p.g.Name = value
	case keyTitle:
		p.g.Title = value
	case keyLength:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return errors.NewFormatError(p.line, "invalid LENGTH %q", value)
		}
		p.length = n
	case keySourceCount:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return errors.NewFormatError(p.line, "invalid SOURCECOUNT %q", value)
		}
		p.sources = n
	case keySourceName:
		if err := errors.ValidateThreadName(value); err != nil {
			return errors.NewFormatError(p.line, "%s", errors.UserMessage(err))
		}
		if p.names[value] {
			return errors.NewFormatError(p.line, "duplicate thread name %q", value)
		}
		p.names[value] = true
		p.g.Threads = append(p.g.Threads, Thread{ID: ThreadID(len(p.g.Threads)), Name: value})
	}
	return nil
}

func (p *poaReader) parseNode(line string) error {
	symbol := rune(line[0])
	if !isSymbol(symbol) {
		return errors.NewFormatError(p.line, "invalid residue %q", symbol)
	}

	node := Node{Index: len(p.g.Nodes), Symbol: symbol}
	labels := line[2:]
	for i := 0; i < len(labels); {
		kind := labels[i]
		j := i + 1
		for j < len(labels) && labels[j] >= '0' && labels[j] <= '9' {
			j++
		}
		if j == i+1 || !strings.ContainsRune("LSA", rune(kind)) {
			return errors.NewFormatError(p.line, "malformed node label at %q", labels[i:])
		}
		value, err := strconv.Atoi(labels[i+1 : j])
		if err != nil {
			return errors.NewFormatError(p.line, "invalid label value %q", labels[i:j])
		}
		switch kind {
		case 'L':
			node.Links = append(node.Links, value)
		case 'A':
			node.Aligned = append(node.Aligned, value)
		case 'S':
			t := ThreadID(value)
			if node.Incident(t) {
				return errors.NewFormatError(p.line, "thread S%d listed twice", value)
			}
			node.Visits = append(node.Visits, Visit{Thread: t, Position: p.positions[t]})
			p.positions[t]++
		}
		i = j
	}

	p.g.Nodes = append(p.g.Nodes, node)
	p.nodeLines = append(p.nodeLines, p.line)
	return nil
}

// isSymbol accepts residue letters and the gap character.
func isSymbol(r rune) bool {
	return r == '-' || (r < unicode.MaxASCII && unicode.IsLetter(r))
}

// finish validates references that may point forward in the file.
func (p *poaReader) finish() error {
	g := p.g
	for i := range g.Nodes {
		n := &g.Nodes[i]
		line := p.nodeLines[i]
		for _, v := range n.Visits {
			if int(v.Thread) >= len(g.Threads) {
				return errors.NewFormatError(line, "reference to undefined thread S%d", v.Thread)
			}
		}
		for _, l := range n.Links {
			if l >= len(g.Nodes) {
				return errors.NewFormatError(line, "link to undefined node L%d", l)
			}
		}
		for _, a := range n.Aligned {
			if a >= len(g.Nodes) {
				return errors.NewFormatError(line, "aligned to undefined node A%d", a)
			}
		}
	}
	if p.length >= 0 && p.length != len(g.Nodes) {
		return errors.NewFormatError(0, "LENGTH=%d but found %d nodes", p.length, len(g.Nodes))
	}
	if p.sources >= 0 && p.sources != len(g.Threads) {
		return errors.NewFormatError(0, "SOURCECOUNT=%d but found %d threads", p.sources, len(g.Threads))
	}
	return nil
}
