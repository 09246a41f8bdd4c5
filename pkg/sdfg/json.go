package sdfg

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/sdfglayout/pkg/errors"
)

type wireProgram struct {
	CFGID      int         `json:"cfg_id"`
	Label      string      `json:"label,omitempty"`
	Nodes      []wireBlock `json:"nodes"`
	Edges      []wireEdge  `json:"edges"`
	Attributes Attributes  `json:"attributes,omitempty"`
}

type wireBlock struct {
	ID         int              `json:"id"`
	Type       string           `json:"type"`
	Label      string           `json:"label,omitempty"`
	Collapsed  bool             `json:"collapsed,omitempty"`
	CFGID      *int             `json:"cfg_id,omitempty"`
	Nodes      json.RawMessage  `json:"nodes,omitempty"`
	Edges      []wireEdge       `json:"edges,omitempty"`
	ScopeDict  map[string][]int `json:"scope_dict,omitempty"`
	Loop       *wireLoop        `json:"loop,omitempty"`
	Branches   []wireBranch     `json:"branches,omitempty"`
	Attributes Attributes       `json:"attributes,omitempty"`
}

type wireNode struct {
	ID            int          `json:"id"`
	Type          string       `json:"type"`
	Label         string       `json:"label,omitempty"`
	InConnectors  []string     `json:"in_connectors,omitempty"`
	OutConnectors []string     `json:"out_connectors,omitempty"`
	ScopeEntry    *int         `json:"scope_entry,omitempty"`
	ScopeExit     *int         `json:"scope_exit,omitempty"`
	Collapsed     bool         `json:"collapsed,omitempty"`
	SDFG          *wireProgram `json:"sdfg,omitempty"`
	Attributes    Attributes   `json:"attributes,omitempty"`
}

type wireEdge struct {
	Src        int        `json:"src"`
	Dst        int        `json:"dst"`
	SrcConn    string     `json:"src_connector,omitempty"`
	DstConn    string     `json:"dst_connector,omitempty"`
	Label      string     `json:"label,omitempty"`
	Shortcut   bool       `json:"shortcut,omitempty"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type wireLoop struct {
	Condition string `json:"condition,omitempty"`
	Init      string `json:"init,omitempty"`
	Update    string `json:"update,omitempty"`
	Inverted  bool   `json:"inverted,omitempty"`
}

type wireBranch struct {
	Condition string    `json:"condition,omitempty"`
	Region    wireBlock `json:"region"`
}

// ReadJSON decodes a program from r.
//
// The input is a JSON object describing the top-level control-flow graph:
//
//	{
//	  "cfg_id": 0,
//	  "nodes": [{"id": 0, "type": "SDFGState", "nodes": [...], "edges": [...]}],
//	  "edges": [{"src": 0, "dst": 1, "label": "i < N"}]
//	}
//
// State blocks list dataflow nodes under "nodes"; loop and control-flow
// regions list child blocks under "nodes" and carry their own "cfg_id".
// Conditional blocks list "branches" of {condition, region}. Unknown block
// and node type names are accepted and resolve to the generic kinds.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*SDFG, error) {
	var data wireProgram
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode")
	}
	return programFromWire(data)
}

// ImportJSON reads a JSON file at path and returns the decoded program.
func ImportJSON(path string) (*SDFG, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes g as indented JSON, including every record's
// attributes. Output produced by WriteJSON is accepted by ReadJSON.
func WriteJSON(g *SDFG, w io.Writer) error {
	out, err := programToWire(g)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *SDFG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

func programFromWire(w wireProgram) (*SDFG, error) {
	g := &SDFG{
		CFGID:      w.CFGID,
		Name:       w.Label,
		Attributes: w.Attributes,
	}
	for _, wb := range w.Nodes {
		b, err := blockFromWire(wb)
		if err != nil {
			return nil, err
		}
		g.Blocks = append(g.Blocks, b)
	}
	for _, we := range w.Edges {
		g.Edges = append(g.Edges, &InterstateEdge{Src: we.Src, Dst: we.Dst, Label: we.Label, Attributes: we.Attributes})
	}
	return g, nil
}

func blockFromWire(w wireBlock) (*Block, error) {
	b := &Block{
		ID:         w.ID,
		Kind:       ParseBlockKind(w.Type),
		Label:      w.Label,
		Collapsed:  w.Collapsed,
		Attributes: w.Attributes,
	}
	if w.CFGID != nil {
		b.CFGID = *w.CFGID
	}
	if w.Loop != nil {
		b.Loop = &Loop{Condition: w.Loop.Condition, Init: w.Loop.Init, Update: w.Loop.Update, Inverted: w.Loop.Inverted}
	}

	switch {
	case b.Kind.HasRegion():
		var children []wireBlock
		if err := decodeRaw(w.Nodes, &children); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "block %d: nodes", w.ID)
		}
		for _, wc := range children {
			c, err := blockFromWire(wc)
			if err != nil {
				return nil, err
			}
			b.Blocks = append(b.Blocks, c)
		}
		for _, we := range w.Edges {
			b.InterstateEdges = append(b.InterstateEdges, &InterstateEdge{Src: we.Src, Dst: we.Dst, Label: we.Label, Attributes: we.Attributes})
		}
	case b.Kind == BlockConditional:
		for _, wbr := range w.Branches {
			region, err := blockFromWire(wbr.Region)
			if err != nil {
				return nil, err
			}
			b.Branches = append(b.Branches, &Branch{Condition: wbr.Condition, Region: region})
		}
	default:
		var nodes []wireNode
		if err := decodeRaw(w.Nodes, &nodes); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "state %d: nodes", w.ID)
		}
		for _, wn := range nodes {
			n, err := nodeFromWire(wn)
			if err != nil {
				return nil, err
			}
			b.Nodes = append(b.Nodes, n)
		}
		for _, we := range w.Edges {
			b.Edges = append(b.Edges, &Edge{
				Src: we.Src, Dst: we.Dst,
				SrcConn: we.SrcConn, DstConn: we.DstConn,
				Label: we.Label, Shortcut: we.Shortcut,
				Attributes: we.Attributes,
			})
		}
		if w.ScopeDict != nil {
			b.Scopes = make(map[int][]int, len(w.ScopeDict))
			for k, ids := range w.ScopeDict {
				entry, err := strconv.Atoi(k)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "state %d: scope key %q", w.ID, k)
				}
				b.Scopes[entry] = ids
			}
		}
	}
	return b, nil
}

func nodeFromWire(w wireNode) (*Node, error) {
	n := NewNode(w.ID, ParseNodeKind(w.Type), w.Label)
	n.TypeName = w.Type
	n.InConnectors = w.InConnectors
	n.OutConnectors = w.OutConnectors
	n.Collapsed = w.Collapsed
	n.Attributes = w.Attributes
	if w.ScopeEntry != nil {
		n.ScopeEntry = *w.ScopeEntry
	}
	if w.ScopeExit != nil {
		n.ScopeExit = *w.ScopeExit
	}
	if w.SDFG != nil {
		nested, err := programFromWire(*w.SDFG)
		if err != nil {
			return nil, fmt.Errorf("nested sdfg of node %d: %w", w.ID, err)
		}
		n.SDFG = nested
	}
	return n, nil
}

func decodeRaw(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func programToWire(g *SDFG) (wireProgram, error) {
	out := wireProgram{
		CFGID:      g.CFGID,
		Label:      g.Name,
		Nodes:      make([]wireBlock, 0, len(g.Blocks)),
		Edges:      make([]wireEdge, 0, len(g.Edges)),
		Attributes: g.Attributes,
	}
	for _, b := range g.Blocks {
		wb, err := blockToWire(b)
		if err != nil {
			return out, err
		}
		out.Nodes = append(out.Nodes, wb)
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, wireEdge{Src: e.Src, Dst: e.Dst, Label: e.Label, Attributes: e.Attributes})
	}
	return out, nil
}

func blockToWire(b *Block) (wireBlock, error) {
	out := wireBlock{
		ID:         b.ID,
		Type:       b.Kind.String(),
		Label:      b.Label,
		Collapsed:  b.Collapsed,
		Attributes: b.Attributes,
	}
	if b.Loop != nil {
		out.Loop = &wireLoop{Condition: b.Loop.Condition, Init: b.Loop.Init, Update: b.Loop.Update, Inverted: b.Loop.Inverted}
	}

	var nodes any
	switch {
	case b.Kind.HasRegion():
		cfgID := b.CFGID
		out.CFGID = &cfgID
		children := make([]wireBlock, 0, len(b.Blocks))
		for _, c := range b.Blocks {
			wc, err := blockToWire(c)
			if err != nil {
				return out, err
			}
			children = append(children, wc)
		}
		nodes = children
		for _, e := range b.InterstateEdges {
			out.Edges = append(out.Edges, wireEdge{Src: e.Src, Dst: e.Dst, Label: e.Label, Attributes: e.Attributes})
		}
	case b.Kind == BlockConditional:
		for _, br := range b.Branches {
			region := &Block{Kind: BlockRegion}
			if br.Region != nil {
				region = br.Region
			}
			wr, err := blockToWire(region)
			if err != nil {
				return out, err
			}
			out.Branches = append(out.Branches, wireBranch{Condition: br.Condition, Region: wr})
		}
	default:
		wn := make([]wireNode, 0, len(b.Nodes))
		for _, n := range b.Nodes {
			w, err := nodeToWire(n)
			if err != nil {
				return out, err
			}
			wn = append(wn, w)
		}
		nodes = wn
		for _, e := range b.Edges {
			out.Edges = append(out.Edges, wireEdge{
				Src: e.Src, Dst: e.Dst,
				SrcConn: e.SrcConn, DstConn: e.DstConn,
				Label: e.Label, Shortcut: e.Shortcut,
				Attributes: e.Attributes,
			})
		}
		if b.Scopes != nil {
			out.ScopeDict = make(map[string][]int, len(b.Scopes))
			for k, ids := range b.Scopes {
				out.ScopeDict[strconv.Itoa(k)] = ids
			}
		}
	}

	if nodes != nil {
		raw, err := json.Marshal(nodes)
		if err != nil {
			return out, fmt.Errorf("encode block %d: %w", b.ID, err)
		}
		out.Nodes = raw
	}
	return out, nil
}

func nodeToWire(n *Node) (wireNode, error) {
	typeName := n.TypeName
	if typeName == "" {
		typeName = n.Kind.String()
	}
	out := wireNode{
		ID:            n.ID,
		Type:          typeName,
		Label:         n.Label,
		InConnectors:  n.InConnectors,
		OutConnectors: n.OutConnectors,
		Collapsed:     n.Collapsed,
		Attributes:    n.Attributes,
	}
	if n.ScopeEntry != NoScope {
		v := n.ScopeEntry
		out.ScopeEntry = &v
	}
	if n.ScopeExit != NoScope {
		v := n.ScopeExit
		out.ScopeExit = &v
	}
	if n.SDFG != nil {
		nested, err := programToWire(n.SDFG)
		if err != nil {
			return out, err
		}
		out.SDFG = &nested
	}
	return out, nil
}
