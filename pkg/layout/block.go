package layout

import (
	"slices"
	"strconv"

	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/hlayout"
	"github.com/matzehuels/sdfglayout/pkg/observability"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

func blockID(id int) string { return "b" + strconv.Itoa(id) }

// interior describes what an expanded block draws inside its margin.
type interior struct {
	el *Element

	// top and bottom are the statement rows of a loop region.
	top, bottom []string
	// tail is the condition of an inverted loop, drawn in the bottom margin.
	tail string
	// body is the interior level of a state, loop or region.
	body *Graph
	// columns are the branches of a conditional block.
	columns []column
}

type column struct {
	condition string
	width     float64
	region    *Graph
}

// layoutRegion lays out one block graph: every block is sized (laying out
// its interior first), the block graph is laid out, and each interior is
// placed inside its block.
func (p *pass) layoutRegion(cfg int, blocks []*sdfg.Block, edges []*sdfg.InterstateEdge) (*Graph, error) {
	level := &Graph{CFGID: cfg, State: -1}
	hg := hlayout.NewGraph(blockNodeSep, blockRankSep)

	interiors := make([]*interior, 0, len(blocks))
	ids := make(map[int]bool, len(blocks))
	for _, b := range blocks {
		if ids[b.ID] {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "cfg %d has duplicate block id %d", cfg, b.ID)
		}
		ids[b.ID] = true
		in, err := p.sizeBlock(cfg, b)
		if err != nil {
			return nil, err
		}
		interiors = append(interiors, in)
		level.Elements = append(level.Elements, in.el)
		hg.AddNode(blockID(b.ID), in.el.Width, in.el.Height).Label = in.el.Label
	}

	for i, e := range edges {
		if !ids[e.Src] || !ids[e.Dst] {
			continue
		}
		if _, err := hg.AddEdge(blockID(e.Src), blockID(e.Dst)); err != nil {
			return nil, err
		}
		level.Edges = append(level.Edges, &Edge{
			Index: i,
			Src:   BlockKey(cfg, e.Src),
			Dst:   BlockKey(cfg, e.Dst),
			Label: e.Label,
		})
	}

	eng := p.engineFor(len(blocks))
	if p.vertical {
		eng = hlayout.Fallback{
			Primary:   hlayout.Vertical{},
			Secondary: eng,
			OnFallback: func(from, to string, err error) {
				p.log.Debug("falling back from vertical block layout", "cfg", cfg, "to", to, "reason", err)
				observability.Layout().OnFallback(p.ctx, cfg, from, to, err)
			},
		}
	}
	if err := p.run(eng, hg, cfg, -1); err != nil {
		return nil, err
	}
	level.Engine = eng.Name()

	for _, in := range interiors {
		hn, _ := hg.Node(blockID(in.el.Key.ID))
		in.el.X, in.el.Y = hn.X, hn.Y
		if err := in.place(); err != nil {
			return nil, err
		}
	}
	for i, e := range level.Edges {
		e.Points = straighten(slices.Clone(hg.Edges()[i].Points))
		e.Bounds = pointBounds(e.Points)
	}

	level.normalize()
	return level, nil
}

// sizeBlock lays out the interior of b and returns its element sized to
// hold it.
func (p *pass) sizeBlock(cfg int, b *sdfg.Block) (*interior, error) {
	key := BlockKey(cfg, b.ID)
	el := &Element{Key: key, Kind: b.Kind.String(), Label: blockLabel(b), Collapsed: b.Collapsed}
	in := &interior{el: el}

	if b.Collapsed {
		size, err := CollapsedBlockSize(p.m, b)
		if err != nil {
			return nil, err
		}
		el.Width, el.Height = size.Width, size.Height
		p.reg.adopt(b.CFGIDs(), key)
		return in, nil
	}

	switch b.Kind {
	case sdfg.BlockLoopRegion:
		body, err := p.layoutSubregion(b, key)
		if err != nil {
			return nil, err
		}
		in.body = body
		in.top, in.bottom, in.tail = loopRows(b.Loop)
		texts := append(slices.Clone(in.top), in.bottom...)
		if in.tail != "" {
			texts = append(texts, in.tail)
		}
		w, err := measureMono(p.m, texts...)
		if err != nil {
			return nil, err
		}
		rows := float64(len(in.top) + len(in.bottom))
		el.Width = max(body.Bounds.Width+2*BlockMargin, w+3*MetaLabelMargin)
		el.Height = body.Bounds.Height + 2*BlockMargin + rows*LoopStatementSpacing

	case sdfg.BlockRegion:
		body, err := p.layoutSubregion(b, key)
		if err != nil {
			return nil, err
		}
		in.body = body
		el.Width = body.Bounds.Width + 2*BlockMargin
		el.Height = body.Bounds.Height + 2*BlockMargin

	case sdfg.BlockConditional:
		var width, height float64
		for i, br := range b.Branches {
			w, err := measureMono(p.m, br.Condition)
			if err != nil {
				return nil, err
			}
			col := column{condition: br.Condition, width: w + 2*MetaLabelMargin}
			h := LoopStatementSpacing
			if br.Region != nil {
				region, err := p.layoutSubregion(br.Region, key)
				if err != nil {
					return nil, err
				}
				col.region = region
				col.width = max(col.width, region.Bounds.Width)
				h += region.Bounds.Height
			}
			if i > 0 {
				width += BlockMargin
			}
			width += col.width
			height = max(height, h)
			in.columns = append(in.columns, col)
		}
		el.Width = width + 2*BlockMargin
		el.Height = height + 2*BlockMargin

	default:
		body, err := p.layoutState(cfg, b)
		if err != nil {
			return nil, err
		}
		in.body = body
		el.Width = body.Bounds.Width + 2*BlockMargin
		el.Height = body.Bounds.Height + 2*BlockMargin
	}

	if in.body != nil {
		el.Children = []*Graph{in.body}
	}
	for _, col := range in.columns {
		if col.region != nil {
			el.Children = append(el.Children, col.region)
		}
	}
	return in, nil
}

// layoutSubregion lays out the block graph of a loop, region or branch and
// registers it under the region's own identifier.
func (p *pass) layoutSubregion(b *sdfg.Block, owner Key) (*Graph, error) {
	g, err := p.layoutRegion(b.CFGID, b.Blocks, b.InterstateEdges)
	if err != nil {
		return nil, err
	}
	if err := p.reg.register(b.CFGID, g, &owner); err != nil {
		return nil, err
	}
	return g, nil
}

// loopRows splits a loop's statement rows into those drawn above the body
// (init, then the condition) and below it (update). The condition of an
// inverted loop reserves no row and is returned as tail.
func loopRows(l *sdfg.Loop) (top, bottom []string, tail string) {
	if l == nil {
		return []string{" while"}, nil, ""
	}
	if l.Init != "" {
		top = append(top, l.Init+" init")
	}
	cond := l.Condition + " while"
	if l.Inverted {
		tail = cond
	} else {
		top = append(top, cond)
	}
	if l.Update != "" {
		bottom = append(bottom, l.Update+" update")
	}
	return top, bottom, tail
}

// place positions the interior inside its now placed block.
func (in *interior) place() error {
	el := in.el
	left, top := el.Left()+BlockMargin, el.Top()+BlockMargin
	inner := el.Width - 2*BlockMargin

	row := func(text string, y float64) Label {
		return Label{Text: text, Box: Box{X: el.X, Y: y + LoopStatementSpacing/2, Width: inner, Height: LoopStatementSpacing}}
	}

	if len(in.columns) > 0 {
		x := left
		for _, col := range in.columns {
			el.Labels = append(el.Labels, Label{
				Text: col.condition,
				Box:  Box{X: x + col.width/2, Y: top + LoopStatementSpacing/2, Width: col.width, Height: LoopStatementSpacing},
			})
			if col.region != nil {
				if err := col.region.place(x+(col.width-col.region.Bounds.Width)/2, top+LoopStatementSpacing); err != nil {
					return err
				}
			}
			x += col.width + BlockMargin
		}
		return nil
	}

	y := top
	for _, text := range in.top {
		el.Labels = append(el.Labels, row(text, y))
		y += LoopStatementSpacing
	}
	if in.body != nil {
		if err := in.body.place(left+(inner-in.body.Bounds.Width)/2, y); err != nil {
			return err
		}
		y += in.body.Bounds.Height
	}
	for _, text := range in.bottom {
		el.Labels = append(el.Labels, row(text, y))
		y += LoopStatementSpacing
	}
	if in.tail != "" {
		el.Labels = append(el.Labels, Label{
			Text: in.tail,
			Box:  Box{X: el.X, Y: el.Bottom() - BlockMargin/2, Width: inner, Height: BlockMargin - 2*MetaLabelMargin},
		})
	}
	return nil
}
