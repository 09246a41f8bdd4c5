package layout

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/hlayout"
	"github.com/matzehuels/sdfglayout/pkg/measure"
	"github.com/matzehuels/sdfglayout/pkg/observability"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

// Options configures a pass.
type Options struct {
	// Measurer sizes labels. Required.
	Measurer measure.Measurer
	// Logger receives per-level debug output. Nil discards.
	Logger *log.Logger

	// OmitAccessNodes withholds pass-through access nodes and draws
	// shortcut edges in their place.
	OmitAccessNodes bool
	// VerticalLayout lays out block graphs as a single column when the
	// control flow is reducible.
	VerticalLayout bool
	// Engine names the general-purpose engine (see [hlayout.ByName]).
	Engine string
	// LargeStateThreshold is the node count above which a level uses the
	// quick layered configuration. Zero selects the default.
	LargeStateThreshold int
}

// pass carries the state shared by every level of one layout run.
type pass struct {
	ctx       context.Context
	m         measure.Measurer
	log       *log.Logger
	reg       *Registry
	general   hlayout.Engine
	omit      bool
	vertical  bool
	threshold int
}

// Run lays out g and returns its geometry. The input is not modified; use
// [Project] to write the result back. Run either returns a complete layout
// or an error, never a partial registry.
func Run(ctx context.Context, g *sdfg.SDFG, opts Options) (*Layout, error) {
	if opts.Measurer == nil {
		return nil, errors.New(errors.ErrCodeMissingMeasurer, "layout requires a text measurer")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	general, err := hlayout.ByName(opts.Engine)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	threshold := opts.LargeStateThreshold
	if threshold <= 0 {
		threshold = DefaultLargeStateThreshold
	}

	p := &pass{
		ctx:       ctx,
		m:         opts.Measurer,
		log:       logger,
		reg:       newRegistry(),
		general:   general,
		omit:      opts.OmitAccessNodes,
		vertical:  opts.VerticalLayout,
		threshold: threshold,
	}
	root, err := p.layoutProgram(g, nil)
	if err != nil {
		return nil, err
	}
	if err := root.place(0, 0); err != nil {
		return nil, err
	}
	return newLayout(root, p.reg), nil
}

// layoutProgram lays out a (nested) program and registers it.
func (p *pass) layoutProgram(g *sdfg.SDFG, owner *Key) (*Graph, error) {
	level, err := p.layoutRegion(g.CFGID, g.Blocks, g.Edges)
	if err != nil {
		return nil, err
	}
	if err := p.reg.register(g.CFGID, level, owner); err != nil {
		return nil, err
	}
	return level, nil
}

// engineFor picks the engine for a level of n nodes.
func (p *pass) engineFor(n int) hlayout.Engine {
	if n > p.threshold {
		return hlayout.Quick()
	}
	return p.general
}

// run lays out hg with eng and reports the level.
func (p *pass) run(eng hlayout.Engine, hg *hlayout.Graph, cfg, state int) error {
	start := time.Now()
	if err := eng.Layout(p.ctx, hg); err != nil {
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeLayoutFailed, err, "lay out cfg %d", cfg)
	}
	took := time.Since(start)
	p.log.Debug("level laid out", "cfg", cfg, "state", state, "nodes", len(hg.Nodes()), "edges", len(hg.Edges()), "engine", eng.Name(), "took", took)
	observability.Layout().OnLevel(p.ctx, cfg, eng.Name(), len(hg.Nodes()), took)
	return nil
}
