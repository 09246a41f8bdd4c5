package pipeline

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/sdfglayout/pkg/cache"
	"github.com/matzehuels/sdfglayout/pkg/layout"
	"github.com/matzehuels/sdfglayout/pkg/measure"
	"github.com/matzehuels/sdfglayout/pkg/observability"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

// Runner executes layout passes and holds the last committed result.
//
// Passes never share mutable layout state: each one gets its own registry,
// so a Runner may be used from several goroutines. Commits are serialized.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger

	mu      sync.RWMutex
	current *Result
}

// NewRunner creates a runner. The cache memoizes text measurements across
// passes; if c is nil, a NullCache is used (memoization disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Relayout lays out g from scratch and commits the result. On error the
// previously committed result stays current and g is not modified.
func (r *Runner) Relayout(ctx context.Context, g *sdfg.SDFG, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	passID := uuid.NewString()
	hooks := observability.Layout()
	cfgCount := 0
	if g != nil {
		cfgCount = len(g.CFGIDs())
	}
	hooks.OnPassStart(ctx, passID, cfgCount)
	start := time.Now()

	res, err := r.run(ctx, g, opts, passID)
	duration := time.Since(start)
	hooks.OnPassComplete(ctx, passID, duration, err)
	if err != nil {
		opts.Logger.Error("layout pass failed", "pass", passID, "err", err)
		return nil, err
	}
	res.Stats.Duration = duration

	if opts.WriteBack {
		layout.Project(g, res.Layout)
	}
	r.commit(res)

	opts.Logger.Info("layout pass complete",
		"pass", passID,
		"levels", res.Stats.Levels,
		"nodes", res.Stats.Nodes,
		"shortcuts", res.Stats.Shortcuts,
		"duration", duration)
	return res, nil
}

func (r *Runner) run(ctx context.Context, g *sdfg.SDFG, opts Options, passID string) (*Result, error) {
	m, err := measure.New(measure.Options{
		Kind:     opts.Measurer,
		FontSize: opts.FontSize,
		Cache:    r.Cache,
	})
	if err != nil {
		return nil, err
	}
	l, err := layout.Run(ctx, g, opts.LayoutOptions(m))
	if err != nil {
		return nil, err
	}

	res := &Result{PassID: passID, Layout: l, Stats: summarize(l)}
	var buf bytes.Buffer
	if err := sdfg.WriteJSON(g, &buf); err == nil {
		res.GraphHash = cache.Hash(buf.Bytes())
	}
	return res, nil
}

func summarize(l *layout.Layout) Stats {
	var s Stats
	for _, level := range l.Summary() {
		s.Levels++
		s.Blocks += level.Blocks
		s.Nodes += level.Nodes
		s.Edges += level.Edges
		s.Shortcuts += level.Shortcuts
	}
	return s
}

func (r *Runner) commit(res *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = res
}

// Current returns the last committed result.
func (r *Runner) Current() (*Result, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.current != nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
