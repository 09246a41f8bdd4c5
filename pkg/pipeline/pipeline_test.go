package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/sdfglayout/pkg/cache"
	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/layout"
	"github.com/matzehuels/sdfglayout/pkg/observability"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

func TestValidateEngine(t *testing.T) {
	tests := []struct {
		engine  string
		wantErr bool
	}{
		{"layered", false},
		{"graphviz", false},
		{"vertical", true}, // only through VerticalLayout
		{"Layered", true},  // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateEngine(tt.engine)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEngine(%q) error = %v, wantErr %v", tt.engine, err, tt.wantErr)
		}
	}
}

func TestValidateMeasurer(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"heuristic", false},
		{"opentype", false},
		{"freetype", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateMeasurer(tt.kind)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMeasurer(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options: %v", err)
	}
	if opts.Engine != DefaultEngine || opts.Measurer != DefaultMeasurer {
		t.Errorf("defaults not applied: engine=%q measurer=%q", opts.Engine, opts.Measurer)
	}
	if opts.FontSize != DefaultFontSize || opts.LargeStateThreshold != DefaultLargeStateThreshold {
		t.Errorf("defaults not applied: font=%v threshold=%d", opts.FontSize, opts.LargeStateThreshold)
	}
	if opts.Logger == nil {
		t.Error("logger not defaulted")
	}

	bad := []Options{
		{Engine: "spring"},
		{Measurer: "pango"},
		{FontSize: -1},
		{LargeStateThreshold: -5},
	}
	for _, o := range bad {
		if err := o.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("%+v: got %v, want INVALID_CONFIG", o, err)
		}
	}
}

func program(cfg int) *sdfg.SDFG {
	read := sdfg.NewNode(0, sdfg.KindAccessNode, "A")
	task := sdfg.NewNode(1, sdfg.KindTasklet, "compute")
	task.InConnectors = []string{"a"}
	task.OutConnectors = []string{"b"}
	write := sdfg.NewNode(2, sdfg.KindAccessNode, "B")
	return &sdfg.SDFG{
		CFGID: cfg,
		Name:  "prog",
		Blocks: []*sdfg.Block{
			{ID: 0, Kind: sdfg.BlockState, Label: "s0",
				Nodes: []*sdfg.Node{read, task, write},
				Edges: []*sdfg.Edge{
					{Src: 0, Dst: 1, DstConn: "a"},
					{Src: 1, Dst: 2, SrcConn: "b"},
				}},
			{ID: 1, Kind: sdfg.BlockState, Label: "s1"},
		},
		Edges: []*sdfg.InterstateEdge{{Src: 0, Dst: 1}},
	}
}

func TestRelayoutCommits(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(0), nil)
	defer r.Close()

	if _, ok := r.Current(); ok {
		t.Fatal("fresh runner should have no result")
	}

	g := program(0)
	res, err := r.Relayout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Relayout: %v", err)
	}
	if res.PassID == "" || res.GraphHash == "" {
		t.Errorf("pass id %q, hash %q", res.PassID, res.GraphHash)
	}
	if res.Stats.Levels != 1 || res.Stats.Blocks != 2 || res.Stats.Nodes != 3 || res.Stats.Edges != 3 {
		t.Errorf("stats = %+v", res.Stats)
	}
	cur, ok := r.Current()
	if !ok || cur != res {
		t.Error("result not committed")
	}
	if _, ok := g.Blocks[0].Nodes[0].Attributes[layout.AttrKey]; ok {
		t.Error("geometry written back without WriteBack")
	}
}

func TestRelayoutFailureKeepsPrevious(t *testing.T) {
	r := NewRunner(nil, nil)
	first, err := r.Relayout(context.Background(), program(0), Options{})
	if err != nil {
		t.Fatalf("Relayout: %v", err)
	}

	bad := program(0)
	bad.Blocks = append(bad.Blocks, &sdfg.Block{ID: 2, Kind: sdfg.BlockRegion, CFGID: 0})
	if _, err := r.Relayout(context.Background(), bad, Options{WriteBack: true}); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("got %v, want INVALID_GRAPH", err)
	}
	if cur, _ := r.Current(); cur != first {
		t.Error("failed pass replaced the committed result")
	}
	if _, ok := bad.Blocks[0].Attributes[layout.AttrKey]; ok {
		t.Error("failed pass wrote geometry back")
	}

	if _, err := r.Relayout(context.Background(), program(0), Options{Engine: "nope"}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("got %v, want INVALID_CONFIG", err)
	}
}

func TestRelayoutWriteBack(t *testing.T) {
	r := NewRunner(nil, nil)
	g := program(0)
	if _, err := r.Relayout(context.Background(), g, Options{WriteBack: true}); err != nil {
		t.Fatalf("Relayout: %v", err)
	}
	for _, n := range g.Blocks[0].Nodes {
		if _, ok := n.Attributes[layout.AttrKey]; !ok {
			t.Errorf("node %d has no geometry", n.ID)
		}
	}
	if _, ok := g.Blocks[1].Attributes[layout.AttrKey]; !ok {
		t.Error("block 1 has no geometry")
	}
}

func TestRelayoutSameInputSameHash(t *testing.T) {
	r := NewRunner(nil, nil)
	a, err := r.Relayout(context.Background(), program(0), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Relayout(context.Background(), program(0), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a.GraphHash != b.GraphHash {
		t.Errorf("hash differs across identical inputs")
	}
	if a.PassID == b.PassID {
		t.Errorf("pass ids should be unique")
	}
	if a.Layout.Width() != b.Layout.Width() || a.Layout.Height() != b.Layout.Height() {
		t.Errorf("extent differs: %vx%v vs %vx%v", a.Layout.Width(), a.Layout.Height(), b.Layout.Width(), b.Layout.Height())
	}
}

type passRecorder struct {
	observability.NoopLayoutHooks
	mu       sync.Mutex
	started  []string
	finished map[string]error
}

func (p *passRecorder) OnPassStart(_ context.Context, id string, _ int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = append(p.started, id)
}

func (p *passRecorder) OnPassComplete(_ context.Context, id string, _ time.Duration, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished[id] = err
}

func TestRelayoutHooks(t *testing.T) {
	rec := &passRecorder{finished: map[string]error{}}
	observability.SetLayoutHooks(rec)
	defer observability.Reset()

	r := NewRunner(nil, nil)
	res, err := r.Relayout(context.Background(), program(0), Options{})
	if err != nil {
		t.Fatal(err)
	}
	bad := program(0)
	bad.Blocks = append(bad.Blocks, &sdfg.Block{ID: 2, Kind: sdfg.BlockRegion, CFGID: 0})
	if _, err := r.Relayout(context.Background(), bad, Options{}); err == nil {
		t.Fatal("invalid program laid out")
	}

	if len(rec.started) != 2 || rec.started[0] != res.PassID {
		t.Fatalf("started = %v", rec.started)
	}
	if err, ok := rec.finished[res.PassID]; !ok || err != nil {
		t.Errorf("first pass completion = %v, %v", err, ok)
	}
	if err := rec.finished[rec.started[1]]; err == nil {
		t.Error("failed pass reported success")
	}
}

func TestRelayoutIgnoresCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil)
	res, err := r.Relayout(ctx, program(0), Options{})
	if err != nil {
		t.Fatalf("Relayout: %v", err)
	}
	if cur, ok := r.Current(); !ok || cur != res {
		t.Error("pass under a cancelled context was not committed")
	}
}

func TestRelayoutConcurrent(t *testing.T) {
	r := NewRunner(cache.NewMemoryCache(0), nil)
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Relayout(context.Background(), program(0), Options{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent pass: %v", err)
		}
	}
	if _, ok := r.Current(); !ok {
		t.Error("no committed result")
	}
}
