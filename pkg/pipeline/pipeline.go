// Package pipeline runs layout passes over an SDFG and owns the committed
// result.
//
// A [Runner] keeps the most recent successful [Result]. Every pass builds
// its geometry and registry from scratch; the runner swaps the new result in
// only when the whole pass succeeds, so a failure deep inside a nested
// program leaves the previous layout untouched.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), logger)
//	defer runner.Close()
//
//	res, err := runner.Relayout(ctx, g, pipeline.Options{OmitAccessNodes: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, level := range res.Layout.Summary() {
//	    fmt.Println(level.CFGID, level.Width, level.Height)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/hlayout"
	"github.com/matzehuels/sdfglayout/pkg/layout"
	"github.com/matzehuels/sdfglayout/pkg/measure"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultEngine is the general-purpose level engine.
	DefaultEngine = hlayout.EngineLayered

	// DefaultMeasurer is the text measurer kind.
	DefaultMeasurer = measure.KindHeuristic

	// DefaultFontSize is the label font size.
	DefaultFontSize = measure.DefaultFontSize

	// DefaultLargeStateThreshold bounds the node count laid out with the
	// full layered configuration.
	DefaultLargeStateThreshold = layout.DefaultLargeStateThreshold
)

// ValidEngines is the set of general-purpose engines.
var ValidEngines = map[string]bool{
	hlayout.EngineLayered:  true,
	hlayout.EngineGraphviz: true,
}

// ValidMeasurers is the set of text measurer kinds.
var ValidMeasurers = map[string]bool{
	measure.KindHeuristic: true,
	measure.KindOpenType:  true,
}

// =============================================================================
// Options - Pass Configuration
// =============================================================================

// Options configures a layout pass.
type Options struct {
	OmitAccessNodes     bool    `json:"omit_access_nodes,omitempty"`
	VerticalLayout      bool    `json:"vertical_layout,omitempty"`
	Engine              string  `json:"engine,omitempty"`
	LargeStateThreshold int     `json:"large_state_threshold,omitempty"`
	Measurer            string  `json:"measurer,omitempty"`
	FontSize            float64 `json:"font_size,omitempty"`

	// WriteBack projects the committed geometry onto the input records.
	WriteBack bool `json:"write_back,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result is one committed pass.
type Result struct {
	// PassID identifies the pass in logs and hooks.
	PassID string

	// GraphHash is the content hash of the program as laid out.
	GraphHash string

	Layout *layout.Layout
	Stats  Stats
}

// Stats summarizes a pass.
type Stats struct {
	Levels    int
	Blocks    int
	Nodes     int
	Edges     int
	Shortcuts int
	Duration  time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateEngine checks that an engine name is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid engine: %q (must be one of: layered, graphviz)", engine)
	}
	return nil
}

// ValidateMeasurer checks that a measurer kind is valid.
func ValidateMeasurer(kind string) error {
	if !ValidMeasurers[kind] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid measurer: %q (must be one of: heuristic, opentype)", kind)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Measurer == "" {
		o.Measurer = DefaultMeasurer
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.LargeStateThreshold == 0 {
		o.LargeStateThreshold = DefaultLargeStateThreshold
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if err := ValidateMeasurer(o.Measurer); err != nil {
		return err
	}
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_size must be positive, got %v", o.FontSize)
	}
	if o.LargeStateThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "large_state_threshold must be positive, got %d", o.LargeStateThreshold)
	}
	o.validated = true
	return nil
}

// LayoutOptions returns the engine options for a pass measuring with m.
func (o *Options) LayoutOptions(m measure.Measurer) layout.Options {
	return layout.Options{
		Measurer:            m,
		Logger:              o.Logger,
		OmitAccessNodes:     o.OmitAccessNodes,
		VerticalLayout:      o.VerticalLayout,
		Engine:              o.Engine,
		LargeStateThreshold: o.LargeStateThreshold,
	}
}
