// Package cli implements the sdfglayout command-line interface.
//
// # Commands
//
//   - layout: lay out an SDFG file and write the geometry back into a copy
//   - dot: export one laid-out level as DOT with pinned positions
//   - inspect: print a summary of every registered level
//   - completion: generate shell completion scripts
//
// Layout settings come from an optional TOML or YAML config file, then
// SDFGLAYOUT_* environment variables, then command-line flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes one line per laid-out level.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sdfglayout/internal/config"
	"github.com/matzehuels/sdfglayout/pkg/buildinfo"
	"github.com/matzehuels/sdfglayout/pkg/cache"
	"github.com/matzehuels/sdfglayout/pkg/layout"
	"github.com/matzehuels/sdfglayout/pkg/pipeline"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "sdfglayout"

	// defaultConfigFile is looked up in the working directory when --config
	// is not given.
	defaultConfigFile = "sdfglayout.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "sdfglayout computes hierarchical layouts for nested SDFGs",
		Long:         `sdfglayout lays out stateful dataflow multigraphs: control-flow blocks, the dataflow graphs inside states, and nested sub-programs, each level on its own and composed into one drawing.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file, .toml or .yaml (default: ./"+defaultConfigFile+" if present)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags are the per-command overrides of the config file.
type layoutFlags struct {
	omit      bool
	vertical  bool
	engine    string
	measurer  string
	fontSize  float64
	threshold int
	noCache   bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	def := config.DefaultConfig()
	cmd.Flags().BoolVar(&f.omit, "omit-access-nodes", def.OmitAccessNodes, "withhold pass-through access nodes and draw shortcut edges")
	cmd.Flags().BoolVar(&f.vertical, "vertical", def.VerticalLayout, "stack structured control flow vertically")
	cmd.Flags().StringVar(&f.engine, "engine", def.Engine, "general layout engine: layered, graphviz")
	cmd.Flags().StringVar(&f.measurer, "measurer", def.Measurer, "text measurer: heuristic, opentype")
	cmd.Flags().Float64Var(&f.fontSize, "font-size", def.FontSize, "label font size")
	cmd.Flags().IntVar(&f.threshold, "large-state-threshold", def.LargeStateThreshold, "node count above which states use the quick layout")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable text measurement memoization")
}

// apply overrides cfg with every flag set on the command line.
func (f *layoutFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("omit-access-nodes") {
		cfg.OmitAccessNodes = f.omit
	}
	if changed("vertical") {
		cfg.VerticalLayout = f.vertical
	}
	if changed("engine") {
		cfg.Engine = f.engine
	}
	if changed("measurer") {
		cfg.Measurer = f.measurer
	}
	if changed("font-size") {
		cfg.FontSize = f.fontSize
	}
	if changed("large-state-threshold") {
		cfg.LargeStateThreshold = f.threshold
	}
	if f.noCache {
		cfg.MeasureCacheSize = 0
	}
}

// loadConfig resolves the effective settings for cmd.
func (c *CLI) loadConfig(cmd *cobra.Command, flags *layoutFlags) (*config.Config, error) {
	path := c.configPath
	if path == "" {
		path = defaultConfigFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	flags.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "path", path, "engine", cfg.Engine, "omit", cfg.OmitAccessNodes, "vertical", cfg.VerticalLayout)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg *config.Config) *pipeline.Runner {
	return pipeline.NewRunner(newCache(cfg.MeasureCacheSize), c.Logger)
}

func newCache(size int) cache.Cache {
	if size <= 0 {
		return cache.NewNullCache()
	}
	return cache.NewMemoryCache(size)
}

// relayout reads input and runs one pass over it.
func (c *CLI) relayout(cmd *cobra.Command, flags *layoutFlags, input string, writeBack bool) (*sdfg.SDFG, *pipeline.Result, error) {
	cfg, err := c.loadConfig(cmd, flags)
	if err != nil {
		return nil, nil, err
	}
	g, err := sdfg.ImportJSON(input)
	if err != nil {
		return nil, nil, err
	}

	runner := c.newRunner(cfg)
	defer runner.Close()

	opts := cfg.PipelineOptions()
	opts.WriteBack = opts.WriteBack || writeBack
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	res, err := runner.Relayout(cmd.Context(), g, opts)
	if err != nil {
		return nil, nil, err
	}
	prog.done("Laid out " + input)
	return g, res, nil
}

// levelGraph finds the laid-out graph for a cfg id, or for one state of it.
func levelGraph(l *layout.Layout, cfgID, state int) (*layout.Graph, bool) {
	if state >= 0 {
		return l.State(cfgID, state)
	}
	return l.Registry.Graph(cfgID)
}
