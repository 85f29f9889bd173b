// Package cli implements the flowedit command-line interface.
package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowedit/pkg/buildinfo"
	"github.com/matzehuels/flowedit/pkg/config"
	"github.com/matzehuels/flowedit/pkg/editor"
	"github.com/matzehuels/flowedit/pkg/flow"
	"github.com/matzehuels/flowedit/pkg/flow/bounds"
	"github.com/matzehuels/flowedit/pkg/graph"
	"github.com/matzehuels/flowedit/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "flowedit"

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
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Flowedit edits node/edge diagrams",
		Long: `Flowedit is an editor engine for node/edge diagrams. It arranges diagrams
into layers, keeps nodes inside a viewport, replays recorded interaction
events, exports to DOT/SVG/PDF/PNG, and serves the editor to a browser.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.boundsCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.SetLogLevel(level)
	return nil
}

// =============================================================================
// Controller Factory
// =============================================================================

// newController creates an editor controller configured from the loaded
// config. A nil hooks value uses the global registry.
func (c *CLI) newController(g flow.Graph, hooks observability.EditorHooks) *editor.Controller {
	opts := editor.DefaultOptions()
	opts.Layout = c.cfg.LayoutOptions()
	opts.Bounds = c.cfg.BoundsOptions()
	opts.HistoryCapacity = c.cfg.History.Capacity
	opts.Logger = c.Logger
	opts.Hooks = hooks
	return editor.New(g, opts)
}

// =============================================================================
// Document Helpers
// =============================================================================

// loadDocument reads a diagram file and converts it to a graph.
func loadDocument(path string) (flow.Graph, *bounds.Viewport, error) {
	doc, err := graph.ReadFile(path)
	if err != nil {
		return flow.Graph{}, nil, fmt.Errorf("load diagram %s: %w", path, err)
	}
	g, err := doc.ToFlow()
	if err != nil {
		return flow.Graph{}, nil, fmt.Errorf("load diagram %s: %w", path, err)
	}
	return g, doc.Viewport, nil
}

// saveDocument writes g and the optional viewport to path.
func saveDocument(g flow.Graph, vp *bounds.Viewport, path string) error {
	if err := graph.WriteFile(graph.FromFlow(g, vp), path); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// outputPath returns output if set, otherwise input with suffix inserted
// before the extension ("diagram.json" + "arranged" = "diagram.arranged.json").
func outputPath(input, output, suffix string) string {
	if output != "" {
		return output
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "." + suffix + ext
}
