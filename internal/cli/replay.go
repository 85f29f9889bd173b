package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowedit/pkg/editor"
	"github.com/matzehuels/flowedit/pkg/errors"
	"github.com/matzehuels/flowedit/pkg/flow/bounds"
)

// replayCommand creates the replay command for applying recorded events.
func (c *CLI) replayCommand() *cobra.Command {
	var (
		output string
		settle bool
	)

	cmd := &cobra.Command{
		Use:   "replay [diagram.json] [events.json]",
		Short: "Apply recorded interaction events to a diagram",
		Long: `Apply recorded interaction events to a diagram.

Events are read as a JSON array or as a stream of JSON objects, one per
interaction ("-" reads standard input):

  {"type": "drag-end", "id": "a", "position": {"x": 10, "y": 20}}
  {"type": "connect", "connection": {"source": "a", "sourceHandle": "bottom",
                                     "target": "b", "targetHandle": "top"}}
  {"type": "auto-arrange"}
  {"type": "layout-settled"}
  {"type": "undo"}

A layout-settled event without a ticket settles the most recent
auto-arrange. With --settle every auto-arrange settles immediately.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), args[0], args[1], output, settle)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.replayed.<ext>)")
	cmd.Flags().BoolVar(&settle, "settle", false, "settle every auto-arrange immediately")

	return cmd
}

// runReplay dispatches each event in order and writes the final diagram.
func (c *CLI) runReplay(ctx context.Context, input, eventsPath, output string, settle bool) error {
	g, vp, err := loadDocument(input)
	if err != nil {
		return err
	}
	events, err := readEventsFile(eventsPath)
	if err != nil {
		return err
	}

	ctrl := c.newController(g, nil)
	if vp != nil {
		ctrl.SetViewport(*vp)
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	applied, err := replay(ctx, ctrl, events, settle, logger.Debugf)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d events", len(events)))

	outPath := outputPath(input, output, "replayed")
	if err := saveDocument(ctrl.Graph(), viewportOf(ctrl), outPath); err != nil {
		return err
	}

	st := ctrl.State()
	printSuccess("Replay complete")
	printFile(outPath)
	printStats(len(st.Nodes), len(st.Edges), fmt.Sprintf("%d/%d events applied", applied, len(events)))
	if st.LayoutInProgress {
		printWarning("a layout is still pending; its positions are written but not committed")
	}

	return nil
}

// replay dispatches events in order and returns how many were applied.
// A layout-settled event without a ticket settles the latest auto-arrange.
func replay(ctx context.Context, ctrl *editor.Controller, events []editor.Event, settle bool, logf func(string, ...any)) (int, error) {
	var (
		applied int
		ticket  string
	)
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if ev.Type == editor.EventLayoutSettled && ev.Ticket == "" {
			ev.Ticket = ticket
			if ticket == "" {
				logf("event %d: %s without a preceding auto-arrange", i, ev.Type)
				continue
			}
		}
		out, err := ctrl.Dispatch(ev)
		if err != nil {
			return applied, fmt.Errorf("event %d: %w", i, err)
		}
		if out.Ticket != "" {
			ticket = out.Ticket
			if settle {
				ctrl.SettleLayout(ticket)
			}
		}
		if out.Applied {
			applied++
		}
		logf("event %d: %s applied=%t committed=%t", i, ev.Type, out.Applied, out.Committed)
	}
	return applied, nil
}

func readEventsFile(path string) ([]editor.Event, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		if err := errors.ValidatePath(path); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.New(errors.ErrCodeFileNotFound, "events file not found: %s", path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
		}
		defer f.Close()
		r = f
	}
	events, err := editor.ReadEvents(r)
	if err != nil {
		return nil, fmt.Errorf("read events %s: %w", path, err)
	}
	return events, nil
}

// viewportOf returns the controller's viewport, or nil if it was never set.
func viewportOf(ctrl *editor.Controller) *bounds.Viewport {
	vp := ctrl.Viewport()
	if vp == (bounds.Viewport{}) {
		return nil
	}
	return &vp
}
