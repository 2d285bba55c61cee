package plain

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/printer"
)

// Renderer renders a run as plain log-like lines, one per stage transition.
// It's suited for non interactive terminals and CI.
type Renderer struct {
	out io.Writer

	mu       sync.Mutex
	stages   map[string]int
	finished map[string]struct{}
}

// NewRenderer returns a new plain renderer.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:      out,
		stages:   map[string]int{},
		finished: map[string]struct{}{},
	}
}

// Run blocks until the context is done.
func (r *Renderer) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// RenderProgress prints the operations that started or moved to a new stage.
func (r *Renderer) RenderProgress(_ context.Context, ops []model.OperationSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, op := range ops {
		// Snapshots taken before an operation finished can arrive after its outcome.
		if _, ok := r.finished[op.ID]; ok {
			continue
		}

		last, seen := r.stages[op.ID]
		if !seen {
			fmt.Fprintf(r.out, "%s %s %s/%s started with %d stages\n",
				color.CyanString("▶"), op.ID, op.ResourceKind, op.OperationKind, len(op.Stages))
		}
		if seen && last == op.CurrentStageIndex {
			continue
		}
		r.stages[op.ID] = op.CurrentStageIndex

		st, ok := op.CurrentStage()
		if !ok {
			continue
		}
		fmt.Fprintf(r.out, "  %s %s %s stage %d/%d: %s\n",
			op.ID,
			printer.ProgressBar(op.OverallProgress, printer.DefaultBarWidth),
			printer.FormatPercent(op.OverallProgress),
			op.CurrentStageIndex+1,
			len(op.Stages),
			st.Name,
		)
	}

	return nil
}

// RenderOutcome prints the final line of an operation.
func (r *Renderer) RenderOutcome(_ context.Context, rec model.OperationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.stages, rec.ID)
	r.finished[rec.ID] = struct{}{}

	mark := color.GreenString("✔")
	if rec.Outcome == model.OperationOutcomeCancelled {
		mark = color.YellowString("✖")
	}

	fmt.Fprintf(r.out, "%s %s %s %s at %s (%d/%d stages) in %s\n",
		mark,
		rec.ID,
		printer.ProgressBar(rec.OverallProgress, printer.DefaultBarWidth),
		printer.OutcomeColor(rec.Outcome),
		printer.FormatPercent(rec.OverallProgress),
		rec.CompletedStages,
		rec.StageCount,
		printer.FormatDuration(rec.Duration()),
	)

	return nil
}
