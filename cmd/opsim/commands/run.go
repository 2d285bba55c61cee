package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/opsim/internal/app/run"
	"github.com/slok/opsim/internal/progress"
	"github.com/slok/opsim/internal/storage"
	"github.com/slok/opsim/internal/storage/sqlite"
	"github.com/slok/opsim/internal/ui/plain"
	"github.com/slok/opsim/internal/ui/tui"
	"github.com/slok/opsim/internal/utils/opspec"
)

const (
	// UITypePlain renders stage transitions as lines.
	UITypePlain = "plain"
	// UITypeTUI renders an interactive dashboard.
	UITypeTUI = "tui"
	// UITypeNone doesn't render progress, only the final summary.
	UITypeNone = "none"
)

// RunCommand simulates database operations until all of them finish.
type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	UIType       string
	ops          []string
	cancelAfter  []string
	step         float64
	tickInterval time.Duration
	format       string
	noHistory    bool
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Simulate database operations and show their stage progress.")
	c.Cmd.Flag("op", "Operation to simulate in RESOURCE/OPERATION[=ID] form (repeatable).").Short('o').Required().StringsVar(&c.ops)
	c.Cmd.Flag("cancel-after", "Cancel an operation after a duration, in ID=DURATION form (repeatable).").StringsVar(&c.cancelAfter)
	c.Cmd.Flag("step", "Stage progress percentage added on every tick.").Default(fmt.Sprintf("%g", progress.DefaultStep)).Float64Var(&c.step)
	c.Cmd.Flag("tick", "Scheduler tick interval.").Default(progress.DefaultTickInterval.String()).DurationVar(&c.tickInterval)
	c.Cmd.Flag("ui", "Progress renderer (plain, tui, none).").Default(UITypePlain).EnumVar(&c.UIType, UITypePlain, UITypeTUI, UITypeNone)
	c.Cmd.Flag("format", "Summary output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)
	c.Cmd.Flag("no-history", "Don't journal the outcomes in the history database.").BoolVar(&c.noHistory)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	ops, err := opspec.ParseOperations(c.ops)
	if err != nil {
		return fmt.Errorf("invalid operations: %w", err)
	}

	cancelAfter, err := opspec.ParseCancelAfter(c.cancelAfter)
	if err != nil {
		return fmt.Errorf("invalid cancellations: %w", err)
	}

	// Cancellations need to know the operation, so they only work with explicit IDs.
	reqOps := make([]run.Operation, 0, len(ops))
	knownIDs := map[string]bool{}
	for _, op := range ops {
		knownIDs[op.ID] = true
		reqOps = append(reqOps, run.Operation{
			ID:            op.ID,
			ResourceKind:  op.ResourceKind,
			OperationKind: op.OperationKind,
			CancelAfter:   cancelAfter[op.ID],
		})
	}
	for id := range cancelAfter {
		if !knownIDs[id] {
			return fmt.Errorf("cancellation for unknown operation %q, operations need an explicit ID to be cancelled", id)
		}
	}

	cat, err := c.rootCmd.loadCatalog(ctx)
	if err != nil {
		return err
	}

	var historyRepo storage.HistoryRepository
	if !c.noHistory {
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: c.rootCmd.DBPath,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("could not create repository: %w", err)
		}
		defer repo.Close()
		historyRepo = repo
	}

	var renderer run.Renderer
	switch c.UIType {
	case UITypeTUI:
		renderer, err = tui.NewRenderer(tui.RendererConfig{
			In:     c.rootCmd.Stdin,
			Out:    c.rootCmd.Stdout,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("could not create terminal UI: %w", err)
		}
	case UITypePlain:
		renderer = plain.NewRenderer(c.rootCmd.Stdout)
	default:
		renderer = run.NoopRenderer
	}

	svc, err := run.NewService(run.ServiceConfig{
		Catalog:           cat,
		Step:              c.step,
		TickInterval:      c.tickInterval,
		Renderer:          renderer,
		HistoryRepository: historyRepo,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, run.Request{Operations: reqOps})
	if err != nil {
		return fmt.Errorf("could not run operations: %w", err)
	}

	p := c.rootCmd.newPrinter(c.format)
	if c.format == formatTable {
		fmt.Fprintln(c.rootCmd.Stdout)
	}
	if err := p.PrintHistory(res.Records); err != nil {
		return fmt.Errorf("could not print summary: %w", err)
	}

	if res.Interrupted && c.format == formatTable {
		if err := p.PrintMessage("Run interrupted, the unfinished operations were cancelled."); err != nil {
			return fmt.Errorf("could not print message: %w", err)
		}
	}

	return nil
}
