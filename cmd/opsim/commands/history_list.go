package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/opsim/internal/app/historylist"
	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/storage/sqlite"
)

// HistoryListCommand lists the finished operations.
type HistoryListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	outcomeFilter string
	limit         int
	format        string
}

// NewHistoryListCommand returns the history list command.
func NewHistoryListCommand(rootCmd *RootCommand, historyCmd *kingpin.CmdClause) *HistoryListCommand {
	c := &HistoryListCommand{rootCmd: rootCmd}

	c.Cmd = historyCmd.Command("list", "List the finished operations.")
	c.Cmd.Flag("outcome", "Filter by outcome (completed, cancelled).").StringVar(&c.outcomeFilter)
	c.Cmd.Flag("limit", "Max number of records, 0 for all.").Default("0").IntVar(&c.limit)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c HistoryListCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Parse outcome filter if provided.
	var outcomeFilter *model.OperationOutcome
	if c.outcomeFilter != "" {
		outcome := model.OperationOutcome(strings.ToLower(c.outcomeFilter))
		switch outcome {
		case model.OperationOutcomeCompleted, model.OperationOutcomeCancelled:
			outcomeFilter = &outcome
		default:
			return fmt.Errorf("invalid outcome filter: %s (must be: completed, cancelled)", c.outcomeFilter)
		}
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := historylist.NewService(historylist.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	records, err := svc.Run(ctx, historylist.Request{
		OutcomeFilter: outcomeFilter,
		Limit:         c.limit,
	})
	if err != nil {
		return fmt.Errorf("could not list history: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintHistory(records); err != nil {
		return fmt.Errorf("could not print history: %w", err)
	}

	return nil
}
