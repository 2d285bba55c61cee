package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/opsim/internal/app/historyremove"
	"github.com/slok/opsim/internal/printer"
	"github.com/slok/opsim/internal/storage/sqlite"
)

// HistoryRmCommand removes finished operations from the history.
type HistoryRmCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	ids []string
	all bool
}

// NewHistoryRmCommand returns the history rm command.
func NewHistoryRmCommand(rootCmd *RootCommand, historyCmd *kingpin.CmdClause) *HistoryRmCommand {
	c := &HistoryRmCommand{rootCmd: rootCmd}

	c.Cmd = historyCmd.Command("rm", "Remove finished operations from the history.")
	c.Cmd.Arg("ids", "Operation IDs.").StringsVar(&c.ids)
	c.Cmd.Flag("all", "Remove every record.").BoolVar(&c.all)

	return c
}

func (c HistoryRmCommand) Name() string { return c.Cmd.FullCommand() }

func (c HistoryRmCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	svc, err := historyremove.NewService(historyremove.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	removed, err := svc.Run(ctx, historyremove.Request{
		IDs: c.ids,
		All: c.all,
	})
	if err != nil {
		return fmt.Errorf("could not remove records: %w", err)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if err := p.PrintMessage(fmt.Sprintf("Removed %d records", removed)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
