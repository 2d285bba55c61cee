package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/opsim/internal/app/cataloglist"
)

// CatalogListCommand lists the catalog entries.
type CatalogListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	resourceKind  string
	operationKind string
	format        string
}

// NewCatalogListCommand returns the catalog list command.
func NewCatalogListCommand(rootCmd *RootCommand, catalogCmd *kingpin.CmdClause) *CatalogListCommand {
	c := &CatalogListCommand{rootCmd: rootCmd}

	c.Cmd = catalogCmd.Command("list", "List the operations with known stages.")
	c.Cmd.Flag("resource", "Filter by resource kind ('*' for the entries of any resource).").StringVar(&c.resourceKind)
	c.Cmd.Flag("operation", "Filter by operation kind.").StringVar(&c.operationKind)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c CatalogListCommand) Name() string { return c.Cmd.FullCommand() }

func (c CatalogListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cat, err := c.rootCmd.loadCatalog(ctx)
	if err != nil {
		return err
	}

	svc, err := cataloglist.NewService(cataloglist.ServiceConfig{
		Catalog: cat,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	entries, err := svc.Run(ctx, cataloglist.Request{
		ResourceKind:  c.resourceKind,
		OperationKind: c.operationKind,
	})
	if err != nil {
		return fmt.Errorf("could not list catalog: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintCatalog(entries); err != nil {
		return fmt.Errorf("could not print catalog: %w", err)
	}

	return nil
}
