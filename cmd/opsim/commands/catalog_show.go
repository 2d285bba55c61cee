package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/opsim/internal/app/catalogshow"
)

// CatalogShowCommand shows the stages of an operation.
type CatalogShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	resourceKind  string
	operationKind string
	format        string
}

// NewCatalogShowCommand returns the catalog show command.
func NewCatalogShowCommand(rootCmd *RootCommand, catalogCmd *kingpin.CmdClause) *CatalogShowCommand {
	c := &CatalogShowCommand{rootCmd: rootCmd}

	c.Cmd = catalogCmd.Command("show", "Show the stages an operation goes through.")
	c.Cmd.Arg("resource", "Resource kind.").Required().StringVar(&c.resourceKind)
	c.Cmd.Arg("operation", "Operation kind.").Required().StringVar(&c.operationKind)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c CatalogShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c CatalogShowCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	cat, err := c.rootCmd.loadCatalog(ctx)
	if err != nil {
		return err
	}

	svc, err := catalogshow.NewService(catalogshow.ServiceConfig{
		Catalog: cat,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	entry, err := svc.Run(ctx, catalogshow.Request{
		ResourceKind:  c.resourceKind,
		OperationKind: c.operationKind,
	})
	if err != nil {
		return fmt.Errorf("could not show operation stages: %w", err)
	}

	if err := c.rootCmd.newPrinter(c.format).PrintStages(*entry); err != nil {
		return fmt.Errorf("could not print stages: %w", err)
	}

	return nil
}
