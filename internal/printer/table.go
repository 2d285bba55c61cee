package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/slok/opsim/internal/model"
)

// TablePrinter prints simulator information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintCatalog prints catalog entries in a table format.
func (t *TablePrinter) PrintCatalog(entries []model.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header.
	fmt.Fprintln(tw, "RESOURCE\tOPERATION\tSTAGES\tFIRST\tLAST")

	// Print rows.
	for _, e := range entries {
		first, last := "-", "-"
		if len(e.Stages) > 0 {
			first = e.Stages[0].Name
			last = e.Stages[len(e.Stages)-1].Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", e.ResourceKind, e.OperationKind, len(e.Stages), first, last)
	}

	return nil
}

// PrintStages prints the stages of a catalog entry.
func (t *TablePrinter) PrintStages(entry model.CatalogEntry) error {
	fmt.Fprintf(t.writer, "Resource:   %s\n", entry.ResourceKind)
	fmt.Fprintf(t.writer, "Operation:  %s\n", entry.OperationKind)
	fmt.Fprintf(t.writer, "Stages:     %d\n\n", len(entry.Stages))

	if len(entry.Stages) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "#\tID\tNAME\tESTIMATED\tDESCRIPTION")
	for i, s := range entry.Stages {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, s.ID, s.Name, s.EstimatedDuration, s.Description)
	}

	return nil
}

// PrintOperations prints the progress of the live operations.
func (t *TablePrinter) PrintOperations(ops []model.OperationSnapshot) error {
	if len(ops) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tRESOURCE\tOPERATION\tPROGRESS\tSTAGE\tSTARTED")
	for _, op := range ops {
		stage := "-"
		if st, ok := op.CurrentStage(); ok {
			stage = fmt.Sprintf("%d/%d %s (%s)", op.CurrentStageIndex+1, len(op.Stages), st.Name, FormatPercent(op.CurrentStageProgress))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%s\n",
			op.ID,
			op.ResourceKind,
			op.OperationKind,
			ProgressBar(op.OverallProgress, DefaultBarWidth),
			FormatPercent(op.OverallProgress),
			stage,
			TimeAgo(op.StartedAt),
		)
	}

	return nil
}

// PrintHistory prints the journal of finished operations.
func (t *TablePrinter) PrintHistory(records []model.OperationRecord) error {
	if len(records) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tRESOURCE\tOPERATION\tOUTCOME\tSTAGES\tPROGRESS\tDURATION\tFINISHED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%s\t%s\t%s\n",
			r.ID,
			r.ResourceKind,
			r.OperationKind,
			OutcomeColor(r.Outcome),
			r.CompletedStages,
			r.StageCount,
			FormatPercent(r.OverallProgress),
			FormatDuration(r.Duration()),
			TimeAgo(r.FinishedAt),
		)
	}

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

// OutcomeColor returns the outcome colored for terminals, colors are disabled
// globally with color.NoColor.
func OutcomeColor(o model.OperationOutcome) string {
	switch o {
	case model.OperationOutcomeCompleted:
		return color.GreenString(string(o))
	case model.OperationOutcomeCancelled:
		return color.YellowString(string(o))
	}
	return string(o)
}
