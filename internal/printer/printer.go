package printer

import "github.com/slok/opsim/internal/model"

// Printer knows how to print simulator information in different formats.
type Printer interface {
	PrintCatalog(entries []model.CatalogEntry) error
	PrintStages(entry model.CatalogEntry) error
	PrintOperations(ops []model.OperationSnapshot) error
	PrintHistory(records []model.OperationRecord) error
	PrintMessage(msg string) error
}
