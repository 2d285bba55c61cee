package storage

import (
	"context"

	"github.com/slok/opsim/internal/model"
)

// HistoryRepository is the interface for the journal of finished operations.
type HistoryRepository interface {
	CreateRecord(ctx context.Context, r model.OperationRecord) error
	GetRecord(ctx context.Context, id string) (*model.OperationRecord, error)
	// ListRecords returns the records, most recently finished first.
	ListRecords(ctx context.Context) ([]model.OperationRecord, error)
	DeleteRecord(ctx context.Context, id string) error
	// DeleteAllRecords removes every record and returns how many were removed.
	DeleteAllRecords(ctx context.Context) (int, error)
}
