package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.HistoryRepository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(migrations.MigratorConfig{DB: db, Logger: cfg.Logger})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}
	version, err := migrator.Version(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not check schema: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s (schema v%d)", cfg.DBPath, version)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// CreateRecord stores a new record in the repository.
func (r *Repository) CreateRecord(ctx context.Context, rec model.OperationRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	query := `
		INSERT INTO operation_records (
			id, resource_kind, operation_kind, outcome,
			stage_count, completed_stages, overall_progress,
			started_at, finished_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.ResourceKind,
		rec.OperationKind,
		rec.Outcome,
		rec.StageCount,
		rec.CompletedStages,
		rec.OverallProgress,
		rec.StartedAt.UnixMilli(),
		rec.FinishedAt.UnixMilli(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: operation_records.") {
			return fmt.Errorf("record %s already exists: %w", rec.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert record: %w", err)
	}

	r.logger.Debugf("Created record in repository: %s", rec.ID)
	return nil
}

// GetRecord retrieves a record by ID.
func (r *Repository) GetRecord(ctx context.Context, id string) (*model.OperationRecord, error) {
	query := `
		SELECT
			id, resource_kind, operation_kind, outcome,
			stage_count, completed_stages, overall_progress,
			started_at, finished_at
		FROM operation_records
		WHERE id = ?
	`

	rec, err := scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query record: %w", err)
	}

	return &rec, nil
}

// ListRecords returns all records, most recently finished first.
func (r *Repository) ListRecords(ctx context.Context) ([]model.OperationRecord, error) {
	query := `
		SELECT
			id, resource_kind, operation_kind, outcome,
			stage_count, completed_stages, overall_progress,
			started_at, finished_at
		FROM operation_records
		ORDER BY finished_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query records: %w", err)
	}
	defer rows.Close()

	records := []model.OperationRecord{}
	for rows.Next() {
		rec, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// DeleteRecord deletes a record.
func (r *Repository) DeleteRecord(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM operation_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("could not delete record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("record %s: %w", id, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted record from repository: %s", id)
	return nil
}

// DeleteAllRecords deletes all the records.
func (r *Repository) DeleteAllRecords(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM operation_records`)
	if err != nil {
		return 0, fmt.Errorf("could not delete records: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not get rows affected: %w", err)
	}

	r.logger.Debugf("Deleted %d records from repository", rows)
	return int(rows), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(s scanner) (model.OperationRecord, error) {
	var rec model.OperationRecord
	var startedAt, finishedAt int64

	err := s.Scan(
		&rec.ID,
		&rec.ResourceKind,
		&rec.OperationKind,
		&rec.Outcome,
		&rec.StageCount,
		&rec.CompletedStages,
		&rec.OverallProgress,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return model.OperationRecord{}, err
	}

	rec.StartedAt = timeFromUnixMilli(startedAt)
	rec.FinishedAt = timeFromUnixMilli(finishedAt)

	return rec, nil
}

func timeFromUnixMilli(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
