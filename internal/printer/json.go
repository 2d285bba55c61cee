package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/opsim/internal/model"
)

// JSONPrinter prints simulator information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type stageOutput struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	EstimatedDuration string `json:"estimated_duration,omitempty"`
}

type catalogEntryOutput struct {
	ResourceKind  string        `json:"resource_kind"`
	OperationKind string        `json:"operation_kind"`
	Stages        []stageOutput `json:"stages"`
}

type operationStageOutput struct {
	stageOutput
	Status string `json:"status"`
}

type operationOutput struct {
	ID                    string                 `json:"id"`
	ResourceKind          string                 `json:"resource_kind"`
	OperationKind         string                 `json:"operation_kind"`
	Stages                []operationStageOutput `json:"stages"`
	CurrentStageIndex     int                    `json:"current_stage_index"`
	CurrentStageProgress  float64                `json:"current_stage_progress"`
	CompletedStageIndices []int                  `json:"completed_stage_indices"`
	OverallProgress       float64                `json:"overall_progress"`
	StartedAt             time.Time              `json:"started_at"`
}

type recordOutput struct {
	ID              string    `json:"id"`
	ResourceKind    string    `json:"resource_kind"`
	OperationKind   string    `json:"operation_kind"`
	Outcome         string    `json:"outcome"`
	StageCount      int       `json:"stage_count"`
	CompletedStages int       `json:"completed_stages"`
	OverallProgress float64   `json:"overall_progress"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

func toStageOutput(s model.Stage) stageOutput {
	return stageOutput{
		ID:                s.ID,
		Name:              s.Name,
		Description:       s.Description,
		EstimatedDuration: s.EstimatedDuration,
	}
}

func toCatalogEntryOutput(e model.CatalogEntry) catalogEntryOutput {
	stages := make([]stageOutput, 0, len(e.Stages))
	for _, s := range e.Stages {
		stages = append(stages, toStageOutput(s))
	}
	return catalogEntryOutput{
		ResourceKind:  e.ResourceKind,
		OperationKind: e.OperationKind,
		Stages:        stages,
	}
}

// PrintCatalog prints catalog entries in JSON format.
func (j *JSONPrinter) PrintCatalog(entries []model.CatalogEntry) error {
	items := make([]catalogEntryOutput, 0, len(entries))
	for _, e := range entries {
		items = append(items, toCatalogEntryOutput(e))
	}
	return j.encode(items)
}

// PrintStages prints a catalog entry in JSON format.
func (j *JSONPrinter) PrintStages(entry model.CatalogEntry) error {
	return j.encode(toCatalogEntryOutput(entry))
}

// PrintOperations prints live operation snapshots in JSON format.
func (j *JSONPrinter) PrintOperations(ops []model.OperationSnapshot) error {
	items := make([]operationOutput, 0, len(ops))
	for _, op := range ops {
		stages := make([]operationStageOutput, 0, len(op.Stages))
		for i, s := range op.Stages {
			stages = append(stages, operationStageOutput{
				stageOutput: toStageOutput(s),
				Status:      string(op.StageStatus(i)),
			})
		}

		completed := op.CompletedStageIndices
		if completed == nil {
			completed = []int{}
		}

		items = append(items, operationOutput{
			ID:                    op.ID,
			ResourceKind:          op.ResourceKind,
			OperationKind:         op.OperationKind,
			Stages:                stages,
			CurrentStageIndex:     op.CurrentStageIndex,
			CurrentStageProgress:  op.CurrentStageProgress,
			CompletedStageIndices: completed,
			OverallProgress:       op.OverallProgress,
			StartedAt:             op.StartedAt.UTC(),
		})
	}
	return j.encode(items)
}

// PrintHistory prints finished operation records in JSON format.
func (j *JSONPrinter) PrintHistory(records []model.OperationRecord) error {
	items := make([]recordOutput, 0, len(records))
	for _, r := range records {
		items = append(items, recordOutput{
			ID:              r.ID,
			ResourceKind:    r.ResourceKind,
			OperationKind:   r.OperationKind,
			Outcome:         string(r.Outcome),
			StageCount:      r.StageCount,
			CompletedStages: r.CompletedStages,
			OverallProgress: r.OverallProgress,
			StartedAt:       r.StartedAt.UTC(),
			FinishedAt:      r.FinishedAt.UTC(),
		})
	}
	return j.encode(items)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
