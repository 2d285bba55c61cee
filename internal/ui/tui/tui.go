package tui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
)

const defaultRefreshInterval = 100 * time.Millisecond

// RendererConfig is the configuration of the interactive renderer.
type RendererConfig struct {
	// In is the keyboard input, stdin when nil.
	In io.Reader
	// Out is the terminal output, stdout when nil.
	Out io.Writer
	// RefreshInterval is how often the screen is refreshed with the latest state.
	RefreshInterval time.Duration
	Logger          log.Logger
}

func (c *RendererConfig) defaults() error {
	if c.RefreshInterval == 0 {
		c.RefreshInterval = defaultRefreshInterval
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval can't be negative")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "ui.TUI"})

	return nil
}

// Renderer renders a run as an interactive terminal UI. The UI pulls the latest
// state on every refresh, so rendering never blocks the progress engine.
type Renderer struct {
	in      io.Reader
	out     io.Writer
	refresh time.Duration
	logger  log.Logger

	mu       sync.Mutex
	ops      []model.OperationSnapshot
	outcomes []model.OperationRecord
	finished map[string]struct{}
}

// NewRenderer returns a new interactive renderer.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Renderer{
		in:       cfg.In,
		out:      cfg.Out,
		refresh:  cfg.RefreshInterval,
		logger:   cfg.Logger,
		finished: map[string]struct{}{},
	}, nil
}

// Run runs the terminal UI until the context is done or the user quits.
func (r *Renderer) Run(ctx context.Context) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if r.in != nil {
		opts = append(opts, tea.WithInput(r.in))
	}
	if r.out != nil {
		opts = append(opts, tea.WithOutput(r.out))
	}

	p := tea.NewProgram(newUIModel(r.state, r.refresh), opts...)
	_, err := p.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	r.logger.Debugf("Terminal UI stopped")

	return nil
}

// RenderProgress stores the latest live operations for the next refresh.
// Operations that already have an outcome are ignored.
func (r *Renderer) RenderProgress(_ context.Context, ops []model.OperationSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	live := make([]model.OperationSnapshot, 0, len(ops))
	for _, op := range ops {
		if _, ok := r.finished[op.ID]; !ok {
			live = append(live, op)
		}
	}
	r.ops = live

	return nil
}

// RenderOutcome stores a finished operation for the next refresh.
func (r *Renderer) RenderOutcome(_ context.Context, rec model.OperationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes = append(r.outcomes, rec)
	r.finished[rec.ID] = struct{}{}

	// A finished operation leaves the live set right away.
	live := make([]model.OperationSnapshot, 0, len(r.ops))
	for _, op := range r.ops {
		if op.ID != rec.ID {
			live = append(live, op)
		}
	}
	r.ops = live

	return nil
}

func (r *Renderer) state() stateMsg {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]model.OperationSnapshot, len(r.ops))
	copy(ops, r.ops)
	outcomes := make([]model.OperationRecord, len(r.outcomes))
	copy(outcomes, r.outcomes)

	return stateMsg{ops: ops, outcomes: outcomes}
}
