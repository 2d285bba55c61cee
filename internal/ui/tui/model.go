package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/printer"
)

const (
	minBarWidth     = 20
	defaultBarWidth = 40
	barPadding      = 20
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	opStyle        = lipgloss.NewStyle().Bold(true)
	kindStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	runningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cancelledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// stateMsg carries the latest state pulled from the renderer.
type stateMsg struct {
	ops      []model.OperationSnapshot
	outcomes []model.OperationRecord
}

type uiModel struct {
	source  func() stateMsg
	refresh time.Duration
	bar     progress.Model

	ops      []model.OperationSnapshot
	outcomes []model.OperationRecord
	quitting bool
}

func newUIModel(source func() stateMsg, refresh time.Duration) uiModel {
	return uiModel{
		source:  source,
		refresh: refresh,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(defaultBarWidth),
		),
	}
}

func (m uiModel) poll() tea.Cmd {
	source := m.source
	return tea.Tick(m.refresh, func(time.Time) tea.Msg {
		return source()
	})
}

// Init implements tea.Model.
func (m uiModel) Init() tea.Cmd {
	return m.poll()
}

// Update implements tea.Model.
func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := msg.Width - barPadding
		if width < minBarWidth {
			width = minBarWidth
		}
		m.bar.Width = width
	case stateMsg:
		m.ops = msg.ops
		m.outcomes = msg.outcomes
		return m, m.poll()
	}

	return m, nil
}

// View implements tea.Model.
func (m uiModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Database operations"))
	b.WriteString("\n\n")

	if len(m.ops) == 0 && len(m.outcomes) == 0 {
		b.WriteString(pendingStyle.Render("Waiting for operations..."))
		b.WriteString("\n")
	}

	for _, op := range m.ops {
		b.WriteString(m.operationView(op))
		b.WriteString("\n")
	}

	if len(m.outcomes) > 0 {
		b.WriteString(titleStyle.Render("Finished"))
		b.WriteString("\n")
		for _, r := range m.outcomes {
			b.WriteString(outcomeView(r))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.quitting {
		b.WriteString(helpStyle.Render("Stopping..."))
	} else {
		b.WriteString(helpStyle.Render("q: stop and cancel running operations"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m uiModel) operationView(op model.OperationSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n",
		opStyle.Render(op.ID),
		kindStyle.Render(op.ResourceKind+"/"+op.OperationKind),
	)
	fmt.Fprintf(&b, "  %s %s\n", m.bar.ViewAs(op.OverallProgress/100), printer.FormatPercent(op.OverallProgress))

	for i, st := range op.Stages {
		label := st.Name
		if st.EstimatedDuration != "" {
			label += " (~" + st.EstimatedDuration + ")"
		}

		switch op.StageStatus(i) {
		case model.StageStatusCompleted:
			b.WriteString("  " + completedStyle.Render("✓ "+label))
		case model.StageStatusRunning:
			b.WriteString("  " + runningStyle.Render("● "+label) + " " + printer.FormatPercent(op.CurrentStageProgress))
		default:
			b.WriteString("  " + pendingStyle.Render("○ "+label))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func outcomeView(r model.OperationRecord) string {
	mark := completedStyle.Render("✔ " + string(r.Outcome))
	if r.Outcome == model.OperationOutcomeCancelled {
		mark = cancelledStyle.Render("✖ " + string(r.Outcome))
	}

	return fmt.Sprintf("  %s %s %s (%d/%d stages, %s)",
		mark,
		opStyle.Render(r.ID),
		printer.FormatPercent(r.OverallProgress),
		r.CompletedStages,
		r.StageCount,
		printer.FormatDuration(r.Duration()),
	)
}
