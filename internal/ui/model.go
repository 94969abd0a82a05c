package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Stage is the phase of a grading run shown by the progress display
type Stage int

const (
	StageLoad Stage = iota
	StageScore
	StageReview
	StageDone
)

// Progress messages
type (
	StageMsg     Stage
	OperationMsg string
	ItemStartMsg string
	ItemCountMsg int
	DoneMsg      struct{ Err error }

	// ItemDoneMsg reports one scored evidence item
	ItemDoneMsg struct {
		Tier      string
		Composite float64
	}

	// GradedMsg reports the deterministic grade of a statement
	GradedMsg struct {
		Overall float64
		Grade   string
	}
)

// tierCount is the running tally of one recommendation tier
type tierCount struct {
	tier string
	n    int
}

// Model renders grading progress: a spinner while loading, a bar with a
// running tier tally while evidence is scored, and the grade while a second
// opinion is pending.
type Model struct {
	stage    Stage
	spinner  spinner.Model
	bar      progress.Model
	muted    lipgloss.Style
	op       string
	total    int
	scored   int
	tiers    []tierCount
	best     *ItemDoneMsg
	graded   *GradedMsg
	quitting bool
	err      error
}

// NewModel creates a progress model in the load stage
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		stage:   StageLoad,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, 60)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StageMsg:
		m.stage = Stage(msg)
		m.op = ""

	case OperationMsg:
		m.op = string(msg)

	case ItemStartMsg:
		m.op = string(msg)

	case ItemCountMsg:
		m.total = int(msg)
		m.scored = 0
		m.tiers = nil
		m.best = nil

	case ItemDoneMsg:
		m.record(msg)

	case GradedMsg:
		m.graded = &msg

	case DoneMsg:
		m.err = msg.Err
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// record counts a scored item. Items past the announced total are ignored.
func (m *Model) record(item ItemDoneMsg) {
	if m.scored >= m.total {
		return
	}
	m.scored++

	if m.best == nil || item.Composite > m.best.Composite {
		m.best = &item
	}
	for i := range m.tiers {
		if m.tiers[i].tier == item.Tier {
			m.tiers[i].n++
			return
		}
	}
	m.tiers = append(m.tiers, tierCount{tier: item.Tier, n: 1})
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")

	switch m.stage {
	case StageLoad:
		sb.WriteString("Loading")
		if m.op != "" {
			sb.WriteString(" " + m.op)
		}
		sb.WriteString("...")

	case StageScore:
		sb.WriteString(firstNonEmpty(m.op, "Scoring..."))
		if m.total > 0 {
			sb.WriteString("\n")
			sb.WriteString(m.bar.ViewAs(float64(m.scored) / float64(m.total)))
			sb.WriteString(fmt.Sprintf(" %d/%d scored", m.scored, m.total))
			if tally := m.tally(); tally != "" {
				sb.WriteString("\n")
				sb.WriteString(m.muted.Render(tally))
			}
		}

	case StageReview:
		if m.graded != nil {
			sb.WriteString(fmt.Sprintf("Graded %s (%.1f/10). ", m.graded.Grade, m.graded.Overall))
		}
		sb.WriteString("Waiting for second opinion")
		if m.op != "" {
			sb.WriteString(" from " + m.op)
		}
		sb.WriteString("...")
	}

	return sb.String()
}

// tally renders the best item so far and the count per tier
func (m Model) tally() string {
	if m.best == nil {
		return ""
	}
	parts := []string{fmt.Sprintf("best %.1f %s", m.best.Composite, m.best.Tier)}
	for _, t := range m.tiers {
		parts = append(parts, fmt.Sprintf("%s %d", t.tier, t.n))
	}
	return strings.Join(parts, " | ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
