package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNew_DetectsMode(t *testing.T) {
	tests := []struct {
		format string
		want   OutputMode
	}{
		{FormatJSON, OutputModeJSON},
		{FormatTerminal, OutputModePlain},
	}
	for _, tt := range tests {
		u := New(&bytes.Buffer{}, &bytes.Buffer{}, tt.format)
		if u.Mode != tt.want {
			t.Errorf("New(%q).Mode = %v, want %v", tt.format, u.Mode, tt.want)
		}
		if u.Styles.Enabled() {
			t.Errorf("New(%q) styles enabled for a buffer", tt.format)
		}
		if u.StartProgress() != nil {
			t.Errorf("New(%q).StartProgress() should be nil off a TTY", tt.format)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"terminal", "json"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateFormat("xml"); err == nil {
		t.Error("ValidateFormat(xml) should fail")
	}
}

func TestStyles_Bar(t *testing.T) {
	s := NewStyles(false)

	tests := []struct {
		score float64
		want  string
	}{
		{0, ".........."},
		{5, "#####....."},
		{10, "##########"},
		{12, "##########"},
	}
	for _, tt := range tests {
		if got := s.Bar(tt.score, 10); got != tt.want {
			t.Errorf("Bar(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestProgressController_NilSafe(t *testing.T) {
	var pc *ProgressController
	pc.SetStage(StageScore)
	pc.SetItemCount(3)
	pc.ItemStart("x")
	pc.ItemDone("Strong", 6.8)
	pc.Graded(7.1, "B")
	pc.Done(nil)
}

func TestModel_Update(t *testing.T) {
	var m tea.Model = NewModel()

	m, _ = m.Update(StageMsg(StageScore))
	m, _ = m.Update(ItemCountMsg(3))
	m, _ = m.Update(ItemStartMsg("Scoring Sapiens..."))
	m, _ = m.Update(ItemDoneMsg{Tier: "Weak", Composite: 3.9})
	m, _ = m.Update(ItemDoneMsg{Tier: "Strong", Composite: 6.8})
	m, _ = m.Update(ItemDoneMsg{Tier: "Weak", Composite: 4.1})
	m, _ = m.Update(ItemDoneMsg{Tier: "Exceptional", Composite: 9})

	view := m.View()
	for _, want := range []string{"3/3 scored", "Scoring Sapiens...", "best 6.8 Strong", "Weak 2", "Strong 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() = %q, want %q", view, want)
		}
	}
	if strings.Contains(view, "Exceptional") {
		t.Errorf("View() = %q, counted an item past the total", view)
	}

	m, cmd := m.Update(DoneMsg{})
	if cmd == nil {
		t.Error("DoneMsg should quit")
	}
	if m.View() != "" {
		t.Errorf("View() after done = %q, want empty", m.View())
	}
}

func TestModel_ReviewStage(t *testing.T) {
	var m tea.Model = NewModel()

	m, _ = m.Update(StageMsg(StageReview))
	m, _ = m.Update(GradedMsg{Overall: 7.14, Grade: "B"})
	m, _ = m.Update(OperationMsg("api"))

	view := m.View()
	if !strings.Contains(view, "Graded B (7.1/10)") || !strings.Contains(view, "second opinion from api") {
		t.Errorf("View() = %q, want grade and backend", view)
	}
}
