package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgressController manages the bubbletea program for progress display
type ProgressController struct {
	ui      *UI
	program *tea.Program
	done    chan struct{}
}

// StartProgress starts the progress display if in interactive mode
// Returns nil if not in interactive mode
func (ui *UI) StartProgress() *ProgressController {
	if ui.Mode != OutputModeInteractive {
		return nil
	}

	p := tea.NewProgram(NewModel(), tea.WithOutput(ui.ErrWriter))

	ctrl := &ProgressController{
		ui:      ui,
		program: p,
		done:    make(chan struct{}),
	}

	go func() {
		// Progress is cosmetic; a failed program only loses the display
		_, _ = p.Run()
		close(ctrl.done)
	}()

	return ctrl
}

// SetStage updates the current stage
func (pc *ProgressController) SetStage(stage Stage) {
	if pc != nil && pc.program != nil {
		pc.program.Send(StageMsg(stage))
	}
}

// SetOperation updates the current operation description
func (pc *ProgressController) SetOperation(op string) {
	if pc != nil && pc.program != nil {
		pc.program.Send(OperationMsg(op))
	}
}

// SetItemCount sets the number of items to score
func (pc *ProgressController) SetItemCount(count int) {
	if pc != nil && pc.program != nil {
		pc.program.Send(ItemCountMsg(count))
	}
}

// ItemStart indicates an item is being scored
func (pc *ProgressController) ItemStart(name string) {
	if pc != nil && pc.program != nil {
		pc.program.Send(ItemStartMsg(fmt.Sprintf("Scoring %s...", name)))
	}
}

// ItemDone reports a scored item's tier and composite
func (pc *ProgressController) ItemDone(tier string, composite float64) {
	if pc != nil && pc.program != nil {
		pc.program.Send(ItemDoneMsg{Tier: tier, Composite: composite})
	}
}

// Graded reports the statement's grade ahead of the second opinion
func (pc *ProgressController) Graded(overall float64, grade string) {
	if pc != nil && pc.program != nil {
		pc.program.Send(GradedMsg{Overall: overall, Grade: grade})
	}
}

// Done signals that all work is complete. It is safe to call more than once.
func (pc *ProgressController) Done(err error) {
	if pc == nil || pc.program == nil {
		return
	}
	select {
	case <-pc.done:
		return
	default:
	}
	pc.program.Send(DoneMsg{Err: err})
	<-pc.done
}
