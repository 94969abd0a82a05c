package reporter

import (
	"io"

	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/features"
	"github.com/pthm/psgrade/internal/feedback"
	"github.com/pthm/psgrade/internal/filler"
	"github.com/pthm/psgrade/internal/review"
	"github.com/pthm/psgrade/internal/store"
	"github.com/pthm/psgrade/internal/ui"
)

// Reporter defines the interface for outputting grading results
type Reporter interface {
	// Statement outputs a statement report. opinion may be nil.
	Statement(report *feedback.Report, opinion *review.Opinion) error

	// Evidence outputs ranked evidence scores
	Evidence(ranked []evidence.Ranked) error

	// Check outputs the live feature and filler scan
	Check(fs features.FeatureSet, fr filler.Result) error

	// History outputs a user's saved versions
	History(user string, versions []store.Version) error
}

// New returns the reporter for the UI's output mode
func New(w io.Writer, u *ui.UI) Reporter {
	if u.IsJSON() {
		return NewJSONReporter(w)
	}
	return NewTerminalReporter(w, u)
}

// Summary holds priority counts for a statement report
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
}

// ComputeSummary counts priorities by severity
func ComputeSummary(priorities []feedback.Priority) Summary {
	s := Summary{Total: len(priorities)}
	for _, p := range priorities {
		switch p.Severity {
		case feedback.Critical:
			s.Critical++
		case feedback.High:
			s.High++
		case feedback.Medium:
			s.Medium++
		}
	}
	return s
}

// TierCounts counts ranked evidence by tier, skipping empty tiers
func TierCounts(ranked []evidence.Ranked) map[string]int {
	counts := make(map[string]int)
	for _, r := range ranked {
		counts[r.Score.Tier.String()]++
	}
	return counts
}
