package reporter

import (
	"encoding/json"
	"io"

	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/features"
	"github.com/pthm/psgrade/internal/feedback"
	"github.com/pthm/psgrade/internal/filler"
	"github.com/pthm/psgrade/internal/review"
	"github.com/pthm/psgrade/internal/store"
)

// JSONReporter outputs results as JSON
type JSONReporter struct {
	w io.Writer
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{w: w}
}

// StatementOutput is the JSON form of a statement report
type StatementOutput struct {
	Report  *feedback.Report `json:"report"`
	Summary Summary          `json:"summary"`
	Opinion *review.Opinion  `json:"opinion,omitempty"`
}

// EvidenceOutput is the JSON form of ranked evidence
type EvidenceOutput struct {
	Items []evidence.Ranked `json:"items"`
	Tiers map[string]int    `json:"tiers"`
}

// CheckOutput is the JSON form of a live check
type CheckOutput struct {
	Features features.FeatureSet `json:"features"`
	Filler   filler.Result       `json:"filler"`
}

// HistoryOutput is the JSON form of a user's history
type HistoryOutput struct {
	User     string          `json:"user"`
	Versions []store.Version `json:"versions"`
}

func (r *JSONReporter) Statement(report *feedback.Report, opinion *review.Opinion) error {
	return r.encode(StatementOutput{
		Report:  report,
		Summary: ComputeSummary(report.Priorities),
		Opinion: opinion,
	})
}

func (r *JSONReporter) Evidence(ranked []evidence.Ranked) error {
	if ranked == nil {
		ranked = []evidence.Ranked{}
	}
	return r.encode(EvidenceOutput{Items: ranked, Tiers: TierCounts(ranked)})
}

func (r *JSONReporter) Check(fs features.FeatureSet, fr filler.Result) error {
	return r.encode(CheckOutput{Features: fs, Filler: fr})
}

func (r *JSONReporter) History(user string, versions []store.Version) error {
	if versions == nil {
		versions = []store.Version{}
	}
	return r.encode(HistoryOutput{User: user, Versions: versions})
}

func (r *JSONReporter) encode(v any) error {
	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
