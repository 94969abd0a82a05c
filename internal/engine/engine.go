// Package engine is the scoring entry point: evidence scoring, feature
// extraction, filler penalties and full statement evaluation over one
// immutable rubric. An Engine has no mutable state and is safe for
// concurrent use.
package engine

import (
	"github.com/pthm/psgrade/internal/criteria"
	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/features"
	"github.com/pthm/psgrade/internal/feedback"
	"github.com/pthm/psgrade/internal/filler"
	"github.com/pthm/psgrade/internal/rubric"
)

// ErrTooShort is returned by EvaluateStatement for statements below
// criteria.MinLength characters
var ErrTooShort = criteria.ErrTooShort

// ErrInvalidEvidenceType is returned by ValidateEvidence for unknown kinds
var ErrInvalidEvidenceType = evidence.ErrInvalidEvidenceType

// Engine bundles the scoring components built from one rubric
type Engine struct {
	rubric    *rubric.Rubric
	scorer    *evidence.Scorer
	extractor *features.Extractor
	detector  *filler.Detector
	evaluator *criteria.Evaluator
	composer  *feedback.Composer
}

// New creates an engine for r
func New(r *rubric.Rubric) *Engine {
	return &Engine{
		rubric:    r,
		scorer:    evidence.New(r),
		extractor: features.New(r),
		detector:  filler.New(r),
		evaluator: criteria.New(r),
		composer:  feedback.New(),
	}
}

var defaultEngine = New(rubric.Default())

// Default returns the engine for the built-in rubric
func Default() *Engine {
	return defaultEngine
}

// Rubric returns the rubric the engine was built from
func (e *Engine) Rubric() *rubric.Rubric {
	return e.rubric
}

// ScoreEvidence scores one evidence item. target may be nil.
func (e *Engine) ScoreEvidence(item evidence.Item, target *evidence.Target) evidence.Score {
	return e.scorer.Score(item, target)
}

// RankEvidence scores items and orders them best first
func (e *Engine) RankEvidence(items []evidence.Item, target *evidence.Target) []evidence.Ranked {
	return e.scorer.Rank(items, target)
}

// RankEvidenceEach is RankEvidence with a callback per scored item
func (e *Engine) RankEvidenceEach(items []evidence.Item, target *evidence.Target, scored func(evidence.Ranked)) []evidence.Ranked {
	return e.scorer.RankEach(items, target, scored)
}

// ValidateEvidence reports an unknown evidence kind
func (e *Engine) ValidateEvidence(item evidence.Item) error {
	return evidence.Validate(item)
}

// ExtractFeatures extracts the feature set of text
func (e *Engine) ExtractFeatures(text string) features.FeatureSet {
	return e.extractor.Extract(text)
}

// ComputeFillerPenalty returns the capped filler penalty of text
func (e *Engine) ComputeFillerPenalty(text string) float64 {
	return e.detector.Penalty(text)
}

// AnalyzeFiller returns the filler penalty with every matching increment
func (e *Engine) AnalyzeFiller(text string) filler.Result {
	return e.detector.Analyze(text)
}

// EvaluateStatement scores text against the criteria and composes the
// feedback report. It returns ErrTooShort for statements that are too short
// to score.
func (e *Engine) EvaluateStatement(text string, items []evidence.Item, target *evidence.Target) (*feedback.Report, error) {
	res, err := e.evaluator.Evaluate(text, items, target)
	if err != nil {
		return nil, err
	}
	return e.composer.Compose(res, res.Features, target), nil
}
