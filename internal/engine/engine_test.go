package engine

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/feedback"
)

const statement = "Reading The Selfish Gene made me question how far evolution can be explained at the level of the gene. " +
	"However, a journal article argued that this view oversimplifies development, and this led me to read further. " +
	"For example, I researched epigenetic inheritance independently.\n\n" +
	"Building on this, I completed an extended project on DNA methylation, which taught me to evaluate evidence."

func TestEvaluateStatement_TooShort(t *testing.T) {
	report, err := Default().EvaluateStatement("Too short to grade.", nil, nil)
	if !errors.Is(err, ErrTooShort) {
		t.Errorf("EvaluateStatement() error = %v, want ErrTooShort", err)
	}
	if report != nil {
		t.Errorf("EvaluateStatement() report = %+v, want nil", report)
	}
}

func TestEvaluateStatement(t *testing.T) {
	target := &evidence.Target{Name: "University of Cambridge", Course: "Natural Sciences (Biology)"}
	items := []evidence.Item{{Kind: evidence.Book, Title: "The Selfish Gene"}}

	report, err := Default().EvaluateStatement(statement, items, target)
	if err != nil {
		t.Fatalf("EvaluateStatement() error: %v", err)
	}
	if report.Overall < 0.5 || report.Overall > 10 {
		t.Errorf("Overall = %v, want within [0.5, 10]", report.Overall)
	}
	if report.Grade != feedback.Grade(report.Overall) {
		t.Errorf("Grade = %q, want %q", report.Grade, feedback.Grade(report.Overall))
	}
	if report.UniversityAdvice == "" {
		t.Error("UniversityAdvice empty with a target")
	}
	if len(report.Criteria) != 8 {
		t.Errorf("len(Criteria) = %d, want 8", len(report.Criteria))
	}
	if report.Features.SubjectDomain != "biology" {
		t.Errorf("SubjectDomain = %q, want biology", report.Features.SubjectDomain)
	}
}

func TestEvaluateStatement_UnquotedBookTitle(t *testing.T) {
	text := "The Selfish Gene changed how I think about evolution. I now wonder how far behaviour can be " +
		"explained at the level of the gene, and I have started to question the examples it relies on."
	items := []evidence.Item{{Kind: evidence.Book, Title: "The Selfish Gene"}}

	report, err := Default().EvaluateStatement(text, items, nil)
	if err != nil {
		t.Fatalf("EvaluateStatement() error: %v", err)
	}
	for _, p := range report.Priorities {
		if p.Title == "Unused evidence" {
			t.Errorf("unexpected priority for a named book: %s", p.Detail)
		}
	}
}

func TestScoreEvidence_Invalid(t *testing.T) {
	e := Default()
	item := evidence.Item{Kind: "video"}

	if got := e.ScoreEvidence(item, nil); got.Tier != evidence.Invalid {
		t.Errorf("Tier = %v, want Invalid", got.Tier)
	}
	if err := e.ValidateEvidence(item); !errors.Is(err, ErrInvalidEvidenceType) {
		t.Errorf("ValidateEvidence() = %v, want ErrInvalidEvidenceType", err)
	}
}

func TestFillerPenalty_LongWithoutExamples(t *testing.T) {
	text := strings.Repeat("The river carved a deep valley through the limestone plateau. ", 20)
	if got := Default().ComputeFillerPenalty(text); got < 0.6 {
		t.Errorf("ComputeFillerPenalty() = %v, want >= 0.6", got)
	}
}

func TestEngine_Referential(t *testing.T) {
	e := Default()
	if !reflect.DeepEqual(e.ExtractFeatures(statement), e.ExtractFeatures(statement)) {
		t.Error("ExtractFeatures() differs between calls")
	}
	if e.ComputeFillerPenalty(statement) != e.AnalyzeFiller(statement).Total {
		t.Error("ComputeFillerPenalty() disagrees with AnalyzeFiller().Total")
	}
}

func TestEngine_Concurrent(t *testing.T) {
	e := Default()
	want, err := e.EvaluateStatement(statement, nil, nil)
	if err != nil {
		t.Fatalf("EvaluateStatement() error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.EvaluateStatement(statement, nil, nil)
			if err != nil {
				errs <- err.Error()
				return
			}
			if !reflect.DeepEqual(got, want) {
				errs <- "report differs from sequential result"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}
