// Package review asks a language model for an advisory second opinion on a
// graded statement. Opinions never change the deterministic score.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pthm/psgrade/internal/feedback"
)

// Reviewer produces a second opinion on a statement and its report
type Reviewer interface {
	// Name identifies the backend
	Name() string

	Review(ctx context.Context, text string, report *feedback.Report) (*Opinion, error)
}

// Opinion is the model's structured reply
type Opinion struct {
	Summary     string       `json:"summary"`
	Agreement   string       `json:"agreement"`
	Strengths   []string     `json:"strengths"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggestion is one model-proposed change
type Suggestion struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Quote    string `json:"quote,omitempty"`
	Rewrite  string `json:"rewrite,omitempty"`
}

// Backends
const (
	BackendAPI = "api"
	BackendCLI = "cli"
)

// New returns the reviewer for backend, or nil when it is unavailable.
func New(backend, model string) Reviewer {
	switch backend {
	case BackendCLI:
		if r := NewCLIReviewer(model); r != nil {
			return r
		}
	case BackendAPI, "":
		if r := NewAPIReviewer(model); r != nil {
			return r
		}
	}
	return nil
}

const maxStatementChars = feedback.StatementLimit + 1000

func buildPrompt(text string, report *feedback.Report) string {
	var sb strings.Builder
	sb.WriteString("You are reviewing a UK university personal statement that an automated rubric has already graded.\n\n")
	if report != nil {
		fmt.Fprintf(&sb, "Rubric result: overall %.1f/10 (grade %s), filler penalty %.2f.\n", report.Overall, report.Grade, report.Penalty)
		for _, c := range report.Criteria {
			if c.Weight == 0 {
				continue
			}
			fmt.Fprintf(&sb, "- %s: %.1f/10\n", c.Label, c.Score)
		}
		if len(report.Priorities) > 0 {
			sb.WriteString("Rubric priorities:\n")
			for _, p := range report.Priorities {
				fmt.Fprintf(&sb, "- [%s] %s\n", p.Severity, p.Title)
			}
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Statement:\n%s\n\n", truncateContent(text, maxStatementChars))
	sb.WriteString(`Provide a JSON response with the following structure:
{
  "summary": "two sentences on the statement as a whole",
  "agreement": "agree|too-harsh|too-generous",
  "strengths": ["..."],
  "suggestions": [
    {
      "severity": "medium|high|critical",
      "message": "what to change",
      "quote": "the sentence it applies to",
      "rewrite": "an improved version of that sentence"
    }
  ]
}

Focus on:
1. Whether the applicant shows intellectual development rather than listing activities
2. Specific, reflective engagement with books, projects and ideas
3. Sentences that could be cut or made concrete

Return ONLY the JSON, no other text.`)
	return sb.String()
}

// parseOpinion decodes model output into an Opinion
func parseOpinion(response string) (*Opinion, error) {
	var op Opinion
	if err := json.Unmarshal([]byte(ExtractJSON(response)), &op); err != nil {
		return nil, fmt.Errorf("failed to parse review response: %w (response: %s)", err, TruncateForError(response))
	}
	return &op, nil
}

// ExtractJSON attempts to extract JSON from a response that might be wrapped in markdown
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "{") {
		return s
	}

	if idx := strings.Index(s, "```json"); idx != -1 {
		start := idx + 7
		if end := strings.Index(s[start:], "```"); end != -1 {
			return strings.TrimSpace(s[start : start+end])
		}
	}

	// Fenced block with any language tag
	if idx := strings.Index(s, "```"); idx != -1 {
		start := idx + 3
		if nlIdx := strings.Index(s[start:], "\n"); nlIdx != -1 {
			start += nlIdx + 1
		}
		if end := strings.Index(s[start:], "```"); end != -1 {
			return strings.TrimSpace(s[start : start+end])
		}
	}

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			return s[start : end+1]
		}
	}

	return s
}

// TruncateForError truncates a string for inclusion in error messages
func TruncateForError(s string) string {
	if len(s) > 200 {
		return s[:runeBoundary(s, 200)] + "..."
	}
	return s
}

func truncateContent(content string, maxLen int) string {
	if len(content) <= maxLen {
		return content
	}
	return content[:runeBoundary(content, maxLen)] + "\n...[truncated]..."
}

// runeBoundary backs n off to the start of the rune it falls inside
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
