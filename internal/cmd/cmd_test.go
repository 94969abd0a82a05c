package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm/psgrade/internal/config"
	"github.com/pthm/psgrade/internal/document"
	"github.com/pthm/psgrade/internal/rubric"
)

func TestTargetFor(t *testing.T) {
	t.Cleanup(func() { university, course = "", "" })

	tests := []struct {
		name       string
		university string
		course     string
		fm         document.Frontmatter
		want       string
	}{
		{"none", "", "", document.Frontmatter{}, ""},
		{"frontmatter", "", "", document.Frontmatter{University: "UCL", Course: "History"}, "UCL/History"},
		{"flag wins", "LSE", "", document.Frontmatter{University: "UCL", Course: "History"}, "LSE/History"},
		{"flags only", "Oxford", "Biology", document.Frontmatter{}, "Oxford/Biology"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			university, course = tt.university, tt.course
			got := targetFor(tt.fm)

			if tt.want == "" {
				if got != nil {
					t.Errorf("targetFor() = %+v, want nil", got)
				}
				return
			}
			if got == nil || got.Name+"/"+got.Course != tt.want {
				t.Errorf("targetFor() = %+v, want %s", got, tt.want)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "b", "c"); got != "b" {
		t.Errorf("firstNonEmpty() = %q, want b", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Errorf("firstNonEmpty() = %q, want empty", got)
	}
}

func TestSummarise(t *testing.T) {
	s := summarise(rubric.Default())

	if len(s.Criteria) != 8 {
		t.Errorf("len(Criteria) = %d, want 8", len(s.Criteria))
	}
	total := 0.0
	for _, c := range s.Criteria {
		total += c.Weight
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("criteria weights sum to %v, want 1", total)
	}
	if s.FillerCap != 3 {
		t.Errorf("FillerCap = %v, want 3", s.FillerCap)
	}
	if len(s.Kinds) != 4 || s.Kinds[0] != "activity" {
		t.Errorf("Kinds = %v, want the four evidence kinds sorted", s.Kinds)
	}
	if s.Lexicon["listing"] == 0 {
		t.Error("Lexicon[listing] = 0, want a populated table")
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"grade", "evidence", "check", "history", "serve", "rules", "version"}
	for _, name := range want {
		found := false
		for _, c := range RootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestLoadEngine_RubricOverlay(t *testing.T) {
	t.Cleanup(func() { cfg = nil })

	tests := []struct {
		name    string
		overlay string
		wantErr string
	}{
		{"filler cap", "filler:\n  cap: 2\n", ""},
		{"unknown signal", "criteria:\n  - name: academicCriteria\n    checks:\n      - {name: x, terms: [{signal: mood}]}\n", "unknown signal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rubric.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg = &config.Config{Rubric: config.RubricConfig{Path: path}}

			eng, err := loadEngine()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("loadEngine() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadEngine() error: %v", err)
			}
			if got := eng.Rubric().Filler.Cap; got != 2 {
				t.Errorf("Filler.Cap = %v, want 2", got)
			}
		})
	}
}
