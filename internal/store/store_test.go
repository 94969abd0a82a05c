package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/feedback"
	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func report(overall float64) *feedback.Report {
	return &feedback.Report{
		Overall: overall,
		Grade:   feedback.Grade(overall),
		Priorities: []feedback.Priority{
			{Severity: feedback.Critical, Title: "Activity listing", Detail: "Pick fewer activities"},
		},
	}
}

func TestMigrateNewDB(t *testing.T) {
	s := openTestStore(t)

	version, err := getSchemaVersion(s.conn)
	if err != nil {
		t.Fatalf("getSchemaVersion: %v", err)
	}
	if version != latestVersion() {
		t.Errorf("expected version %d, got %d", latestVersion(), version)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idem.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()

	version, err := getSchemaVersion(s2.conn)
	if err != nil {
		t.Fatalf("getSchemaVersion: %v", err)
	}
	if version != latestVersion() {
		t.Errorf("expected version %d, got %d", latestVersion(), version)
	}
}

func TestMigrateFromVersion1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1.db")

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	tx, err := raw.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if err := migrations[0].Up(tx); err != nil {
		t.Fatalf("migration 1: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	if _, err := raw.Exec("PRAGMA user_version = 1"); err != nil {
		t.Fatal(err)
	}
	raw.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Save(context.Background(), "ada", "text", &evidence.Target{Name: "UCL", Course: "History"}, report(5)); err != nil {
		t.Fatalf("Save after upgrade: %v", err)
	}
}

func TestSave_VersionsPerUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saves := []struct {
		user string
		want int
	}{
		{"ada", 1},
		{"ada", 2},
		{"grace", 1},
		{"ada", 3},
		{"grace", 2},
	}
	for _, tt := range saves {
		v, err := s.Save(ctx, tt.user, "statement", nil, report(5))
		if err != nil {
			t.Fatalf("Save(%q): %v", tt.user, err)
		}
		if v.Version != tt.want {
			t.Errorf("Save(%q).Version = %d, want %d", tt.user, v.Version, tt.want)
		}
		if v.ID == "" {
			t.Errorf("Save(%q) assigned no ID", tt.user)
		}
	}
}

func TestSave_Errors(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Save(ctx, "  ", "text", nil, report(5)); !errors.Is(err, ErrNoUser) {
		t.Errorf("Save(blank user) error = %v, want ErrNoUser", err)
	}
	if _, err := s.Save(ctx, "ada", "text", nil, nil); err == nil {
		t.Error("Save(nil report) should fail")
	}
}

func TestSave_KeepsReportID(t *testing.T) {
	s := openTestStore(t)
	r := report(6)
	r.ID = "fixed-id"

	v, err := s.Save(context.Background(), "ada", "text", nil, r)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if v.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", v.ID)
	}
}

func TestSave_Concurrent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Save(ctx, "ada", "text", nil, report(5)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Save: %v", err)
	}

	history, err := s.History(ctx, "ada")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != n {
		t.Fatalf("len(History) = %d, want %d", len(history), n)
	}
	for i, v := range history {
		if v.Version != i+1 {
			t.Errorf("History[%d].Version = %d, want %d", i, v.Version, i+1)
		}
	}
}

func TestHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, overall := range []float64{4.5, 6.0, 5.5} {
		if _, err := s.Save(ctx, "ada", "statement", &evidence.Target{Name: "LSE", Course: "Economics"}, report(overall)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	history, err := s.History(ctx, "ada")
	if err != nil {
		t.Fatalf("History: %v", err)
	}

	want := []struct {
		overall float64
		delta   float64
	}{
		{4.5, 0},
		{6.0, 1.5},
		{5.5, -0.5},
	}
	if len(history) != len(want) {
		t.Fatalf("len(History) = %d, want %d", len(history), len(want))
	}
	for i, w := range want {
		if history[i].Overall != w.overall || history[i].Delta != w.delta {
			t.Errorf("History[%d] = (%v, %v), want (%v, %v)", i, history[i].Overall, history[i].Delta, w.overall, w.delta)
		}
		if history[i].Report != nil || history[i].Text != "" {
			t.Errorf("History[%d] should not carry text or report", i)
		}
		if history[i].University != "LSE" {
			t.Errorf("History[%d].University = %q, want LSE", i, history[i].University)
		}
	}

	empty, err := s.History(ctx, "nobody")
	if err != nil {
		t.Fatalf("History(nobody): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("History(nobody) = %v, want empty", empty)
	}
}

func TestGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, "ada", "My statement text.", nil, report(7.2))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, "ada", 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != saved.ID || got.Text != "My statement text." || got.Chars != 18 {
		t.Errorf("Get = %+v, want saved version", got)
	}
	if got.Report == nil || got.Report.Grade != "B" {
		t.Fatalf("Get.Report = %+v, want grade B", got.Report)
	}
	if len(got.Report.Priorities) != 1 || got.Report.Priorities[0].Severity != feedback.Critical {
		t.Errorf("Get.Report.Priorities = %+v, want one critical", got.Report.Priorities)
	}

	if _, err := s.Get(ctx, "ada", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.24, 1.2},
		{1.25, 1.3},
		{-0.25, -0.3},
		{-1.04, -1},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round1(tt.in); got != tt.want {
			t.Errorf("round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
