// Package store keeps the grading history of statements in SQLite. Each
// user's submissions are numbered 1, 2, 3... in the order they were saved.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pthm/psgrade/internal/evidence"
	"github.com/pthm/psgrade/internal/feedback"
	"github.com/pthm/psgrade/internal/logger"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned by Get for an unknown user or version
	ErrNotFound = errors.New("statement version not found")

	// ErrNoUser is returned by Save when the user is blank
	ErrNoUser = errors.New("user is required")
)

// Store wraps a SQLite database connection.
type Store struct {
	conn *sql.DB
	path string
}

// Version is one saved submission. Report is only populated by Get.
type Version struct {
	ID         string           `json:"id"`
	User       string           `json:"user"`
	Version    int              `json:"version"`
	Overall    float64          `json:"overall"`
	Grade      string           `json:"grade"`
	University string           `json:"university,omitempty"`
	Course     string           `json:"course,omitempty"`
	Chars      int              `json:"chars"`
	CreatedAt  time.Time        `json:"createdAt"`
	Delta      float64          `json:"delta"`
	Text       string           `json:"text,omitempty"`
	Report     *feedback.Report `json:"report,omitempty"`
}

// Open creates or opens the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer keeps version assignment serialised.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save stores a graded statement as the user's next version. The report is
// given an ID if it has none.
func (s *Store) Save(ctx context.Context, user, text string, target *evidence.Target, report *feedback.Report) (Version, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return Version{}, ErrNoUser
	}
	if report == nil {
		return Version{}, fmt.Errorf("saving statement: nil report")
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	data, err := json.Marshal(report)
	if err != nil {
		return Version{}, fmt.Errorf("encoding report: %w", err)
	}

	v := Version{
		ID:        report.ID,
		User:      user,
		Overall:   report.Overall,
		Grade:     report.Grade,
		Chars:     len([]rune(strings.TrimSpace(text))),
		CreatedAt: time.Now().UTC(),
		Text:      text,
		Report:    report,
	}
	if !target.IsZero() {
		v.University = target.Name
		v.Course = target.Course
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return Version{}, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) + 1 FROM statements WHERE user = ?", user,
	).Scan(&v.Version); err != nil {
		return Version{}, fmt.Errorf("next version: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO statements (id, user, version, text, overall, grade, university, course, chars, report, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.User, v.Version, text, v.Overall, v.Grade, v.University, v.Course, v.Chars, string(data),
		v.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Version{}, fmt.Errorf("inserting statement: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Version{}, fmt.Errorf("commit save: %w", err)
	}

	logger.Named("store").Debug("saved statement",
		zap.String("user", user),
		zap.Int("version", v.Version),
		zap.Float64("overall", v.Overall),
	)
	return v, nil
}

// History returns a user's versions oldest first, without text or report.
// Delta is the change in overall score from the previous version.
func (s *Store) History(ctx context.Context, user string) ([]Version, error) {
	rows, err := s.conn.QueryContext(ctx, `
SELECT id, user, version, overall, grade, university, course, chars, created_at
FROM statements WHERE user = ? ORDER BY version`, strings.TrimSpace(user))
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var versions []Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		if n := len(versions); n > 0 {
			v.Delta = round1(v.Overall - versions[n-1].Overall)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return versions, nil
}

// Get returns one version with its text and decoded report.
func (s *Store) Get(ctx context.Context, user string, version int) (Version, error) {
	row := s.conn.QueryRowContext(ctx, `
SELECT id, user, version, overall, grade, university, course, chars, created_at, text, report
FROM statements WHERE user = ? AND version = ?`, strings.TrimSpace(user), version)

	var (
		v         Version
		createdAt string
		report    string
	)
	err := row.Scan(&v.ID, &v.User, &v.Version, &v.Overall, &v.Grade, &v.University, &v.Course,
		&v.Chars, &createdAt, &v.Text, &report)
	if errors.Is(err, sql.ErrNoRows) {
		return Version{}, ErrNotFound
	}
	if err != nil {
		return Version{}, fmt.Errorf("reading statement: %w", err)
	}

	if v.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Version{}, fmt.Errorf("parsing created_at: %w", err)
	}
	v.Report = &feedback.Report{}
	if err := json.Unmarshal([]byte(report), v.Report); err != nil {
		return Version{}, fmt.Errorf("decoding report: %w", err)
	}
	return v, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVersion(row scanner) (Version, error) {
	var (
		v         Version
		createdAt string
	)
	if err := row.Scan(&v.ID, &v.User, &v.Version, &v.Overall, &v.Grade, &v.University, &v.Course,
		&v.Chars, &createdAt); err != nil {
		return Version{}, fmt.Errorf("scanning statement: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Version{}, fmt.Errorf("parsing created_at: %w", err)
	}
	v.CreatedAt = t
	return v, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
