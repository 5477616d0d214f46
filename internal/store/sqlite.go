package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/x-to-dayone/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id           TEXT PRIMARY KEY,
		input        TEXT NOT NULL,
		output       TEXT NOT NULL,
		status       TEXT NOT NULL,
		error        TEXT,
		started_at   TEXT NOT NULL,
		finished_at  TEXT NOT NULL,
		tweets       INTEGER NOT NULL DEFAULT 0,
		entries      INTEGER NOT NULL DEFAULT 0,
		photos       INTEGER NOT NULL DEFAULT 0,
		videos       INTEGER NOT NULL DEFAULT 0,
		output_bytes INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);

	CREATE TABLE IF NOT EXISTS run_warnings (
		id       TEXT PRIMARY KEY,
		run_id   TEXT NOT NULL REFERENCES runs(id),
		seq      INTEGER NOT NULL,
		tweet_id TEXT NOT NULL,
		url      TEXT NOT NULL,
		message  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_warnings_run ON run_warnings(run_id);

	CREATE TABLE IF NOT EXISTS run_media (
		id       TEXT PRIMARY KEY,
		run_id   TEXT NOT NULL REFERENCES runs(id),
		seq      INTEGER NOT NULL,
		md5      TEXT NOT NULL,
		type     TEXT NOT NULL,
		bytes    INTEGER NOT NULL,
		tweet_id TEXT NOT NULL,
		source   TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_media_run ON run_media(run_id);
	CREATE INDEX IF NOT EXISTS idx_media_md5 ON run_media(md5);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) RecordRun(ctx context.Context, r model.Run) error {
	if r.ID == "" {
		r.ID = s.newID()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var errText *string
	if r.Error != "" {
		errText = &r.Error
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, input, output, status, error, started_at, finished_at,
		                   tweets, entries, photos, videos, output_bytes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Input, r.Output, r.Status, errText,
		r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.UTC().Format(time.RFC3339),
		r.Tweets, r.Entries, r.Photos, r.Videos, r.OutputBytes)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, w := range r.Warnings {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_warnings (id, run_id, seq, tweet_id, url, message)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.newID(), r.ID, i, w.TweetID, w.URL, w.Message)
		if err != nil {
			return fmt.Errorf("insert warning: %w", err)
		}
	}

	for i, m := range r.Media {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_media (id, run_id, seq, md5, type, bytes, tweet_id, source)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.newID(), r.ID, i, m.MD5, m.Type, m.Bytes, m.TweetID, m.Source)
		if err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
	}

	return tx.Commit()
}

const runColumns = `id, input, output, status, error, started_at, finished_at,
	tweets, entries, photos, videos, output_bytes`

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	if r.Warnings, err = s.Warnings(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT md5, type, bytes, tweet_id, source FROM run_media WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m model.StagedMedia
		if err := rows.Scan(&m.MD5, &m.Type, &m.Bytes, &m.TweetID, &m.Source); err != nil {
			return nil, err
		}
		r.Media = append(r.Media, m)
	}
	return &r, rows.Err()
}

func (s *SQLiteStore) ListRuns(ctx context.Context, p ListParams) ([]model.Run, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	var args []interface{}
	if p.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, p.Status)
	}
	query += ` ORDER BY started_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Warnings(ctx context.Context, runID string) ([]model.MediaWarning, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tweet_id, url, message FROM run_warnings WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var warnings []model.MediaWarning
	for rows.Next() {
		var w model.MediaWarning
		if err := rows.Scan(&w.TweetID, &w.URL, &w.Message); err != nil {
			return nil, err
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (model.Run, error) {
	var r model.Run
	var errText sql.NullString
	var startedAt, finishedAt string

	err := row.Scan(
		&r.ID, &r.Input, &r.Output, &r.Status, &errText, &startedAt, &finishedAt,
		&r.Tweets, &r.Entries, &r.Photos, &r.Videos, &r.OutputBytes,
	)
	if err != nil {
		return r, err
	}

	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	r.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
	if errText.Valid {
		r.Error = errText.String
	}
	return r, nil
}
