package store

import (
	"context"
	"os"
)

// Stats holds history database statistics.
type Stats struct {
	DBPath        string        `json:"db_path"`
	DBSizeBytes   int64         `json:"db_size_bytes"`
	TotalRuns     int           `json:"total_runs"`
	TotalEntries  int           `json:"total_entries"`
	TotalWarnings int           `json:"total_warnings"`
	UniqueMedia   int           `json:"unique_media"`
	StagedBytes   int64         `json:"staged_bytes"`
	Statuses      []StatusStats `json:"statuses"`
}

// StatusStats holds per-status run counts.
type StatusStats struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Stats returns history statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(entries), 0) FROM runs`).Scan(&st.TotalRuns, &st.TotalEntries)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_warnings`).Scan(&st.TotalWarnings)
	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT md5), COALESCE(SUM(bytes), 0) FROM run_media`).Scan(&st.UniqueMedia, &st.StagedBytes)

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) AS cnt
		FROM runs GROUP BY status ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ss StatusStats
		rows.Scan(&ss.Status, &ss.Count)
		st.Statuses = append(st.Statuses, ss)
	}

	return st, nil
}
