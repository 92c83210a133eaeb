package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReadSession returns the readings of a session ordered by seq ASC, id ASC.
// limit <= 0 returns all of them.
//
// Returns an empty slice (not nil) if the session has no readings.
func (s *Store) ReadSession(ctx context.Context, session string, limit int) ([]Reading, error) {
	query := `
		SELECT session, profile, seq, frequency_hz, confidence, timestamp, spelling
		FROM readings
		WHERE session = ?
		ORDER BY seq ASC, id ASC
	`
	args := []any{session}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	readings := []Reading{}
	for rows.Next() {
		var r Reading
		var spellingJSON string
		if err := rows.Scan(&r.Session, &r.Profile, &r.Seq, &r.FrequencyHz, &r.Confidence, &r.Timestamp, &spellingJSON); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		r.Spelling, err = unmarshalSpelling(spellingJSON)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}
	return readings, nil
}

// SessionSummary describes one recorded session.
type SessionSummary struct {
	Session     string `json:"session"`
	Profile     string `json:"profile"`
	Readings    int    `json:"readings"`
	Approximate int    `json:"approximate"`
	FirstSeq    int64  `json:"first_seq"`
	LastSeq     int64  `json:"last_seq"`
}

// Sessions lists recorded sessions, oldest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, MIN(profile), COUNT(*), SUM(approximate), MIN(seq), MAX(seq)
		FROM readings
		GROUP BY session
		ORDER BY MIN(id) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []SessionSummary{}
	for rows.Next() {
		var ss SessionSummary
		if err := rows.Scan(&ss.Session, &ss.Profile, &ss.Readings, &ss.Approximate, &ss.FirstSeq, &ss.LastSeq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, ss)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// LatestSession returns the session of the most recent reading, or "" if
// the log is empty.
func (s *Store) LatestSession(ctx context.Context) (string, error) {
	var session string
	err := s.db.QueryRowContext(ctx, `
		SELECT session FROM readings ORDER BY id DESC LIMIT 1
	`).Scan(&session)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest session: %w", err)
	}
	return session, nil
}
