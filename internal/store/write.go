package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/jispell/internal/heji"
)

// Reading is one spelled pitch sample.
type Reading struct {
	Session     string        `json:"session"`
	Profile     string        `json:"profile"`
	Seq         int64         `json:"seq"`
	FrequencyHz float64       `json:"frequency_hz"`
	Confidence  float64       `json:"confidence"`
	Timestamp   float64       `json:"timestamp"`
	Spelling    heji.Spelling `json:"spelling"`
}

// WriteReading appends a reading to the log.
// Uses ON CONFLICT DO NOTHING on (session, seq) for idempotency - writing
// the same sample twice is silently ignored.
func (s *Store) WriteReading(ctx context.Context, r Reading) error {
	spellingJSON, err := marshalSpelling(r.Spelling)
	if err != nil {
		return fmt.Errorf("write reading: %w", err)
	}

	var num, den sql.NullInt64
	if r.Spelling.Ratio != nil {
		num = sql.NullInt64{Int64: r.Spelling.Ratio.Num, Valid: true}
		den = sql.NullInt64{Int64: r.Spelling.Ratio.Den, Valid: true}
	}
	var cents sql.NullFloat64
	if r.Spelling.CentsError != nil {
		cents = sql.NullFloat64{Float64: *r.Spelling.CentsError, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO readings
		(session, profile, seq, frequency_hz, confidence, timestamp, label, ratio_num, ratio_den, cents_error, approximate, spelling)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session, seq) DO NOTHING
	`,
		r.Session,
		r.Profile,
		r.Seq,
		r.FrequencyHz,
		r.Confidence,
		r.Timestamp,
		r.Spelling.Scientific(),
		num,
		den,
		cents,
		r.Spelling.IsApproximate,
		spellingJSON,
	)
	if err != nil {
		return fmt.Errorf("write reading: %w", err)
	}
	return nil
}

// DeleteSession removes every reading of a session.
func (s *Store) DeleteSession(ctx context.Context, session string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM readings WHERE session = ?`, session)
	if err != nil {
		return 0, fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete session: rows affected: %w", err)
	}
	return n, nil
}
