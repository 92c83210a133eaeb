package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/jispell/internal/anchor"
)

// AnchorStore is the anchor.Store of one profile.
type AnchorStore struct {
	s       *Store
	profile string
}

var _ anchor.Store = (*AnchorStore)(nil)

// Anchors returns the anchor store for profile.
func (s *Store) Anchors(profile string) *AnchorStore {
	return &AnchorStore{s: s, profile: profile}
}

// Profile returns the profile name.
func (a *AnchorStore) Profile() string {
	return a.profile
}

// Load returns the profile's record, or a zero Record if none is stored.
func (a *AnchorStore) Load(ctx context.Context) (anchor.Record, error) {
	var rec anchor.Record
	err := a.s.db.QueryRowContext(ctx, `
		SELECT fifths, diatonic, frozen FROM anchors WHERE profile = ?
	`, a.profile).Scan(&rec.Fifths, &rec.Diatonic, &rec.Frozen)
	if errors.Is(err, sql.ErrNoRows) {
		return anchor.Record{}, nil
	}
	if err != nil {
		return anchor.Record{}, fmt.Errorf("load anchor %q: %w", a.profile, err)
	}
	return rec, nil
}

// Save upserts the profile's record.
func (a *AnchorStore) Save(ctx context.Context, rec anchor.Record) error {
	_, err := a.s.db.ExecContext(ctx, `
		INSERT INTO anchors (profile, fifths, diatonic, frozen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			fifths = excluded.fifths,
			diatonic = excluded.diatonic,
			frozen = excluded.frozen,
			updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, a.profile, rec.Fifths, rec.Diatonic, rec.Frozen)
	if err != nil {
		return fmt.Errorf("save anchor %q: %w", a.profile, err)
	}
	return nil
}

// Reset deletes the profile's record.
func (a *AnchorStore) Reset(ctx context.Context) error {
	if _, err := a.s.db.ExecContext(ctx, `DELETE FROM anchors WHERE profile = ?`, a.profile); err != nil {
		return fmt.Errorf("reset anchor %q: %w", a.profile, err)
	}
	return nil
}

// ProfileAnchor is one row of the anchors table.
type ProfileAnchor struct {
	Profile   string        `json:"profile"`
	Record    anchor.Record `json:"record"`
	UpdatedAt string        `json:"updated_at"`
}

// ListAnchors returns every stored anchor ordered by profile name.
func (s *Store) ListAnchors(ctx context.Context) ([]ProfileAnchor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT profile, fifths, diatonic, frozen, updated_at
		FROM anchors
		ORDER BY profile COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query anchors: %w", err)
	}
	defer rows.Close()

	out := []ProfileAnchor{}
	for rows.Next() {
		var pa ProfileAnchor
		if err := rows.Scan(&pa.Profile, &pa.Record.Fifths, &pa.Record.Diatonic, &pa.Record.Frozen, &pa.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan anchor: %w", err)
		}
		out = append(out, pa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate anchors: %w", err)
	}
	return out, nil
}
