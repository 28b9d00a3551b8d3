package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GetProfile returns the saved inspector profile, or an empty one.
func (s *Store) GetProfile(ctx context.Context) (Profile, error) {
	var (
		p          Profile
		updatedRaw string
	)
	err := s.db.QueryRowContext(ctx, `SELECT inspector, trainset, updated_at FROM profile WHERE id = 1`).
		Scan(&p.Inspector, &p.Trainset, &updatedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.UpdatedAt = parseTime(updatedRaw)
	return p, nil
}

// SetProfile saves the inspector first name and train set number.
func (s *Store) SetProfile(ctx context.Context, p Profile) (Profile, error) {
	p.Inspector = strings.TrimSpace(p.Inspector)
	p.Trainset = strings.TrimSpace(p.Trainset)
	p.UpdatedAt = s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profile (id, inspector, trainset, updated_at) VALUES (1, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET inspector = excluded.inspector, trainset = excluded.trainset, updated_at = excluded.updated_at`,
		p.Inspector, p.Trainset, formatTime(p.UpdatedAt),
	)
	if err != nil {
		return Profile{}, fmt.Errorf("set profile: %w", err)
	}
	return p, nil
}
