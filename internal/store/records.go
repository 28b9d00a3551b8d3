package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const recordColumns = "id, inspector, trainset, carriage, level, zone, comment, created_at, updated_at"

// Save inserts a new record and returns it with its id and timestamps set.
// Carriage and level are required; everything else may be empty.
func (s *Store) Save(ctx context.Context, rec Record) (*Record, error) {
	rec.Carriage = strings.TrimSpace(rec.Carriage)
	rec.Level = strings.TrimSpace(rec.Level)
	if rec.Carriage == "" || rec.Level == "" {
		return nil, fmt.Errorf("%w: carriage and level are required", ErrInvalidRecord)
	}
	rec.ID = uuid.NewString()
	now := s.now()
	rec.CreatedAt, rec.UpdatedAt = now, now
	rec.Photos = nil

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		strings.TrimSpace(rec.Inspector),
		strings.TrimSpace(rec.Trainset),
		rec.Carriage,
		rec.Level,
		strings.TrimSpace(rec.Zone),
		rec.Comment,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	return s.Get(ctx, rec.ID)
}

// Get fetches a record with its photo names.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	names, err := s.photoNames(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Photos = names[id]
	return rec, nil
}

// List returns every record in insertion order.
func (s *Store) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	rows.Close()

	names, err := s.photoNames(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		rec.Photos = names[rec.ID]
	}
	return records, nil
}

// UpdateComment replaces a record's comment. The new comment is trimmed and
// must not be empty.
func (s *Store) UpdateComment(ctx context.Context, id, comment string) (*Record, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is empty", ErrInvalidRecord)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET comment = ?, updated_at = ? WHERE id = ?`,
		comment, formatTime(s.now()), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if err := requireAffected(res, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a record and its attachments.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec                    Record
		createdRaw, updatedRaw string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.Inspector,
		&rec.Trainset,
		&rec.Carriage,
		&rec.Level,
		&rec.Zone,
		&rec.Comment,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	rec.CreatedAt = parseTime(createdRaw)
	rec.UpdatedAt = parseTime(updatedRaw)
	return &rec, nil
}

// photoNames maps record ids to their attachment names in upload order. An
// empty recordID loads every record.
func (s *Store) photoNames(ctx context.Context, recordID string) (map[string][]string, error) {
	query := `SELECT record_id, name FROM attachments ORDER BY seq`
	args := []any{}
	if recordID != "" {
		query = `SELECT record_id, name FROM attachments WHERE record_id = ? ORDER BY seq`
		args = append(args, recordID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list photo names: %w", err)
	}
	defer rows.Close()
	names := make(map[string][]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan photo name: %w", err)
		}
		names[id] = append(names[id], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photo names: %w", err)
	}
	return names, nil
}
