package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"railcheck/internal/textutil"
)

const attachmentColumns = "id, record_id, name, content_type, size, data, created_at"

// SaveAttachment stores a photo for an existing record. The file name is
// sanitized; size limits are enforced by callers.
func (s *Store) SaveAttachment(ctx context.Context, recordID, name, contentType string, data []byte) (*Attachment, error) {
	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM records WHERE id = ?`, recordID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check record: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("record %s: %w", recordID, ErrNotFound)
	}
	if data == nil {
		data = []byte{}
	}

	att := &Attachment{
		ID:          uuid.NewString(),
		RecordID:    recordID,
		Name:        textutil.SanitizeFileName(name),
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   s.now(),
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO attachments (`+attachmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		att.ID, att.RecordID, att.Name, att.ContentType, att.Size, data, formatTime(att.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert attachment: %w", err)
	}
	return att, nil
}

// ListAttachments returns a record's photos, data included, in upload order.
func (s *Store) ListAttachments(ctx context.Context, recordID string) ([]*Attachment, error) {
	return s.queryAttachments(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE record_id = ? ORDER BY seq`, recordID)
}

// AllAttachments returns every photo ordered by record, then upload order.
func (s *Store) AllAttachments(ctx context.Context) ([]*Attachment, error) {
	return s.queryAttachments(ctx, `SELECT a.id, a.record_id, a.name, a.content_type, a.size, a.data, a.created_at
        FROM attachments a JOIN records r ON r.id = a.record_id
        ORDER BY r.seq, a.seq`)
}

// DeleteAttachments removes every photo of a record and reports how many
// were removed.
func (s *Store) DeleteAttachments(ctx context.Context, recordID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attachments WHERE record_id = ?`, recordID)
	if err != nil {
		return 0, fmt.Errorf("delete attachments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (s *Store) queryAttachments(ctx context.Context, query string, args ...any) ([]*Attachment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var out []*Attachment
	for rows.Next() {
		var (
			att        Attachment
			createdRaw string
		)
		if err := rows.Scan(&att.ID, &att.RecordID, &att.Name, &att.ContentType, &att.Size, &att.Data, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		att.CreatedAt = parseTime(createdRaw)
		out = append(out, &att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return out, nil
}
