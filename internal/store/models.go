package store

import (
	"errors"
	"time"
)

var (
	// ErrNotFound reports a record or attachment id that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSchemaMismatch reports a database written by a newer release.
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrInvalidRecord reports a record missing a required field.
	ErrInvalidRecord = errors.New("invalid record")
)

// Record is one remark filed during an inspection.
type Record struct {
	ID        string    `json:"id"`
	Inspector string    `json:"inspector"`
	Trainset  string    `json:"trainset"`
	Carriage  string    `json:"carriage"`
	Level     string    `json:"level"`
	Zone      string    `json:"zone"`
	Comment   string    `json:"comment"`
	Photos    []string  `json:"photos"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attachment is a photo stored alongside a record.
type Attachment struct {
	ID          string    `json:"id"`
	RecordID    string    `json:"record_id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile is the inspector identity kept between sessions.
type Profile struct {
	Inspector string    `json:"inspector"`
	Trainset  string    `json:"trainset"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Stats summarizes the stored data.
type Stats struct {
	Records         int   `json:"records"`
	Attachments     int   `json:"attachments"`
	AttachmentBytes int64 `json:"attachment_bytes"`
}
