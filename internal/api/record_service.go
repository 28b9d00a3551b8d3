package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"railcheck/internal/catalog"
	"railcheck/internal/config"
	"railcheck/internal/export"
	"railcheck/internal/logging"
	"railcheck/internal/store"
)

var (
	// ErrAttachmentTooLarge reports a photo above attachments.max_bytes.
	ErrAttachmentTooLarge = errors.New("attachment too large")
	// ErrAttachmentType reports a photo whose content type is not allowed.
	ErrAttachmentType = errors.New("attachment type not allowed")
)

// RecordStore abstracts the persistence operations the service needs.
type RecordStore interface {
	Save(ctx context.Context, rec store.Record) (*store.Record, error)
	Get(ctx context.Context, id string) (*store.Record, error)
	List(ctx context.Context) ([]*store.Record, error)
	UpdateComment(ctx context.Context, id, comment string) (*store.Record, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (store.Stats, error)
	SaveAttachment(ctx context.Context, recordID, name, contentType string, data []byte) (*store.Attachment, error)
	ListAttachments(ctx context.Context, recordID string) ([]*store.Attachment, error)
	AllAttachments(ctx context.Context) ([]*store.Attachment, error)
	GetProfile(ctx context.Context) (store.Profile, error)
	SetProfile(ctx context.Context, p store.Profile) (store.Profile, error)
}

// RecordService applies catalog rules and attachment limits on top of a
// RecordStore and returns API DTOs.
type RecordService struct {
	store        RecordStore
	exporter     *export.Exporter
	maxBytes     int64
	allowedTypes []string
	logger       *slog.Logger
	now          func() time.Time
}

// NewRecordService constructs a RecordService configured from cfg.
func NewRecordService(st RecordStore, cfg *config.Config, logger *slog.Logger) *RecordService {
	if st == nil {
		return nil
	}
	logger = logging.NewComponentLogger(logger, "records")
	svc := &RecordService{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
	if cfg != nil {
		svc.exporter = export.New(export.OptionsFromConfig(cfg), logger)
		svc.maxBytes = cfg.Attachments.MaxBytes
		for _, t := range cfg.Attachments.AllowedTypes {
			svc.allowedTypes = append(svc.allowedTypes, strings.ToLower(strings.TrimSpace(t)))
		}
	} else {
		svc.exporter = export.New(export.Options{}, logger)
	}
	return svc
}

// List returns every record in insertion order.
func (s *RecordService) List(ctx context.Context) ([]Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return FromRecords(records), nil
}

// Describe fetches a single record.
func (s *RecordService) Describe(ctx context.Context, id string) (Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return FromRecord(rec), nil
}

// Add validates the selection and saves a new record. Empty inspector and
// train set values are taken from the saved profile.
func (s *RecordService) Add(ctx context.Context, req NewRecordRequest) (Record, error) {
	sel, err := catalog.Selection{}.SelectCarriage(req.Carriage)
	if err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(req.Level) != "" {
		level, err := catalog.ParseLevel(req.Level)
		if err != nil {
			return Record{}, err
		}
		if sel.Level != level {
			if sel, err = sel.SelectLevel(level); err != nil {
				return Record{}, err
			}
		}
	}
	if zone := strings.TrimSpace(req.Zone); zone != "" {
		sel = sel.SelectZone(zone)
	}
	if err := sel.Validate(); err != nil {
		return Record{}, err
	}

	inspector, trainset := strings.TrimSpace(req.Inspector), strings.TrimSpace(req.Trainset)
	if inspector == "" || trainset == "" {
		profile, err := s.store.GetProfile(ctx)
		if err != nil {
			return Record{}, err
		}
		if inspector == "" {
			inspector = profile.Inspector
		}
		if trainset == "" {
			trainset = profile.Trainset
		}
	}

	rec, err := s.store.Save(ctx, store.Record{
		Inspector: inspector,
		Trainset:  trainset,
		Carriage:  sel.Carriage,
		Level:     string(sel.Level),
		Zone:      sel.Zone,
		Comment:   req.Comment,
	})
	if err != nil {
		return Record{}, err
	}
	s.logger.Info("record saved",
		logging.String(logging.FieldRecordID, rec.ID),
		logging.String("title", sel.Title()),
	)
	return FromRecord(rec), nil
}

// UpdateComment replaces the comment of a record.
func (s *RecordService) UpdateComment(ctx context.Context, id, comment string) (Record, error) {
	rec, err := s.store.UpdateComment(ctx, id, comment)
	if err != nil {
		return Record{}, err
	}
	return FromRecord(rec), nil
}

// Delete removes a record and its photos.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("record deleted", logging.String(logging.FieldRecordID, id))
	return nil
}

// Clear removes every record, photo and the saved profile.
func (s *RecordService) Clear(ctx context.Context) (ClearResponse, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return ClearResponse{}, err
	}
	if err := s.store.Clear(ctx); err != nil {
		return ClearResponse{}, err
	}
	s.logger.Info("inspection cleared",
		logging.Int("records", stats.Records),
		logging.Int("attachments", stats.Attachments),
	)
	return ClearResponse{Records: stats.Records, Attachments: stats.Attachments}, nil
}

// Attach stores a photo for a record after checking size and type. An empty
// content type is sniffed from the data.
func (s *RecordService) Attach(ctx context.Context, recordID, name, contentType string, data []byte) (Attachment, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return Attachment{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrAttachmentTooLarge, len(data), s.maxBytes)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if mediaType, _, ok := strings.Cut(contentType, ";"); ok {
		contentType = strings.TrimSpace(mediaType)
	}
	if len(s.allowedTypes) > 0 && !slices.Contains(s.allowedTypes, contentType) {
		return Attachment{}, fmt.Errorf("%w: %s", ErrAttachmentType, contentType)
	}
	att, err := s.store.SaveAttachment(ctx, recordID, name, contentType, data)
	if err != nil {
		return Attachment{}, err
	}
	s.logger.Info("photo attached",
		logging.String(logging.FieldRecordID, recordID),
		logging.String("name", att.Name),
		logging.Int64("bytes", att.Size),
	)
	return FromAttachments([]*store.Attachment{att})[0], nil
}

// Attachments lists a record's photos.
func (s *RecordService) Attachments(ctx context.Context, recordID string) ([]Attachment, error) {
	if _, err := s.store.Get(ctx, recordID); err != nil {
		return nil, err
	}
	atts, err := s.store.ListAttachments(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return FromAttachments(atts), nil
}

// Profile returns the saved inspector profile.
func (s *RecordService) Profile(ctx context.Context) (Profile, error) {
	p, err := s.store.GetProfile(ctx)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Inspector: p.Inspector, Trainset: p.Trainset}, nil
}

// SetProfile saves the inspector profile.
func (s *RecordService) SetProfile(ctx context.Context, p Profile) (Profile, error) {
	saved, err := s.store.SetProfile(ctx, store.Profile{Inspector: p.Inspector, Trainset: p.Trainset})
	if err != nil {
		return Profile{}, err
	}
	return Profile{Inspector: saved.Inspector, Trainset: saved.Trainset}, nil
}

// ArchiveName returns the name an export made now would get.
func (s *RecordService) ArchiveName() string {
	return s.exporter.BaseName(s.now()) + ".zip"
}

// Export streams the inspection archive to w.
func (s *RecordService) Export(ctx context.Context, w io.Writer) (export.Result, error) {
	records, atts, err := s.exportData(ctx)
	if err != nil {
		return export.Result{}, err
	}
	return s.exporter.Bundle(w, records, atts, s.now())
}

// ExportToDir writes the inspection archive into dir.
func (s *RecordService) ExportToDir(ctx context.Context, dir string) (export.Result, error) {
	records, atts, err := s.exportData(ctx)
	if err != nil {
		return export.Result{}, err
	}
	return s.exporter.WriteFile(dir, records, atts, s.now())
}

func (s *RecordService) exportData(ctx context.Context) ([]*store.Record, []*store.Attachment, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, export.ErrNothingToExport
	}
	atts, err := s.store.AllAttachments(ctx)
	if err != nil {
		return nil, nil, err
	}
	return records, atts, nil
}

// Stats returns record and attachment counts.
func (s *RecordService) Stats(ctx context.Context) (store.Stats, error) {
	return s.store.Stats(ctx)
}
