package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"railcheck/internal/config"
	"railcheck/internal/logging"
	"railcheck/internal/store"
	"railcheck/internal/textutil"
)

// ErrNothingToExport is returned when there are no records.
var ErrNothingToExport = errors.New("nothing to export")

// Header is the first spreadsheet row.
var Header = []string{"Prénom", "Rame", "Remorque", "Niveau", "Zone", "Commentaire", "Photos"}

// Options controls archive naming.
type Options struct {
	FilePrefix string
	SheetName  string
	PhotosDir  string
}

// OptionsFromConfig reads the export section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		FilePrefix: cfg.Export.FilePrefix,
		SheetName:  cfg.Export.SheetName,
		PhotosDir:  cfg.Export.PhotosDir,
	}
}

// Result describes a written archive.
type Result struct {
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	Spreadsheet string `json:"spreadsheet"`
	Records     int    `json:"records"`
	Photos      int    `json:"photos"`
	Bytes       int64  `json:"bytes,omitempty"`
}

// Exporter writes inspection archives.
type Exporter struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Exporter {
	if opts.FilePrefix == "" {
		opts.FilePrefix = "Inspection_TGV"
	}
	if opts.SheetName == "" {
		opts.SheetName = "Remarques"
	}
	if opts.PhotosDir == "" {
		opts.PhotosDir = "photos"
	}
	opts.PhotosDir = strings.Trim(opts.PhotosDir, "/")
	return &Exporter{opts: opts, logger: logging.NewComponentLogger(logger, "export")}
}

// BaseName returns the archive name without extension for an export made at
// now, in now's location.
func (e *Exporter) BaseName(now time.Time) string {
	return fmt.Sprintf("%s_%s_%sh%s", e.opts.FilePrefix, now.Format("2006-01-02"), now.Format("15"), now.Format("04"))
}

// Bundle writes the zip archive to w. Attachments whose record is not in
// records are left out.
func (e *Exporter) Bundle(w io.Writer, records []*store.Record, attachments []*store.Attachment, now time.Time) (Result, error) {
	if len(records) == 0 {
		return Result{}, ErrNothingToExport
	}
	base := e.BaseName(now)
	res := Result{
		Name:        base + ".zip",
		Spreadsheet: base + ".xlsx",
		Records:     len(records),
	}

	byRecord := make(map[string][]*store.Attachment)
	for _, att := range attachments {
		byRecord[att.RecordID] = append(byRecord[att.RecordID], att)
	}

	namer := textutil.NewUniqueNamer()
	type photo struct {
		name string
		data []byte
	}
	var photos []photo
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		names := make([]string, 0, len(byRecord[rec.ID]))
		for _, att := range byRecord[rec.ID] {
			name := namer.Next(textutil.SanitizeFileName(att.Name))
			names = append(names, name)
			photos = append(photos, photo{name: name, data: att.Data})
		}
		if len(byRecord[rec.ID]) == 0 {
			names = rec.Photos
		}
		rows = append(rows, []string{
			rec.Inspector,
			rec.Trainset,
			rec.Carriage,
			rec.Level,
			rec.Zone,
			rec.Comment,
			strings.Join(names, ", "),
		})
	}

	zw := zip.NewWriter(w)
	sheetWriter, err := zw.CreateHeader(&zip.FileHeader{Name: res.Spreadsheet, Method: zip.Deflate, Modified: now})
	if err != nil {
		return Result{}, fmt.Errorf("create spreadsheet entry: %w", err)
	}
	if err := e.writeSheet(sheetWriter, rows); err != nil {
		return Result{}, err
	}

	if _, err := zw.CreateHeader(&zip.FileHeader{Name: e.opts.PhotosDir + "/", Modified: now}); err != nil {
		return Result{}, fmt.Errorf("create photos dir: %w", err)
	}
	for _, p := range photos {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.opts.PhotosDir + "/" + p.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return Result{}, fmt.Errorf("create photo entry %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return Result{}, fmt.Errorf("write photo %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return Result{}, fmt.Errorf("finish archive: %w", err)
	}
	res.Photos = len(photos)

	e.logger.Info("inspection exported",
		logging.String(logging.FieldEventType, "export_complete"),
		logging.String("archive", res.Name),
		logging.Int("records", res.Records),
		logging.Int("photos", res.Photos),
	)
	return res, nil
}

func (e *Exporter) writeSheet(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := e.opts.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := setRow(f, sheet, 1, Header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// WriteFile writes the archive into dir and returns its location. A partial
// file is removed on failure.
func (e *Exporter) WriteFile(dir string, records []*store.Record, attachments []*store.Attachment, now time.Time) (Result, error) {
	if len(records) == 0 {
		return Result{}, ErrNothingToExport
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, e.BaseName(now)+".zip")
	file, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("create archive: %w", err)
	}
	res, err := e.Bundle(file, records, attachments, now)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close archive: %w", closeErr)
	}
	if err != nil {
		_ = os.Remove(path)
		return Result{}, err
	}
	res.Path = path
	if info, statErr := os.Stat(path); statErr == nil {
		res.Bytes = info.Size()
	}
	return res, nil
}
