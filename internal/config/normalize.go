package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOverlay()
	c.normalizeExport()
	c.normalizeAttachments()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PlansDir) == "" {
		c.Paths.PlansDir = defaultPlansDir
	}
	if c.Paths.PlansDir, err = expandPath(c.Paths.PlansDir); err != nil {
		return fmt.Errorf("paths.plans_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	return nil
}

func (c *Config) normalizeOverlay() {
	if c.Overlay.DebounceMS <= 0 {
		c.Overlay.DebounceMS = defaultDebounceMS
	}
	c.Overlay.HighlightClass = strings.TrimSpace(c.Overlay.HighlightClass)
	if c.Overlay.HighlightClass == "" {
		c.Overlay.HighlightClass = defaultHighlightClass
	}
}

func (c *Config) normalizeExport() {
	c.Export.FilePrefix = strings.TrimSpace(c.Export.FilePrefix)
	if c.Export.FilePrefix == "" {
		c.Export.FilePrefix = defaultFilePrefix
	}
	c.Export.SheetName = strings.TrimSpace(c.Export.SheetName)
	if c.Export.SheetName == "" {
		c.Export.SheetName = defaultSheetName
	}
	c.Export.PhotosDir = strings.Trim(strings.TrimSpace(c.Export.PhotosDir), "/")
	if c.Export.PhotosDir == "" {
		c.Export.PhotosDir = defaultPhotosDir
	}
}

func (c *Config) normalizeAttachments() {
	if c.Attachments.MaxBytes <= 0 {
		c.Attachments.MaxBytes = defaultMaxBytes
	}
	types := make([]string, 0, len(c.Attachments.AllowedTypes))
	seen := make(map[string]struct{}, len(c.Attachments.AllowedTypes))
	for _, value := range c.Attachments.AllowedTypes {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		types = append(types, normalized)
	}
	c.Attachments.AllowedTypes = types
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
}
