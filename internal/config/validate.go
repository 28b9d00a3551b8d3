package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateOverlay(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.PlansDir) == "" {
		return errors.New("paths.plans_dir must be set")
	}
	return nil
}

func (c *Config) validateOverlay() error {
	if c.Overlay.DebounceMS <= 0 {
		return errors.New("overlay.debounce_ms must be positive")
	}
	if strings.ContainsAny(c.Overlay.HighlightClass, " \t\"'<>") {
		return fmt.Errorf("overlay.highlight_class %q must be a single css class name", c.Overlay.HighlightClass)
	}
	return nil
}

func (c *Config) validateExport() error {
	if strings.ContainsAny(c.Export.FilePrefix, `/\`) {
		return errors.New("export.file_prefix must not contain path separators")
	}
	if len([]rune(c.Export.SheetName)) > 31 {
		return errors.New("export.sheet_name must be at most 31 characters")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
