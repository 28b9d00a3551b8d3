package config

const (
	defaultConfigPath     = "~/.config/railcheck/config.toml"
	defaultDataDir        = "~/.local/share/railcheck"
	defaultPlansDir       = "~/.local/share/railcheck/plans"
	defaultExportDir      = "~/.local/share/railcheck/exports"
	defaultLogDir         = "~/.local/share/railcheck/logs"
	defaultAPIBind        = "127.0.0.1:7490"
	defaultDebounceMS     = 120
	defaultHighlightClass = "hl"
	defaultFilePrefix     = "Inspection_TGV"
	defaultSheetName      = "Remarques"
	defaultPhotosDir      = "photos"
	defaultMaxBytes       = 20 << 20
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3
)

var defaultAllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/heic"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			PlansDir:  defaultPlansDir,
			ExportDir: defaultExportDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Overlay: Overlay{
			DebounceMS:     defaultDebounceMS,
			HighlightClass: defaultHighlightClass,
		},
		Export: Export{
			FilePrefix: defaultFilePrefix,
			SheetName:  defaultSheetName,
			PhotosDir:  defaultPhotosDir,
		},
		Attachments: Attachments{
			MaxBytes:     defaultMaxBytes,
			AllowedTypes: append([]string(nil), defaultAllowedTypes...),
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
