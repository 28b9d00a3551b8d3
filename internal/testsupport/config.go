package testsupport

import (
	"path/filepath"
	"testing"

	"railcheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.PlansDir = filepath.Join(base, "plans")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithPlans writes a maps.html document and plan images of the given sizes
// (keyed by path relative to the plans directory).
func WithPlans(mapsHTML string, images map[string][2]int) ConfigOption {
	return func(b *configBuilder) {
		dir := b.cfg.Paths.PlansDir
		WriteText(b.t, filepath.Join(dir, "maps.html"), mapsHTML)
		for rel, size := range images {
			WritePNG(b.t, filepath.Join(dir, filepath.FromSlash(rel)), size[0], size[1])
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
