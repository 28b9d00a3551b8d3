package preflight

import (
	"context"

	"railcheck/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config.
func RunAll(_ context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckReadableDirectory("Plans directory", cfg.Paths.PlansDir),
		CheckFile("Region maps", cfg.MapsPath()),
	}
}

// Failures returns the details of failed results.
func Failures(results []Result) []string {
	var out []string
	for _, r := range results {
		if !r.Passed {
			out = append(out, r.Name+": "+r.Detail)
		}
	}
	return out
}
