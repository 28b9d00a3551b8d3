package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"railcheck/internal/api"
	"railcheck/internal/preflight"
	"railcheck/internal/store"
)

type statusReport struct {
	ConfigPath string             `json:"configPath"`
	APIBind    string             `json:"apiBind"`
	Checks     []preflight.Result `json:"checks"`
	Daemon     *api.DaemonStatus  `json:"daemon,omitempty"`
	DaemonErr  string             `json:"daemonError,omitempty"`
	Stats      store.Stats        `json:"stats"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, plan files, daemon and record status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := statusReport{
				ConfigPath: ctx.configPath,
				APIBind:    cfg.Paths.APIBind,
				Checks:     preflight.RunAll(cmd.Context(), cfg),
			}
			if daemonStatus, err := ctx.fetchDaemonStatus(cmd.Context()); err != nil {
				report.DaemonErr = err.Error()
			} else {
				report.Daemon = daemonStatus
			}
			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open record store: %w", err)
			}
			defer st.Close()
			if report.Stats, err = st.Stats(cmd.Context()); err != nil {
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, report)
			}

			out := newStatusPrinter(cmd.OutOrStdout())
			out.section("Daemon")
			out.line("Config", levelInfo, report.ConfigPath)
			if report.Daemon != nil {
				out.line("Daemon", levelOK, fmt.Sprintf("running (pid %d) on %s", report.Daemon.PID, report.APIBind))
			} else {
				out.line("Daemon", levelWarn, "not running")
			}

			out.section("Files")
			for _, check := range report.Checks {
				out.line(check.Name, passFail(check.Passed), check.Detail)
			}

			out.section("Inspection")
			out.line("Records", levelInfo, strconv.Itoa(report.Stats.Records))
			out.line("Photos", levelInfo, fmt.Sprintf("%d (%s)", report.Stats.Attachments, formatBytes(report.Stats.AttachmentBytes)))
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
