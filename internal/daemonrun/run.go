package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"railcheck/internal/config"
	"railcheck/internal/daemon"
	"railcheck/internal/logging"
	"railcheck/internal/overlay"
	"railcheck/internal/plans"
	"railcheck/internal/preflight"
	"railcheck/internal/store"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
	// Development forces debug logging, which includes source locations.
	Development bool
}

// Run starts the railcheck daemon and blocks until cmdCtx is cancelled or the
// process receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logCfg := *cfg
	if strings.TrimSpace(opts.LogLevel) != "" {
		logCfg.Logging.Level = opts.LogLevel
	}
	if opts.Development {
		logCfg.Logging.Level = "debug"
	}
	logger, closeLogs, err := logging.NewFromConfig(&logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLogs()
	logger = logger.With(logging.String("run_id", uuid.NewString()))

	logPreflight(signalCtx, logger, cfg)

	pidPath := filepath.Join(cfg.Paths.DataDir, "railcheckd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open record store", logging.Error(err))
		return err
	}

	builder := overlay.NewBuilder(
		overlay.WithHighlightClass(cfg.Overlay.HighlightClass),
		overlay.WithLogger(logger),
	)
	lib, err := plans.Open(cfg.Paths.PlansDir, builder, logger)
	if err != nil {
		st.Close()
		return fmt.Errorf("open plans: %w", err)
	}

	d, err := daemon.New(cfg, st, lib, logger)
	if err != nil {
		st.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logging.WarnWithContext(logger, "daemon start failed", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check api_bind and that no other railcheckd is running"),
			logging.String(logging.FieldImpact, "checklist is not being served"),
		)
		return err
	}

	<-signalCtx.Done()
	logger.Info("railcheck daemon shutting down")
	return nil
}

func logPreflight(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	for _, res := range preflight.RunAll(ctx, cfg) {
		if res.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", res.Name),
				logging.String("detail", res.Detail),
			)
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", res.Name),
			logging.String("detail", res.Detail),
			logging.String(logging.FieldErrorHint, "run railcheck config init and copy plan images into the plans directory"),
		)
	}
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
