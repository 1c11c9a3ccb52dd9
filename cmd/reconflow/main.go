// cmd/reconflow/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"reconflow/internal/adapters/output"
	"reconflow/internal/core/domain"
	"reconflow/internal/core/usecases"
	"reconflow/internal/planner"
	"reconflow/internal/platform/cache"
	"reconflow/internal/platform/config"
	"reconflow/internal/platform/httpclient"
	"reconflow/internal/platform/logx"
	"reconflow/internal/platform/registry"
	"reconflow/internal/platform/ui"
	"reconflow/internal/tools"
)

var (
	// Set with -ldflags at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const cacheCapacity = 512

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// 1. Load centralized config
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		return 2
	}

	if cfg.PrintVersion {
		fmt.Printf("reconflow %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: reconflow -t <domain|ip>")
		fmt.Fprintln(os.Stderr, "Try: reconflow -h for help")
		return 2
	}

	// 2. Shared logger
	logger := logx.NewWithLevel(logx.ParseLevel(cfg.LogLevel))

	logger.Info("ReconFlow starting",
		"version", version,
		"target", cfg.Target,
		"workflow", cfg.Workflow,
	)

	// 3. Context and signals for clean shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Validate and build the target
	target, err := domain.NewTarget(cfg.Target)
	if err != nil {
		logger.Err(err, "phase", "validation")
		return 2
	}

	// 5. Resolve the workflow policy (builtin or file, minus disabled tools)
	policy, err := config.ResolvePolicy(cfg)
	if err != nil {
		logger.Err(err, "phase", "policy")
		return 2
	}

	// 6. Register tool adapters and result normalizers
	httpCfg := httpclient.DefaultConfig()
	if cfg.HTTPTimeout > 0 {
		httpCfg.Timeout = cfg.HTTPTimeout
	}
	httpClient := httpclient.New(httpCfg, logger)

	reg := registry.NewToolRegistry(logger)
	agg := usecases.NewAggregator(logger)
	if err := tools.RegisterAll(reg, agg, tools.Deps{
		Logger:    logger,
		HTTP:      httpClient,
		Resolver:  cfg.DNSResolver,
		OutputDir: cfg.OutputDir,
	}); err != nil {
		logger.Err(err, "phase", "tool-registration")
		return 2
	}
	reg.Freeze()

	// Ensure tool cleanup (headless browser and friends) on exit
	defer func() {
		if err := reg.Close(); err != nil {
			logger.Warn("tool cleanup failed", "error", err.Error())
		}
	}()

	logger.Info("tools registered", "count", len(reg.List()))

	// 7. Presenter: rich terminal output unless the table is disabled
	var presenter ui.Presenter = ui.NewPTermPresenter()
	if cfg.TableDisabled {
		presenter = ui.NewNoopPresenter()
	}

	// 8. Wire the scheduler
	scheduler, err := usecases.NewScheduler(usecases.SchedulerOptions{
		Registry:   reg,
		Planner:    planner.NewStatic(),
		Policy:     policy,
		Cache:      cache.NewMemoryStore(cacheCapacity),
		Aggregator: agg,
		Presenter:  presenter,
		Logger:     logger,
	})
	if err != nil {
		logger.Err(err, "phase", "scheduler-build")
		return 2
	}

	// 9. Execute the workflow
	start := time.Now()
	report, runErr := scheduler.Run(ctx, target)
	elapsed := time.Since(start)

	if runErr != nil {
		logger.Err(runErr, "phase", "run", "elapsed_ms", elapsed.Milliseconds())
		// Partial reports are still written below
	}

	if report == nil {
		return 1
	}

	// 10. Write outputs
	reportPath, outErr := writeOutputs(cfg, report)
	if outErr != nil {
		logger.Err(outErr, "phase", "output")
		return 1
	}

	// 11. Summary
	logger.Info("ReconFlow finished",
		"elapsed_ms", elapsed.Milliseconds(),
		"findings", len(report.Findings),
		"score", report.Score,
		"complete", report.Complete,
		"report", reportPath,
	)

	if runErr != nil || !report.Complete {
		return 1
	}
	return 0
}

// writeOutputs emits the JSON report file and, unless disabled, the
// terminal table. Keeping this out of run makes new formats easy to add.
func writeOutputs(cfg config.Config, report *domain.Report) (string, error) {
	path, err := output.NewJSON().WriteFile(cfg.OutputDir, report)
	if err != nil {
		return "", fmt.Errorf("json output: %w", err)
	}

	if !cfg.TableDisabled {
		if err := output.NewTable().Write(report, os.Stdout); err != nil {
			return path, fmt.Errorf("table output: %w", err)
		}
	}

	return path, nil
}
