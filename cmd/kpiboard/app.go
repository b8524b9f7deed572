package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/artur-t-96/MINDY/internal/advisor"
	v1 "github.com/artur-t-96/MINDY/internal/api/v1"
	"github.com/artur-t-96/MINDY/internal/calculator"
	"github.com/artur-t-96/MINDY/internal/config"
	"github.com/artur-t-96/MINDY/internal/exporter"
	"github.com/artur-t-96/MINDY/internal/importer"
	"github.com/artur-t-96/MINDY/internal/parser"
	"github.com/artur-t-96/MINDY/internal/server"
	"github.com/artur-t-96/MINDY/internal/store"
	"github.com/artur-t-96/MINDY/internal/util"
	"github.com/artur-t-96/MINDY/internal/watcher"
)

// app wires configuration, storage and services for each command.
type app struct{}

// services holds the collaborators built from one configuration.
type services struct {
	cfg     *config.AppConfig
	logger  *log.Logger
	store   *store.Store
	calc    *calculator.Calculator
	coord   *importer.Coordinator
	advisor *advisor.Advisor
	dataDir string
}

func newLogger(cfg config.LogConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "kpiboard",
	})
	if lvl, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(lvl)
	}
	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		logger.SetFormatter(log.LogfmtFormatter)
	}
	return logger
}

// build loads the configuration (after apply) and opens the store.
func build(cfgPath string, apply func(*config.AppConfig, config.LoadConfigInfo)) (*services, error) {
	cfg, info, err := config.LoadConfigWithInfo(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", info.Path, err)
	}
	if apply != nil {
		apply(cfg, info)
	}
	logger := newLogger(cfg.Log)
	if !info.FileFound {
		logger.Debug("no config file, using defaults", "path", info.Path)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.New(config.DBPath(cfg))
	if err != nil {
		return nil, err
	}

	narrator := advisor.NewGenerator(cfg.Narrative.APIKey, cfg.Narrative.Model, cfg.Narrative.MaxTokens)
	interpreter := advisor.NewGenerator(cfg.Narrative.APIKey, cfg.Narrative.Model, cfg.Import.InterpretMaxTokens)

	strategies := []parser.Strategy{parser.NewFixedStrategy(), parser.NewAssistedStrategy(interpreter)}
	if cfg.Import.Strategy == "assisted" {
		strategies[0], strategies[1] = strategies[1], strategies[0]
	}

	calc := calculator.NewCalculator(st)
	return &services{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		calc:    calc,
		coord:   importer.NewCoordinator(st, logger, strategies...),
		advisor: advisor.New(st, calc, narrator, logger, time.Duration(cfg.Narrative.TimeoutSeconds)*time.Second),
		dataDir: dataDir,
	}, nil
}

func (rt *services) close() {
	if err := rt.store.Close(); err != nil {
		rt.logger.Warn("failed to close database", "err", err)
	}
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *app) Serve(ctx context.Context, opts ServeOptions) error {
	rt, err := build(opts.ConfigPath, func(cfg *config.AppConfig, info config.LoadConfigInfo) {
		if opts.Port > 0 && !info.PortSpecified {
			cfg.Server.Port = opts.Port
		}
		if opts.DevMode {
			cfg.Server.DevMode = true
		}
		if opts.DataDir != "" {
			cfg.Data.DataDir = opts.DataDir
		}
		if opts.NoBrowser {
			cfg.Server.OpenBrowser = false
		}
	})
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.cfg.Auth.AdminPassword == "" {
		rt.logger.Warn("no admin password configured: uploads and admin routes are disabled")
	}
	if !rt.advisor.Available() {
		rt.logger.Info("no API key: narratives use the local summary and the assisted strategy is unavailable")
	}

	api := v1.NewHandler(v1.Options{
		Store:         rt.store,
		Calculator:    rt.calc,
		Coordinator:   rt.coord,
		Advisor:       rt.advisor,
		Logger:        rt.logger,
		AdminPassword: rt.cfg.Auth.AdminPassword,
		UploadDir:     config.GetDataPath(rt.cfg, "uploads", ""),
		MaxUpload:     rt.cfg.MaxUploadBytes(),
		Strategy:      rt.cfg.Import.Strategy,
	})
	srv := server.NewServer(rt.cfg, api, rt.logger)

	url := fmt.Sprintf("http://localhost:%d", rt.cfg.Server.Port)
	rt.logger.Info("starting", "url", url, "data", rt.dataDir)
	if rt.cfg.Server.OpenBrowser && !rt.cfg.Server.DevMode {
		go func() {
			time.Sleep(300 * time.Millisecond)
			if err := util.OpenBrowserWithFallback(url); err != nil {
				rt.logger.Warn("could not open a browser", "url", url, "err", err)
			}
		}()
	}
	return srv.Run(ctx, fmt.Sprintf(":%d", rt.cfg.Server.Port))
}

// Import imports files from the command line.
func (a *app) Import(ctx context.Context, cfgPath, panelName, strategy string, files []string) error {
	panel, ok := parser.ParsePanel(panelName)
	if !ok {
		return fmt.Errorf("unknown panel %q", panelName)
	}
	rt, err := build(cfgPath, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	sources := make([]parser.Source, len(files))
	for i, f := range files {
		if _, err := os.Stat(f); err != nil {
			return err
		}
		sources[i] = parser.Source{Path: f, Name: f}
	}

	report, err := rt.coord.Import(ctx, importer.ImportOptions{
		Sources:  sources,
		Panel:    panel,
		Strategy: strategy,
		Progress: func(e importer.ProgressEvent) {
			rt.logger.Debug(e.Message, "event", e.Type)
		},
	})
	if report != nil {
		for _, w := range report.Warnings {
			rt.logger.Warn(w)
		}
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s\nimported %d records, periods: %s\n", report.Summary, report.Imported, strings.Join(report.Periods, ", "))
	return nil
}

// Watch imports files dropped into the inbox until ctx is cancelled.
func (a *app) Watch(ctx context.Context, cfgPath, dir, panelName string) error {
	rt, err := build(cfgPath, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	if panelName == "" {
		panelName = rt.cfg.Import.WatchPanel
	}
	panel, ok := parser.ParsePanel(panelName)
	if !ok {
		return fmt.Errorf("unknown panel %q", panelName)
	}
	if dir == "" {
		dir = config.GetDataPath(rt.cfg, "inbox", "")
	}

	inbox, err := watcher.NewInbox(dir, panel, rt.cfg.Import.Strategy, rt.coord, rt.logger)
	if err != nil {
		return err
	}
	if err := inbox.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Export writes one dashboard to an xlsx file.
func (a *app) Export(ctx context.Context, opts ExportOptions) error {
	rt, err := build(opts.ConfigPath, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	eo := exporter.ExportOptions{Dashboard: opts.Dashboard, Year: opts.Year, Week: opts.Week, Month: opts.Month}
	if opts.Dashboard == exporter.DashboardBoard {
		now := time.Now()
		if eo.Year == 0 {
			eo.Year = now.Year()
		}
		if eo.Month == 0 {
			eo.Month = int(now.Month())
		}
	} else {
		cur := rt.calc.DefaultWeek()
		if eo.Year == 0 {
			eo.Year = cur.Year
		}
		if eo.Week == 0 {
			eo.Week = cur.Week
		}
	}
	eo.Progress = func(e exporter.ProgressEvent) {
		rt.logger.Debug("export", "stage", e.Stage, "sheet", e.Sheet, "percent", e.Percent)
	}

	f, err := exporter.NewExporter(rt.calc).Export(ctx, eo)
	if err != nil {
		return err
	}
	defer f.Close()

	out := opts.Out
	if out == "" {
		out = exporter.FileName(eo)
	}
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("failed to save %s: %w", out, err)
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

// Migrate applies pending migrations.
func (a *app) Migrate(ctx context.Context, cfgPath string) error {
	rt, err := build(cfgPath, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	version, err := rt.store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("schema version %d (latest %d)\n", version, store.LatestSchemaVersion())
	return nil
}
