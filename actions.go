package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Cortexa-LLC/mcp/src/patentocr/config"
	"github.com/Cortexa-LLC/mcp/src/patentocr/converter"
	"github.com/Cortexa-LLC/mcp/src/patentocr/output"
	"github.com/Cortexa-LLC/mcp/src/patentocr/patent"
	"github.com/Cortexa-LLC/mcp/src/patentocr/pipeline"
)

func newLogger(quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers flags over env over the optional file over defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Load()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet(flagDPI) {
		cfg.DPI = c.Int(flagDPI)
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}
	if c.IsSet(flagEngine) {
		cfg.Engine = c.String(flagEngine)
	}
	if c.IsSet(flagRasterizer) {
		cfg.Rasterizer = c.String(flagRasterizer)
	}
	if c.IsSet(flagNormalize) {
		cfg.Normalize = c.String(flagNormalize)
	}
	if c.IsSet(flagTextLayer) {
		cfg.UseTextLayer = c.Bool(flagTextLayer)
	}
	if c.IsSet(flagTimeout) {
		cfg.FileTimeout = c.Duration(flagTimeout)
	}
	if c.IsSet(flagRules) {
		cfg.RulesFile = c.String(flagRules)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadRules(path string) (*patent.Registry, error) {
	if path == "" {
		return patent.Builtin(), nil
	}
	return patent.LoadRules(patent.Builtin(), path)
}

// setup builds everything a command needs to process files.
func setup(c *cli.Context) (*config.Config, *pipeline.Processor, *converter.Converter, error) {
	logger := newLogger(c.Bool(flagQuiet))
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, nil, cli.Exit(err.Error(), 2)
	}
	rules, err := loadRules(cfg.RulesFile)
	if err != nil {
		return nil, nil, nil, cli.Exit(err.Error(), 2)
	}
	conv, err := converter.New(cfg, logger)
	if err != nil {
		return nil, nil, nil, cli.Exit(err.Error(), 2)
	}
	proc := &pipeline.Processor{
		Text:      conv,
		Extractor: patent.NewExtractor(rules),
		Mode:      patent.Mode(cfg.Normalize),
		NFKC:      cfg.UnicodeNFKC,
		Timeout:   cfg.FileTimeout,
		Logger:    logger,
	}
	return cfg, proc, conv, nil
}

func extractAction(c *cli.Context) error {
	cfg, proc, conv, err := setup(c)
	if err != nil {
		return err
	}
	if err := conv.Preflight(); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	root := c.String(flagDir)
	files, err := pipeline.SelectPDFs(root, proc.Extractor.Rules().Prefixes(), proc.Logger)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	results := proc.Run(ctx, files, cfg.Workers)

	out := c.String(flagOut)
	if err := output.WriteCSV(out, results); err != nil {
		return err
	}
	if path := c.String(flagXLSX); path != "" {
		if err := output.WriteXLSX(path, results, false); err != nil {
			return err
		}
	}
	if path := c.String(flagSQLite); path != "" {
		if err := saveRun(ctx, path, root, started, results, proc.Logger); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.App.Writer, "Data saved to %s!\n", out)
	if errors.Is(ctx.Err(), context.Canceled) {
		return cli.Exit("interrupted; unprocessed files were recorded as errors", 130)
	}
	return nil
}

func saveRun(ctx context.Context, dbPath, root string, started time.Time, results []pipeline.Result, logger *slog.Logger) error {
	store, err := output.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Persist even after an interrupt.
	id, err := store.SaveRun(context.WithoutCancel(ctx), root, started, results)
	if err != nil {
		return err
	}
	logger.Info("Run recorded", "db", dbPath, "run_id", id)
	return nil
}

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("inspect takes exactly one FILE argument", 2)
	}
	path := c.Args().First()

	_, proc, _, err := setup(c)
	if err != nil {
		return err
	}
	if cat := c.String(flagCategory); cat != "" {
		if _, ok := proc.Extractor.Rules().Lookup(cat); !ok {
			return cli.Exit(fmt.Sprintf("unknown category %q", cat), 2)
		}
		proc.Category = cat
	}
	withDescription := c.Bool(flagDescription)
	proc.KeepText = withDescription || c.String(flagXLSX) != ""

	res := proc.Process(c.Context, path)
	fmt.Fprint(c.App.Writer, renderResult(res, withDescription))

	results := []pipeline.Result{res}
	if out := c.String(flagCSV); out != "" {
		if err := output.WriteCSV(out, results); err != nil {
			return err
		}
	}
	if out := c.String(flagXLSX); out != "" {
		if err := output.WriteXLSX(out, results, withDescription); err != nil {
			return err
		}
	}
	if res.Failed() {
		return cli.Exit(res.Err.Error(), 1)
	}
	return nil
}

// renderResult formats one result as a Field/Value Markdown table, optionally
// followed by the acquired text.
func renderResult(res pipeline.Result, withDescription bool) string {
	rows := [][]string{{"Field", "Value"}, {patent.FieldFilePath, res.Path}}
	for _, f := range patent.Fields {
		rows = append(rows, []string{f, res.Record.Get(f)})
	}
	rows = append(rows, []string{"Category", res.Category})
	if !res.Failed() {
		rows = append(rows,
			[]string{"Pages", fmt.Sprint(res.Pages)},
			[]string{"Source", string(res.Source)},
		)
	}
	out := output.RenderTable(rows)
	if withDescription && res.Text != "" {
		out += "\n## " + output.DescriptionColumn + "\n\n" + res.Text + "\n"
	}
	return out
}

func rulesAction(c *cli.Context) error {
	rules, err := loadRules(c.String(flagRules))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	fmt.Fprint(c.App.Writer, output.RenderTable(rules.Describe()))
	return nil
}
