package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/menuscore/menuscore/pipeline/internal/cleaner"
	"github.com/menuscore/menuscore/pipeline/internal/config"
	"github.com/menuscore/menuscore/pipeline/internal/report"
	"github.com/menuscore/menuscore/pipeline/internal/scorer"
	"github.com/menuscore/menuscore/pkg/dataset"
	"github.com/menuscore/menuscore/pkg/jobmetrics"
	"github.com/menuscore/menuscore/pkg/logging"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		logFailure(err)
		os.Exit(1)
	}
}

// cli carries the state shared by the sub-commands of one invocation.
type cli struct {
	configPath string
	logLevel   string
	topN       int

	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:               "menuscore",
		Short:             "Clean a fast-food menu dataset and score every item's nutritional health",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to an optional YAML config file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")

	clean := &cobra.Command{
		Use:   "clean",
		Short: "Drop unused columns from the raw menu CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.clean()
		},
	}
	score := &cobra.Command{
		Use:   "score",
		Short: "Add a Health Score column to the cleaned menu CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.score()
		},
	}
	score.Flags().IntVar(&c.topN, "top", 0, "number of items in the ranked preview (overrides config)")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the clean and score stages in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.clean(); err != nil {
				return err
			}
			return c.score()
		},
	}
	run.Flags().IntVar(&c.topN, "top", 0, "number of items in the ranked preview (overrides config)")

	root.AddCommand(clean, score, run)
	return root
}

// setup loads the configuration and installs the default logger.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Pipeline.LogLevel = c.logLevel
	}
	level, err := logging.ParseLevel(cfg.Pipeline.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.topN > 0 {
		cfg.Pipeline.TopN = c.topN
	}
	c.cfg = cfg

	slog.SetDefault(logging.NewStructuredLogger(c.stderr, level))
	slog.Debug("menuscore: config loaded",
		"config", c.configPath,
		"raw_path", cfg.Pipeline.RawPath,
		"cleaned_path", cfg.Pipeline.CleanedPath,
		"scored_path", cfg.Pipeline.ScoredPath,
		"drop", cfg.Pipeline.Drop,
	)
	return nil
}

func (c *cli) clean() error {
	p := c.cfg.Pipeline
	start := time.Now()

	sum, err := cleaner.Run(cleaner.Options{
		Input:    p.RawPath,
		Output:   p.CleanedPath,
		Drop:     p.Drop,
		Reporter: report.NewText(c.stdout, slog.Default()),
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	logging.LogOperation(slog.Default(), "menuscore: clean finished",
		slog.String("output", p.CleanedPath),
		slog.Int("rows", sum.After.Rows),
		slog.Duration("duration", elapsed),
	)

	return c.recordStage(jobmetrics.Stage{
		Name:     "clean",
		Rows:     sum.After.Rows,
		Columns:  sum.After.Columns,
		Duration: elapsed,
	}, nil)
}

func (c *cli) score() error {
	p := c.cfg.Pipeline
	start := time.Now()

	preview, err := scorer.Run(scorer.Options{
		Input:    p.CleanedPath,
		Output:   p.ScoredPath,
		TopN:     p.TopN,
		Reporter: report.NewText(c.stdout, slog.Default()),
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	logging.LogOperation(slog.Default(), "menuscore: score finished",
		slog.String("output", p.ScoredPath),
		slog.Int("rows", preview.Shape.Rows),
		slog.Duration("duration", elapsed),
	)

	return c.recordStage(jobmetrics.Stage{
		Name:     "score",
		Rows:     preview.Shape.Rows,
		Columns:  preview.Shape.Columns,
		Duration: elapsed,
	}, preview.Tiers)
}

// recordStage writes job metrics when a metrics path is configured.
func (c *cli) recordStage(st jobmetrics.Stage, tiers map[string]int) error {
	path := c.cfg.Pipeline.MetricsPath
	if path == "" {
		return nil
	}
	st.FinishedAt = time.Now().UTC()
	if err := jobmetrics.Record(path, st, tiers); err != nil {
		return fmt.Errorf("record %s metrics: %w", st.Name, err)
	}
	return nil
}

// logFailure logs err with the failing path or column when known.
func logFailure(err error) {
	var attrs []slog.Attr
	var schemaErr *dataset.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		attrs = append(attrs, slog.String("path", schemaErr.Path), slog.String("column", schemaErr.Column))
		if schemaErr.Row > 0 {
			attrs = append(attrs, slog.Int("row", schemaErr.Row))
		}
	case errors.Is(err, dataset.ErrNotFound):
		attrs = append(attrs, slog.String("kind", "missing input"))
	}
	logging.LogError(slog.Default(), "menuscore: stage failed", err, attrs...)
}
