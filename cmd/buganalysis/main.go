// buganalysis indexes a bug-report spreadsheet and runs text analytics over it:
// term statistics, keyword search, document similarity, term co-occurrence,
// TF-IDF models and naive Bayes classification. Each analysis writes a plain
// text report; "serve" exposes the same operations over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/gcbaptista/go-bug-analysis/config"
	"github.com/gcbaptista/go-bug-analysis/internal/engine"
	"github.com/gcbaptista/go-bug-analysis/internal/metrics"
	"github.com/gcbaptista/go-bug-analysis/internal/report"
)

const version = "1.0.0"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// command is one subcommand of the CLI.
type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"index":             {"Rebuild the index from the bug file and save a snapshot", runIndex},
	"search":            {"Run a boolean keyword query", runSearch},
	"similarity":        {"Pairwise similarity of the first documents", runSimilarity},
	"top-terms":         {"Most frequent terms of a field", runTopTerms},
	"pairwise":          {"Co-occurrence matrix of the top terms", runPairwise},
	"classify":          {"Train and evaluate the naive Bayes classifier", runClassify},
	"tfidf":             {"TF-IDF model of the first documents", runTFIDF},
	"term-distribution": {"Cumulative coverage of every term", runTermDistribution},
	"keywords":          {"Keyword coverage summary and labelled bug workbook", runKeywords},
	"report":            {"Run every analysis and write all reports", runReport},
	"runs":              {"List recorded analysis runs", runRuns},
	"serve":             {"Start the HTTP API", runServe},
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var configPath string
	flagSet := pflag.NewFlagSet("buganalysis", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Bool("version", false, "show version information")
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(out, flagSet)
			return nil
		}
		return err
	}
	if showVersion, _ := flagSet.GetBool("version"); showVersion {
		fmt.Fprintf(out, "buganalysis v%s\n", version)
		return nil
	}
	rest := flagSet.Args()
	if help, _ := flagSet.GetBool("help"); help || len(rest) == 0 {
		printHelp(out, flagSet)
		return nil
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (run with --help for the list)", rest[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging)

	a, err := newApp(ctx, cfg, logger, out, rest[0] == "serve")
	if err != nil {
		return err
	}
	defer a.close()

	return cmd.run(ctx, a, rest[1:])
}

func printHelp(out io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(out, "buganalysis - text analytics over bug reports\n\n")
	fmt.Fprintf(out, "Usage: buganalysis [--config FILE] <command> [flags]\n\n")
	fmt.Fprintf(out, "Commands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-18s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(out, "\nGlobal flags:\n%s", flagSet.FlagUsages())
	fmt.Fprintf(out, "\nExamples:\n")
	fmt.Fprintf(out, "  buganalysis index --file resource/bugs.xlsx\n")
	fmt.Fprintf(out, "  buganalysis search --query \"login AND NOT timeout\"\n")
	fmt.Fprintf(out, "  buganalysis --config analysis.yaml report\n")
}

// newLogger configures the standard logrus logger from cfg.
func newLogger(cfg config.LoggingConfig) *logrus.Entry {
	logger := logrus.StandardLogger()
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr)
	return logrus.NewEntry(logger)
}

// app carries everything a subcommand needs.
type app struct {
	cfg     *config.Config
	logger  *logrus.Entry
	engine  *engine.Engine
	metrics *metrics.Metrics
	sink    *report.FileSink
	out     io.Writer
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *logrus.Entry, out io.Writer, withMetrics bool) (*app, error) {
	a := &app{cfg: cfg, logger: logger, sink: report.NewFileSink(), out: out}

	opts := []engine.Option{engine.WithLogger(logger.WithField("component", "engine"))}
	if withMetrics && cfg.Server.MetricsEnabled {
		a.metrics = metrics.New()
		opts = append(opts, engine.WithMetrics(a.metrics))
	}
	if cfg.Paths.ResultsDB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Paths.ResultsDB), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create results directory: %w", err)
		}
		runs, err := report.OpenResultStore(ctx, cfg.Paths.ResultsDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, runs.Close)
		opts = append(opts, engine.WithRunRecorder(runs))
	}

	eng, err := engine.New(cfg, opts...)
	if err != nil {
		a.close()
		return nil, err
	}
	a.engine = eng
	return a, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.WithError(err).Warn("Failed to close resource")
		}
	}
}

// ensureIndex loads the saved snapshot, or rebuilds from the bug file when there
// is none or rebuild is set.
func (a *app) ensureIndex(ctx context.Context, rebuild bool) error {
	if !rebuild {
		loaded, err := a.engine.LoadSnapshot()
		if err != nil {
			a.logger.WithError(err).Warn("Ignoring unreadable index snapshot")
		}
		if loaded {
			return nil
		}
	}
	_, err := a.engine.RebuildIndex(ctx, "")
	return err
}

// writeReport stores content as the named report, replacing any previous one.
func (a *app) writeReport(name, content string) error {
	path := a.cfg.Paths.ReportPath(name)
	if err := a.sink.WriteText(content, path, true); err != nil {
		return err
	}
	a.logger.WithField("path", path).Info("Report written")
	return nil
}
