package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-bug-analysis/api"
	"github.com/gcbaptista/go-bug-analysis/internal/report"
	"github.com/gcbaptista/go-bug-analysis/internal/vector"
	"github.com/gcbaptista/go-bug-analysis/model"
)

// analysisFlags registers the flags shared by every analysis command.
func analysisFlags(name string) (*pflag.FlagSet, *bool) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	rebuild := fs.Bool("rebuild", false, "rebuild the index from the bug file instead of loading the snapshot")
	return fs, rebuild
}

func runIndex(ctx context.Context, a *app, args []string) error {
	fs := pflag.NewFlagSet("index", pflag.ContinueOnError)
	file := fs.String("file", "", "bug file to index (default: paths.bug_file)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	snap, err := a.engine.RebuildIndex(ctx, *file)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Indexed %d documents (generation %d), fields: %v\n", snap.Store.Len(), snap.Generation(), snap.Fields)
	return nil
}

func runSearch(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("search")
	query := fs.String("query", "", "boolean query; empty searches the top terms")
	field := fs.String("field", "", "default search field")
	limit := fs.Int("limit", 0, "maximum hits (default: analysis.search_limit)")
	cutoff := fs.Float64("cutoff", -1, "top-term cutoff when no query is given")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		return err
	}
	return a.search(ctx, *query, *field, *limit, *cutoff)
}

func (a *app) search(ctx context.Context, query, field string, limit int, cutoff float64) error {
	var res model.SearchResult
	var err error
	if query == "" {
		res, err = a.engine.TopTermSearch(ctx, field, cutoff)
	} else {
		res, err = a.engine.Search(ctx, query, field, limit)
	}
	if err != nil {
		return err
	}
	return a.writeReport(report.SearchResultFile, report.SearchResult(res, a.cfg.Analysis.DisplayFields))
}

func runSimilarity(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("similarity")
	field := fs.String("field", "", "field to compare")
	docs := fs.Int("docs", 0, "number of leading documents (default: analysis.similarity_docs)")
	weighting := fs.String("weighting", "tf", "vector weighting: tf or tfidf")
	if err := fs.Parse(args); err != nil {
		return err
	}
	w, err := vector.ParseWeighting(*weighting)
	if err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		return err
	}
	return a.similarity(ctx, *field, *docs, w)
}

func (a *app) similarity(ctx context.Context, field string, docs int, w vector.Weighting) error {
	res, err := a.engine.DocumentSimilarity(ctx, field, docs, w)
	if err != nil {
		return err
	}
	return a.writeReport(report.DocSimilarityFile, report.Similarity(res))
}

func runTopTerms(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("top-terms")
	field := fs.String("field", "", "field to rank")
	n := fs.Int("n", 0, "number of terms (default: analysis.top_n)")
	cutoff := fs.Float64("cutoff", -1, "frequency ratio cutoff (default: analysis.top_term_cutoff)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		return err
	}
	return a.topTerms(ctx, *field, *cutoff, *n)
}

func (a *app) topTerms(ctx context.Context, field string, cutoff float64, n int) error {
	if n == 0 {
		n = a.cfg.Analysis.TopN
	}
	terms, err := a.engine.TopTerms(ctx, field, cutoff, n)
	if err != nil {
		return err
	}
	return a.writeReport(report.TopTermsFile, report.TopTerms(n, terms))
}

func runPairwise(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("pairwise")
	field := fs.String("field", "", "field to analyze")
	terms := fs.StringSlice("terms", nil, "explicit terms (default: the top analysis.pairwise_top_n terms)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		return err
	}
	return a.pairwise(ctx, *field, *terms)
}

func (a *app) pairwise(ctx context.Context, field string, terms []string) error {
	m, err := a.engine.Cooccurrence(ctx, field, terms)
	if err != nil {
		return err
	}
	return a.writeReport(report.PairwiseAnalysisFile, report.CountMatrix(m.Terms, m.Counts))
}

func runClassify(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("classify")
	labels := fs.StringSlice("labels", nil, "label set (default: analysis.categories)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		return err
	}
	return a.classify(ctx, *labels)
}

func (a *app) classify(ctx context.Context, labels []string) error {
	ev, err := a.engine.Evaluate(ctx, labels)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "accuracy=%.3f error=%.3f over %d documents (%d excluded)\n", ev.Accuracy, ev.ErrorRate, ev.Total, ev.Excluded)
	return a.writeReport(report.ClassificationFile, report.Evaluation(ev))
}

func runTFIDF(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("tfidf")
	field := fs.String("field", "", "field to model (default: analysis.summary_field)")
	docs := fs.Int("docs", 0, "number of leading documents (default: analysis.tfidf_docs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		return err
	}
	return a.tfidf(ctx, *field, *docs)
}

func (a *app) tfidf(ctx context.Context, field string, docs int) error {
	m, err := a.engine.TFIDFModel(ctx, field, docs)
	if err != nil {
		return err
	}
	return a.writeReport(report.TFIDFModelFile, report.TFIDFModel(m))
}

func runTermDistribution(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("term-distribution")
	field := fs.String("field", "", "field to trace")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		return err
	}
	return a.termDistribution(ctx, *field)
}

func (a *app) termDistribution(ctx context.Context, field string) error {
	r, err := a.engine.TermDistribution(ctx, field)
	if err != nil {
		return err
	}
	return a.writeReport(report.TermDistributionFile, report.TermDistribution(r))
}

func runKeywords(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("keywords")
	file := fs.String("file", "", "keyword file (default: paths.keyword_file)")
	field := fs.String("field", "", "field to match keywords against")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		return err
	}
	return a.keywords(ctx, *file, *field)
}

// keywords writes the keyword coverage summary and the labelled bugs into two
// sheets of the bug save workbook.
func (a *app) keywords(ctx context.Context, file, field string) error {
	keywords, err := a.engine.LoadKeywords(file)
	if err != nil {
		return err
	}
	summary, err := a.engine.KeywordSummary(ctx, field, keywords)
	if err != nil {
		return err
	}
	hits, err := a.engine.KeywordLabels(ctx, keywords)
	if err != nil {
		return err
	}

	path := a.cfg.Paths.BugSaveFile
	if err := a.sink.WriteSheet(path, a.cfg.Paths.SummarySheet, report.SummaryRows(summary)); err != nil {
		return err
	}
	if err := a.sink.WriteSheet(path, a.cfg.Paths.DetailsSheet, report.DetailRows(hits)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d keywords cover %.3f of the bugs, %d labelled bugs written to %s\n",
		len(summary.Rows), summary.Final(), len(hits), path)
	return nil
}

func runReport(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("report")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.topTerms(gctx, "", -1, 0) })
	g.Go(func() error { return a.search(gctx, "", "", 0, -1) })
	g.Go(func() error { return a.similarity(gctx, "", 0, vector.WeightTF) })
	g.Go(func() error { return a.pairwise(gctx, "", nil) })
	g.Go(func() error { return a.termDistribution(gctx, "") })
	g.Go(func() error { return a.classify(gctx, nil) })
	g.Go(func() error { return a.tfidf(gctx, "", 0) })
	if err := g.Wait(); err != nil {
		return err
	}

	// The workbook is a single file; keep its two sheet writes out of the group.
	if _, err := os.Stat(a.cfg.Paths.KeywordFile); err == nil {
		if err := a.keywords(ctx, "", ""); err != nil {
			return err
		}
	} else {
		a.logger.WithField("path", a.cfg.Paths.KeywordFile).Info("No keyword file, skipping keyword report")
	}
	fmt.Fprintf(a.out, "Reports written to %s\n", a.cfg.Paths.ReportDir)
	return nil
}

func runRuns(ctx context.Context, a *app, args []string) error {
	fs := pflag.NewFlagSet("runs", pflag.ContinueOnError)
	limit := fs.Int("limit", 20, "number of runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	runs, err := a.engine.Runs(ctx, *limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(a.out, "%s\t%s\t%s\tgen=%d\tdocs=%d\t%s\t%s\n",
			r.StartedAt.Format(time.RFC3339), r.Operation, r.Field, r.Generation, r.Documents, r.Duration, r.Summary)
	}
	return nil
}

func runServe(ctx context.Context, a *app, args []string) error {
	fs, rebuild := analysisFlags("serve")
	port := fs.Int("port", a.cfg.Server.Port, "port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.ensureIndex(ctx, *rebuild); err != nil {
		// The API can still rebuild on request.
		a.logger.WithError(err).Warn("Starting without an index")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, a.engine, a.metrics, a.logger.WithField("component", "api"))

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(*port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("addr", srv.Addr).Info("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
