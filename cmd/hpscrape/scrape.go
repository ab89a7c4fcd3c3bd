package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/heritage"
	"github.com/fwojciec/heritage/fs"
	"github.com/fwojciec/heritage/goquery"
	heritagehttp "github.com/fwojciec/heritage/http"
	heritagejson "github.com/fwojciec/heritage/json"
	"github.com/fwojciec/heritage/scrape"
	heritageslog "github.com/fwojciec/heritage/slog"
	"github.com/fwojciec/heritage/sqlite"
	"github.com/google/uuid"
)

// ScrapeCmd runs a scrape with the parsed flags.
type ScrapeCmd struct {
	CLI *CLI
}

// Run wires the services and executes the scrape.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	cli := c.CLI
	logger := deps.Logger

	if cli.Verbose && len(cli.IDs) == 0 {
		logger.Warn("verbose mode dumps every page; it is meant for explicit record IDs")
	}

	endpoints := heritage.Endpoints{IndexURL: cli.IndexURL, RecordURLFormat: cli.RecordURL}
	client := heritagehttp.NewClient(
		heritagehttp.WithTimeout(cli.Timeout),
		heritagehttp.WithUserAgent(cli.UserAgent),
		heritagehttp.WithEndpoints(endpoints),
	)

	var fetcher heritage.Fetcher = client
	var recordFetcher heritage.RecordFetcher = client
	var parser heritage.RecordParser = goquery.NewParser()
	if cli.Verbose {
		fetcher = heritageslog.NewLoggingFetcher(fetcher, logger)
		recordFetcher = heritageslog.NewLoggingRecordFetcher(recordFetcher, logger)
		parser = heritageslog.NewLoggingParser(parser, logger)
	}

	// Output: stdout, or a file that only appears once the run ends.
	var out io.Writer = deps.Stdout
	var outFile *fs.OutputFile
	if cli.Output != "" {
		f, err := fs.CreateOutputFile(cli.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		outFile = f
		out = f
	}
	abort := func() {
		if outFile != nil {
			_ = outFile.Abort()
		}
	}

	var arrayOpts []heritagejson.Option
	if cli.Verbose {
		arrayOpts = append(arrayOpts, heritagejson.WithIndent("  "))
	}
	array := heritagejson.NewArrayWriter(out, arrayOpts...)
	var writer heritage.RecordWriter = array

	runID := uuid.NewString()
	var runs *sqlite.RunService
	if cli.SQLite != "" {
		db := sqlite.NewDB(cli.SQLite)
		if err := db.Open(); err != nil {
			abort()
			return fmt.Errorf("failed to open database at %q: %w", cli.SQLite, err)
		}
		defer db.Close()

		runs = sqlite.NewRunService(db)
		if err := runs.StartRun(deps.Ctx, runID, time.Now()); err != nil {
			abort()
			return fmt.Errorf("failed to record run: %w", err)
		}
		writer = heritage.MultiRecordWriter(array, sqlite.NewPlaceWriter(db, runID))
	}

	diags := &heritage.DiagnosticCollector{}
	runner := &scrape.Runner{
		Discoverer:  heritageslog.NewLoggingDiscoverer(goquery.NewDiscoverer(fetcher, endpoints.IndexURL), logger),
		Fetcher:     recordFetcher,
		Parser:      parser,
		Writer:      writer,
		Diagnostics: heritage.MultiDiagnosticSink(heritageslog.NewDiagnosticLogger(logger), diags),
		Limiter:     scrape.NewLimiter(cli.Rate),
		Progress:    progressLogger(logger),
		Concurrency: cli.Concurrency,
		RunID:       runID,
	}
	if cli.Verbose {
		runner.Inspector = &dumpInspector{w: deps.Stderr}
	}

	summary, runErr := runner.Run(deps.Ctx, cli.IDs)
	if summary == nil {
		// Discovery or argument failure: no artifact is produced.
		abort()
		return runErr
	}
	interrupted := deps.Ctx.Err() != nil && errors.Is(runErr, deps.Ctx.Err())
	if runErr != nil && !interrupted {
		if outFile == nil {
			// Stdout cannot be withdrawn; terminate what was already emitted.
			// Close is a no-op when the array itself failed.
			_ = array.Close()
		}
		abort()
		return runErr
	}

	// Completed or interrupted: the collected records form a valid array.
	if err := writer.Close(); err != nil {
		abort()
		return fmt.Errorf("failed to finish output: %w", err)
	}
	if outFile != nil {
		if err := outFile.Commit(); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("output written", "path", outFile.Path(), "records", array.Count())
	}
	if runs != nil {
		if err := runs.FinishRun(context.WithoutCancel(deps.Ctx), summary, time.Now()); err != nil {
			logger.Warn("failed to record run summary", "err", err)
		}
	}

	logger.Info("run finished",
		"run_id", summary.RunID,
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"written", array.Count(),
		"unrecognized_fields", len(diags.Filter(heritage.DiagnosticUnrecognizedField)),
	)

	if interrupted {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	return nil
}

// progressLogger logs each record as it is finished.
func progressLogger(logger *slog.Logger) scrape.ProgressFunc {
	return func(e scrape.ProgressEvent) {
		switch e.Type {
		case scrape.ProgressStarted:
			logger.Info("run started", "total", e.Total)
		case scrape.ProgressCompleted:
			logger.Info("record", "id", e.ID, "completed", e.Completed, "total", e.Total)
		case scrape.ProgressFailed:
			logger.Info("record failed", "id", e.ID, "completed", e.Completed, "total", e.Total)
		}
	}
}
