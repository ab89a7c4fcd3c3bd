package main

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/fwojciec/heritage"
	heritagehttp "github.com/fwojciec/heritage/http"
	"github.com/fwojciec/heritage/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	IDs         []int         `arg:"" optional:"" name:"id" help:"Record IDs to scrape, in order. Omit to scrape the whole register."`
	Verbose     bool          `short:"v" help:"Diagnostic mode: dump headers, raw pages and parsed records to stderr. Best used with explicit IDs."`
	Concurrency int           `short:"c" default:"3" env:"HPSCRAPE_CONCURRENCY" help:"Records fetched at once (1 is sequential)."`
	Timeout     time.Duration `short:"t" default:"30s" help:"Timeout per request."`
	Rate        float64       `default:"${rate}" help:"Requests per second against the register (0 disables limiting)."`
	Output      string        `short:"o" type:"path" help:"Write the JSON array to this file instead of stdout."`
	SQLite      string        `name:"sqlite" type:"path" help:"Also write records to this SQLite database."`
	IndexURL    string        `name:"index-url" default:"${index_url}" help:"Recent registrations page used to find the highest ID."`
	RecordURL   string        `name:"record-url" default:"${record_url}" help:"Detail page URL format with one %d verb for the record ID."`
	UserAgent   string        `name:"user-agent" default:"${user_agent}" help:"User-Agent header sent with requests."`
	LogFormat   string        `name:"log-format" enum:"text,json" default:"text" help:"Diagnostic log format (text or json)."`
}

// cliVars supplies defaults that live in code.
func cliVars() map[string]string {
	return map[string]string{
		"rate":       strconv.FormatFloat(scrape.DefaultRate, 'g', -1, 64),
		"index_url":  heritage.DefaultIndexURL,
		"record_url": heritage.DefaultRecordURLFormat,
		"user_agent": heritagehttp.DefaultUserAgent,
	}
}
