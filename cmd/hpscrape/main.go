// Command hpscrape scrapes the New Zealand historic places register into a
// JSON array of normalized records.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

// ErrHelp is returned by Run when usage was requested. The process exits
// with status 2 so callers can tell it apart from a completed run.
var ErrHelp = errors.New("help requested")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("hpscrape"),
		kong.Description("Scrape the New Zealand historic places register to a JSON array.\n\n"+
			"With no IDs the whole register is scraped, up to the highest ID linked from the "+
			"recent registrations page. Records go to stdout; diagnostics go to stderr."),
		kong.Writers(stdout, stderr),
		kong.Vars(cliVars()),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if wantsHelp(args) {
		_, _ = parser.Parse([]string{"--help"})
		return ErrHelp
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: newLogger(stderr, cli.LogFormat, cli.Verbose),
	}

	return (&ScrapeCmd{CLI: cli}).Run(deps)
}

// wantsHelp reports whether a help flag appears before any "--" separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--":
			return false
		case "-h", "--help":
			return true
		}
	}
	return false
}
