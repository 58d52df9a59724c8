// Command search runs one aggregated search from the terminal and prints the
// offers cheapest first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/jessevdk/go-flags"
	"github.com/shopspring/decimal"
	"github.com/ucuzbot/backend/config"
	"github.com/ucuzbot/backend/internal/app"
	"github.com/ucuzbot/backend/internal/domain"
	"github.com/ucuzbot/backend/internal/usecase"
	"github.com/ucuzbot/backend/pkg/logger"
)

// Options holds the command-line flags
type Options struct {
	Query    string   `short:"q" long:"query" description:"Product to search for" required:"true"`
	Stores   []string `short:"s" long:"store" description:"Store slug to query, repeatable (default: all enabled stores)"`
	Limit    int      `short:"l" long:"limit" default:"10" description:"Maximum offers per store"`
	Category string   `short:"c" long:"category" description:"Category slug used to veto wrong products"`
	Target   string   `short:"t" long:"target" description:"Target price; reports whether the cheapest offer reaches it"`
	JSON     bool     `long:"json" description:"Print the raw result as JSON"`
	Verbose  bool     `short:"v" long:"verbose" description:"Log adapter activity to stderr"`
}

func main() {
	var opts Options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "search: %v\n", err)
		os.Exit(1)
	}
}

func run(opts Options, out io.Writer) error {
	var target decimal.Decimal
	if opts.Target != "" {
		var err error
		if target, err = decimal.NewFromString(opts.Target); err != nil || !target.IsPositive() {
			return fmt.Errorf("target must be a positive number, got %q", opts.Target)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logOutput := io.Discard
	if opts.Verbose {
		logOutput = os.Stderr
	}
	logger.Init(logger.Options{Environment: cfg.Server.Environment, Output: logOutput})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	search := app.NewSearchService(cfg, app.Catalog(cfg), nil)
	result, err := search.Search(ctx, domain.SearchRequest{
		Query:          opts.Query,
		SourceIDs:      opts.Stores,
		LimitPerSource: opts.Limit,
		CategorySlug:   opts.Category,
		NoCache:        true,
	})
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(out, result)

	if opts.Target != "" {
		printDecision(out, result, target)
	}
	return nil
}

func printResult(out io.Writer, result *domain.SearchResult) {
	fmt.Fprintf(out, "%d offers for %q\n\n", result.TotalResults, result.Query)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, p := range result.Results {
		fmt.Fprintf(tw, "%s AZN\t%s\t%s\t%s\n", p.Price.StringFixed(2), p.SourceName, p.Name, p.URL)
	}
	tw.Flush()

	if len(result.Errors) > 0 {
		fmt.Fprintln(out, "\nfailed stores:")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
	}
}

func printDecision(out io.Writer, result *domain.SearchResult, target decimal.Decimal) {
	if len(result.Results) == 0 {
		fmt.Fprintf(out, "\nno offers to compare with target %s AZN\n", target.StringFixed(2))
		return
	}

	lowest := result.Results[0]
	verdict := "above target"
	if usecase.ShouldTrigger(target, lowest.Price) {
		verdict = "TARGET REACHED"
	}
	fmt.Fprintf(out, "\n%s: %s AZN at %s (target %s AZN)\n",
		verdict, lowest.Price.StringFixed(2), lowest.SourceName, target.StringFixed(2))
}
