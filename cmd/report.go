package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pfreport"
	"github.com/etnz/pfreport/renderer"
	"github.com/google/subcommands"
)

// reportCmd values the portfolio now and prints the report.
type reportCmd struct {
	app       appFlags
	sortBy    string
	sortOrder string
	saveHTML  string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "value the portfolio and print the valuation report" }
func (*reportCmd) Usage() string {
	return `pfr report [-config <file>] [-sort-by usd|jpy|none] [-sort-order desc|asc] [-save-html <file>]

  Fetches holdings and market data, then prints the valuation table.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.app.register(f)
	f.StringVar(&c.sortBy, "sort-by", "jpy", "Sort rows by value column (usd, jpy, none)")
	f.StringVar(&c.sortOrder, "sort-order", "desc", "Sort direction (desc, asc)")
	f.StringVar(&c.saveHTML, "save-html", "", "Also write the report as a standalone HTML file")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	key, ok := pfreport.ParseSortKey(c.sortBy)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown -sort-by %q\n", c.sortBy)
		return subcommands.ExitUsageError
	}
	if c.sortOrder != "desc" && c.sortOrder != "asc" {
		fmt.Fprintf(os.Stderr, "Error: unknown -sort-order %q\n", c.sortOrder)
		return subcommands.ExitUsageError
	}

	cfg, holdings, err := c.app.load()
	if err != nil {
		return fail(err)
	}
	if len(holdings) == 0 {
		fmt.Fprintln(os.Stderr, "Portfolio is empty, nothing to report.")
		return ExitEmptyPortfolio
	}

	provider := newProvider(cfg)
	prices, err := pfreport.FetchPrices(provider, holdings)
	if err != nil {
		return fail(err)
	}
	usdjpy, err := provider.FXRate("USD", "JPY")
	if err != nil {
		return fail(err)
	}
	v, err := pfreport.BuildValuation(holdings, prices, usdjpy, provider)
	if err != nil {
		return fail(err)
	}
	pfreport.SortRows(v.Rows, key, c.sortOrder == "desc")

	printMarkdown(renderer.ReportMarkdown(v))

	if c.saveHTML != "" {
		page, err := renderer.ReportHTML(v, nil)
		if err == nil {
			err = os.WriteFile(c.saveHTML, []byte(page), 0o644)
		}
		if err != nil {
			// the text report already went out, so only warn
			fmt.Fprintf(os.Stderr, "Warning: cannot save html: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Saved %s\n", c.saveHTML)
		}
	}
	return subcommands.ExitSuccess
}
