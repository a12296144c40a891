package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pfreport"
	"github.com/etnz/pfreport/renderer"
	"github.com/google/subcommands"
)

// historyCmd exports the portfolio's monthly valuation history.
type historyCmd struct {
	app      appFlags
	months   int
	output   string
	saveHTML string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "export the monthly valuation history as CSV" }
func (*historyCmd) Usage() string {
	return `pfr history [-config <file>] [-months n] [-o <file>] [-save-html <file>]

  Builds the month-aligned valuation dataset and writes it as CSV
  (stdout with -o -). Requires a provider with history support.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	c.app.register(f)
	f.IntVar(&c.months, "months", 12, "Number of months of history")
	f.StringVar(&c.output, "o", "portfolio_history.csv", "Output CSV file, - for stdout")
	f.StringVar(&c.saveHTML, "save-html", "", "Also write an HTML report embedding the dataset")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.months < 1 {
		fmt.Fprintln(os.Stderr, "Error: -months must be at least 1")
		return subcommands.ExitUsageError
	}
	cfg, holdings, err := c.app.load()
	if err != nil {
		return fail(err)
	}
	if len(holdings) == 0 {
		fmt.Fprintln(os.Stderr, "Portfolio is empty, nothing to export.")
		return ExitEmptyPortfolio
	}

	provider := newProvider(cfg)
	ds, err := pfreport.BuildMonthlyDataset(provider, holdings, c.months)
	if errors.Is(err, pfreport.ErrHistoryUnsupported) {
		fmt.Fprintf(os.Stderr, "Error: provider %s has no historical series, use yahoo\n", cfg.Provider)
		return subcommands.ExitFailure
	}
	if err != nil {
		return fail(err)
	}

	out := os.Stdout
	if c.output != "-" {
		file, err := os.Create(c.output)
		if err != nil {
			return fail(err)
		}
		defer file.Close()
		out = file
	}
	if err := pfreport.EncodeDatasetCSV(out, ds); err != nil {
		return fail(err)
	}
	if c.output != "-" {
		fmt.Fprintf(os.Stderr, "Saved %s (%d months, %d holdings)\n", c.output, len(ds.Months), len(ds.Rows))
	}

	if c.saveHTML != "" {
		if status := c.writeHTML(cfg, holdings, provider, ds); status != subcommands.ExitSuccess {
			return status
		}
	}
	return subcommands.ExitSuccess
}

// writeHTML values the portfolio now and writes the full page with the
// dataset embedded.
func (c *historyCmd) writeHTML(cfg pfreport.AppConfig, holdings []pfreport.Holding, provider pfreport.PriceProvider, ds *pfreport.MonthlyDataset) subcommands.ExitStatus {
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
	pfreport.SortRows(v.Rows, pfreport.SortJPYValue, true)
	page, err := renderer.ReportHTML(v, ds)
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(c.saveHTML, []byte(page), 0o644); err != nil {
		return fail(err)
	}
	fmt.Fprintf(os.Stderr, "Saved %s\n", c.saveHTML)
	return subcommands.ExitSuccess
}
