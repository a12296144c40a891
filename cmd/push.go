package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/pfreport"
	"github.com/google/subcommands"
)

// pushCmd syncs a local holdings CSV into the remote ledger.
type pushCmd struct {
	app    appFlags
	csv    string
	mode   string
	dryRun bool
}

func (*pushCmd) Name() string     { return "push" }
func (*pushCmd) Synopsis() string { return "sync a local holdings CSV to the portfolio ledger" }
func (*pushCmd) Usage() string {
	return `pfr push -csv <file> [-mode upsert|replace] [-dry-run]

  Upserts every CSV row into the ledger. In replace mode, ledger symbols
  absent from the CSV are removed as well.
`
}

func (c *pushCmd) SetFlags(f *flag.FlagSet) {
	c.app.register(f)
	f.StringVar(&c.csv, "csv", "", "Holdings CSV with a symbol,shares,currency header")
	f.StringVar(&c.mode, "mode", "upsert", "Sync mode (upsert, replace)")
	f.BoolVar(&c.dryRun, "dry-run", false, "Print the plan without touching the ledger")
}

func (c *pushCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.csv == "" {
		fmt.Fprintln(os.Stderr, "Error: -csv is required")
		return subcommands.ExitUsageError
	}
	if c.mode != "upsert" && c.mode != "replace" {
		fmt.Fprintf(os.Stderr, "Error: unknown -mode %q\n", c.mode)
		return subcommands.ExitUsageError
	}

	pfreport.LoadDotEnv()
	cfg, err := pfreport.LoadConfig(c.app.config)
	if err != nil {
		return fail(err)
	}

	file, err := os.Open(c.csv)
	if err != nil {
		return fail(err)
	}
	local, err := pfreport.DecodeHoldingsCSV(file)
	file.Close()
	if err != nil {
		return fail(err)
	}
	for i := range local {
		if local[i].Currency == "" {
			local[i].Currency = cfg.QuoteCurrency
		}
	}

	ledger := pfreport.NewLedgerClient(c.app.portfolioURL)
	var removals []string
	if c.mode == "replace" {
		remote, err := ledger.Holdings(cfg.QuoteCurrency)
		if err != nil {
			return fail(err)
		}
		keep := map[string]bool{}
		for _, h := range local {
			keep[h.Symbol] = true
		}
		for _, h := range remote {
			if !keep[h.Symbol] {
				removals = append(removals, h.Symbol)
			}
		}
	}

	for _, h := range local {
		if c.dryRun {
			fmt.Printf("would upsert %-10s %12g %s\n", h.Symbol, h.Shares, h.Currency)
			continue
		}
		if err := ledger.Upsert(h); err != nil {
			return fail(err)
		}
		fmt.Printf("upserted %s\n", h.Symbol)
	}
	for _, symbol := range removals {
		if c.dryRun {
			fmt.Printf("would remove %s\n", symbol)
			continue
		}
		if err := ledger.Remove(symbol); err != nil {
			return fail(err)
		}
		fmt.Printf("removed %s\n", symbol)
	}
	verb := "synced"
	if c.dryRun {
		verb = "planned"
	}
	fmt.Printf("%s: %d upserts, %d removals (%s mode)\n", verb, len(local), len(removals), c.mode)
	return subcommands.ExitSuccess
}
