package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/pfreport"
	"github.com/etnz/pfreport/agent"
	"github.com/etnz/pfreport/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd sends the current report to Gemini for commentary.
type assistCmd struct {
	app   appFlags
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask an AI analyst to comment on the valuation" }
func (*assistCmd) Usage() string {
	return `pfr assist [-config <file>] [-model <name>] [question...]

  Values the portfolio, sends the report to Gemini and prints the
  commentary. Requires GEMINI_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	c.app.register(f)
	f.StringVar(&c.model, "model", "", "Gemini model name")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, holdings, err := c.app.load()
	if err != nil {
		return fail(err)
	}
	if len(holdings) == 0 {
		fmt.Fprintln(os.Stderr, "Portfolio is empty, nothing to analyze.")
		return ExitEmptyPortfolio
	}
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fail(pfreport.Configurationf("assist requires GEMINI_API_KEY"))
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
	pfreport.SortRows(v.Rows, pfreport.SortJPYValue, true)
	report := renderer.ReportMarkdown(v)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fail(err)
	}
	analyst, err := agent.NewAnalyst(ctx, client, c.model)
	if err != nil {
		return fail(err)
	}
	commentary, err := analyst.Review(ctx, report, strings.Join(f.Args(), " "))
	if err != nil {
		return fail(err)
	}
	printMarkdown(commentary)
	return subcommands.ExitSuccess
}
