// Package cmd implements the pfr subcommands.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/pfreport"
	"github.com/etnz/pfreport/alphavantage"
	"github.com/etnz/pfreport/yahoo"
	"github.com/google/subcommands"
)

// Commands lists every pfr subcommand for registration.
var Commands = []subcommands.Command{
	&reportCmd{},
	&historyCmd{},
	&pushCmd{},
	&assistCmd{},
	&topicCmd{},
}

// Exit statuses beyond the subcommands defaults, stable for scripting.
const (
	// ExitEmptyPortfolio means the ledger holds no positions.
	ExitEmptyPortfolio subcommands.ExitStatus = 2
	// ExitConfig means the configuration or credentials are unusable.
	ExitConfig subcommands.ExitStatus = 3
	// ExitInterrupted mirrors the shell convention 128+SIGINT.
	ExitInterrupted subcommands.ExitStatus = 130
)

// fail prints err and maps it to the exit status of its category.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var ce *pfreport.ConfigurationError
	if errors.As(err, &ce) {
		return ExitConfig
	}
	return subcommands.ExitFailure
}

// appFlags are the flags shared by every pipeline command.
type appFlags struct {
	config       string
	portfolioURL string
}

func (a *appFlags) register(f *flag.FlagSet) {
	f.StringVar(&a.config, "config", "config.json", "Path to the configuration file")
	f.StringVar(&a.portfolioURL, "portfolio-url", "http://127.0.0.1:8787/api/portfolio", "Portfolio ledger API endpoint")
}

// load reads .env, the config file and the ledger holdings.
func (a *appFlags) load() (pfreport.AppConfig, []pfreport.Holding, error) {
	pfreport.LoadDotEnv()
	cfg, err := pfreport.LoadConfig(a.config)
	if err != nil {
		return cfg, nil, err
	}
	holdings, err := pfreport.NewLedgerClient(a.portfolioURL).Holdings(cfg.QuoteCurrency)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, holdings, nil
}

// newProvider builds the configured market-data provider.
func newProvider(cfg pfreport.AppConfig) pfreport.PriceProvider {
	if cfg.Provider == pfreport.ProviderAlphaVantage {
		return alphavantage.New(cfg.APIKey)
	}
	return yahoo.New()
}

// printMarkdown renders markdown to ANSI on the terminal, falling back to
// the raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
