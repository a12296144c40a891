package pfreport

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvAPIKey overrides the Alpha Vantage key from the config file.
const EnvAPIKey = "PN_ALPHA_VANTAGE_KEY"

// ProviderType selects the market-data source.
type ProviderType string

const (
	ProviderYahoo        ProviderType = "yahoo"
	ProviderAlphaVantage ProviderType = "alpha_vantage"
)

// SupportedCurrencies is the closed set of currencies a holding may be
// denominated in. Anything else is rejected before any valuation math runs.
var SupportedCurrencies = map[string]bool{"USD": true, "JPY": true}

// AppConfig is the runtime configuration of a report run.
type AppConfig struct {
	Provider      ProviderType
	APIKey        string
	Currency      string // reporting currency
	QuoteCurrency string // assumed for holdings stored without a currency
}

type configFile struct {
	PriceProvider struct {
		Type   string `json:"type"`
		APIKey string `json:"api_key"`
	} `json:"price_provider"`
	Currency      string `json:"currency"`
	QuoteCurrency string `json:"quote_currency"`
}

// LoadDotEnv loads a local .env file into the environment when one exists.
func LoadDotEnv() { _ = godotenv.Load() }

// LoadConfig reads the JSON configuration file and applies environment
// overrides and defaults. A missing file is a ConfigurationError; so is a
// placeholder credential or an unsupported currency.
func LoadConfig(path string) (AppConfig, error) {
	var cfg AppConfig

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, Configurationf("cannot read %s: %v", path, err)
	}
	var file configFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return cfg, Configurationf("cannot parse %s: %v", path, err)
	}

	cfg.Provider = ProviderType(strings.ToLower(strings.TrimSpace(file.PriceProvider.Type)))
	if cfg.Provider == "" {
		cfg.Provider = ProviderYahoo
	}
	switch cfg.Provider {
	case ProviderYahoo, ProviderAlphaVantage:
	default:
		return cfg, Configurationf("unknown price provider %q", file.PriceProvider.Type)
	}

	cfg.APIKey = strings.TrimSpace(file.PriceProvider.APIKey)
	if env := strings.TrimSpace(os.Getenv(EnvAPIKey)); env != "" {
		cfg.APIKey = env
	}
	if cfg.Provider == ProviderAlphaVantage {
		if cfg.APIKey == "" {
			return cfg, Configurationf("alpha_vantage requires an api key (set %s or price_provider.api_key)", EnvAPIKey)
		}
		if strings.HasPrefix(strings.ToUpper(cfg.APIKey), "YOUR_") {
			return cfg, Configurationf("price_provider.api_key still holds the %q placeholder", cfg.APIKey)
		}
	}

	cfg.Currency = normCurrency(file.Currency, "JPY")
	cfg.QuoteCurrency = normCurrency(file.QuoteCurrency, "USD")
	for _, c := range []string{cfg.Currency, cfg.QuoteCurrency} {
		if !SupportedCurrencies[c] {
			return cfg, Configurationf("unsupported currency %q (supported: USD, JPY)", c)
		}
	}
	return cfg, nil
}

func normCurrency(c, fallback string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return fallback
	}
	return c
}

// String renders the config for diagnostics, with the credential redacted.
func (c AppConfig) String() string {
	key := "unset"
	if c.APIKey != "" {
		key = "set"
	}
	return fmt.Sprintf("provider=%s key=%s currency=%s quote=%s", c.Provider, key, c.Currency, c.QuoteCurrency)
}
