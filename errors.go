package pfreport

import "fmt"

// ConfigurationError reports an unusable configuration (missing file,
// placeholder credential, unsupported currency). The CLI maps it to its own
// exit status so scripts can tell setup problems from market failures.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return "configuration: " + e.Reason }

// Configurationf builds a ConfigurationError from a format string.
func Configurationf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ProviderError reports a market-data operation that failed after its
// fallbacks were exhausted.
type ProviderError struct {
	Provider string // provider name, e.g. "alphavantage"
	Op       string // failed operation, e.g. `price "AAPL"`
	Err      error  // underlying cause, may be nil
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failed", e.Provider, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// ValidationError reports invalid input data, such as a holding denominated
// in a currency the engine does not handle.
type ValidationError struct {
	Symbol string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Symbol == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid holding %q: %s", e.Symbol, e.Reason)
}
