// Package pfreport computes the current and historical valuation of a
// multi-currency equity portfolio.
//
// Holdings come from a small remote ledger API, prices and exchange rates
// from a pluggable market-data provider. The valuation engine turns them
// into per-position rows carrying both a USD and a JPY view, and the
// monthly dataset builder aligns per-symbol price history on a common
// month axis. Renderers for terminal, HTML and CSV live in the renderer
// subpackage and in impexp.go.
//
// Unknown values are carried as NaN throughout; zero always means an
// actual zero.
package pfreport
