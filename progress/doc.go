// Package progress keeps aggregated counters of arbitration outcomes (calls
// allowed, intercepted, suppressed, confirmed, ...) for one process. Counters
// are updated through deltas so that every component holding the tracker can
// record what it decided without a global registry.
package progress
