// Package idgen wraps the UUID generator used for confirmation session ids so
// that it can be stubbed in tests. Callers treat ids as opaque strings.
package idgen
