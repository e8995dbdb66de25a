// Package conf provides an explicit present/absent wrapper for optional
// configuration values, so wiring decisions branch over a declared state
// instead of sniffing zero values.
package conf

// Setting is an optional configuration value: either Configured with a
// value or Unconfigured.
type Setting[T any] struct {
	value      T
	configured bool
}

// Configured wraps a value that was explicitly provided.
func Configured[T any](v T) Setting[T] {
	return Setting[T]{value: v, configured: true}
}

// Unconfigured is the absent state.
func Unconfigured[T any]() Setting[T] {
	return Setting[T]{}
}

// Value returns the configured value and whether one was provided.
func (s Setting[T]) Value() (T, bool) {
	return s.value, s.configured
}

// IsConfigured reports whether a value was provided.
func (s Setting[T]) IsConfigured() bool {
	return s.configured
}

// FromString treats a non-empty environment string as configured and the
// empty string as absent.
func FromString(s string) Setting[string] {
	if s == "" {
		return Unconfigured[string]()
	}
	return Configured(s)
}
