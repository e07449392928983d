// Package ptr provides helpers for the optional (pointer) fields of
// legislative records.
package ptr

import "time"

// To creates a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// EqualTime reports whether two optional instants are both unset or the
// same instant, regardless of location.
func EqualTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// UTC returns a copy of t in UTC, or nil when t is nil.
func UTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return To(t.UTC())
}
