// Package ptr provides helpers for optional values represented as pointers.
//
// A nil pointer means "not specified"; a non-nil pointer carries an explicit
// value, including the zero value.
package ptr

// To returns a pointer to a copy of v.
func To[T any](v T) *T { return &v }

// Bool returns a pointer to the given bool value.
func Bool(b bool) *bool { return &b }

// Deref returns the value p points to, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Equal reports whether two optional values are both unset or both set to
// the same value.
func Equal[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
