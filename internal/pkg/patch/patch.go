package patch

// Coalesce returns the value pointed to by ptr if it's not nil, otherwise returns fallback
func Coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}

// Override implements merge-write semantics for a single field: a zero-valued
// incoming field keeps the current value. The second return reports whether
// the stored value actually changed.
func Override[T comparable](current, incoming T) (T, bool) {
	var zero T
	if incoming == zero || incoming == current {
		return current, false
	}
	return incoming, true
}

// OverridePtr is Override for optional fields: nil incoming keeps current.
func OverridePtr[T comparable](current, incoming *T) (*T, bool) {
	if incoming == nil {
		return current, false
	}
	if current != nil && *current == *incoming {
		return current, false
	}
	v := *incoming
	return &v, true
}
