package domain

// Coalesce returns the value behind the first non-nil pointer, or fallback.
// Plan files use pointers to tell an omitted field from an explicit zero.
func Coalesce[T any](fallback T, ptrs ...*T) T {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}
