package utils

// Ref returns a pointer to a copy of value. Used to fill optional checkout
// fields from literals.
func Ref[T any](value T) *T {
	return &value
}

// Ptr dereferences value, returning the zero T for nil.
func Ptr[T any](value *T) T {
	if value == nil {
		return *new(T)
	}
	return *value
}

// RefNonZero is Ref, except the zero value maps to nil so the field is
// omitted from the request body.
func RefNonZero[T comparable](value T) *T {
	var zero T
	if value == zero {
		return nil
	}
	return &value
}
