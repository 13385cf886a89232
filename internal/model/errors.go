package model

import "fmt"

// ValidationError reports malformed input. It is never retried; the caller
// receives the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid constructs a ValidationError for a field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidateEmbedding checks that the record's declared dimensionality matches
// the vector length. A mismatch is rejected, never corrected.
func ValidateEmbedding(rec EmbeddingRecord) error {
	if rec.Dims <= 0 {
		return Invalid("dims", "must be positive, got %d", rec.Dims)
	}
	if len(rec.Embedding) != rec.Dims {
		return Invalid("embedding", "length %d does not match dims %d", len(rec.Embedding), rec.Dims)
	}
	return nil
}
