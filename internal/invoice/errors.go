package invoice

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrNoTextExtracted is returned when the input text is empty.
	ErrNoTextExtracted = errors.New("no text extracted from document")

	// ErrAdapterUnavailable is returned when the smart extractor is not configured.
	ErrAdapterUnavailable = errors.New("smart extractor not available")

	// ErrEmptyResponse is returned when the model produced no content.
	ErrEmptyResponse = errors.New("empty response from model")

	// ErrInvalidResponse is returned when the model output is not usable invoice JSON.
	ErrInvalidResponse = errors.New("invalid response from model")

	// ErrLowConfidence is returned when a smart result scores at or below the threshold.
	ErrLowConfidence = errors.New("extraction confidence below threshold")

	// ErrExtractionExhausted is returned when no path produced a result.
	ErrExtractionExhausted = errors.New("could not extract data")

	// ErrAdapterPanic is reported when the smart extractor panics.
	ErrAdapterPanic = errors.New("smart extractor panicked")
)

// ExtractionError wraps errors with additional context about extraction failures.
type ExtractionError struct {
	// Op is the operation that failed (e.g., "GeminiExtractor.Extract").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("invoice: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *ExtractionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapExtractionError wraps an error as an ExtractionError if it isn't already one.
func WrapExtractionError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return err // Already wrapped
	}

	return &ExtractionError{Op: op, Err: err, Details: details}
}
