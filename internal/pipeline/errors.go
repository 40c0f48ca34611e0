package pipeline

import (
	"errors"
	"fmt"

	"github.com/ppiankov/lockscore/internal/model"
)

var (
	// ErrUnsupportedSource is returned for sources that are neither a
	// local path nor an http(s) URL
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrRobotsDisallowed is returned when robots.txt forbids the fetch
	ErrRobotsDisallowed = errors.New("disallowed by robots.txt")
)

// InputTooShortError means the normalized text is below the minimum length
type InputTooShortError struct {
	Length int
	Min    int
}

func (e *InputTooShortError) Error() string {
	return fmt.Sprintf("input too short: %d characters after normalization, need at least %d", e.Length, e.Min)
}

// NoClausesExtractedError means no section qualified for any category
type NoClausesExtractedError struct {
	Sections int
}

func (e *NoClausesExtractedError) Error() string {
	return fmt.Sprintf("no clauses could be extracted from contract (%d sections examined)", e.Sections)
}

// ResourceExceededError means one document went over its size or time budget
type ResourceExceededError struct {
	Resource string // bytes, sections or time
	Limit    string
	Actual   string
}

func (e *ResourceExceededError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("resource exceeded: %s over limit %s", e.Resource, e.Limit)
	}
	return fmt.Sprintf("resource exceeded: %s %s over limit %s", e.Resource, e.Actual, e.Limit)
}

// ErrorResult converts a failed assessment into the structured payload
// callers report instead of scores
func ErrorResult(err error, vendor, source string) model.ErrorResult {
	return model.ErrorResult{
		Error:  err.Error(),
		Vendor: vendor,
		Source: source,
	}
}

// IsContentError reports whether err describes the contract itself
// (too short, no clauses, over budget) rather than an I/O failure
func IsContentError(err error) bool {
	var short *InputTooShortError
	var none *NoClausesExtractedError
	var over *ResourceExceededError
	return errors.As(err, &short) || errors.As(err, &none) || errors.As(err, &over)
}
