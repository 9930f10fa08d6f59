package mcp

import (
	"errors"
	"fmt"

	"github.com/lumenlabs/pulse/internal/domain/analytics"
	"github.com/lumenlabs/pulse/internal/domain/cohort"
	"github.com/lumenlabs/pulse/internal/domain/session"
	"github.com/lumenlabs/pulse/internal/domain/timeseries"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map
// to nil so callers can pass them through unchanged.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, analytics.ErrNotLoaded):
		return &APIError{Code: "DATASET_NOT_LOADED", Message: "no dataset snapshot loaded", RecoveryHint: "Call reload_dataset first"}
	case errors.Is(err, analytics.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, timeseries.ErrInvalidRange), errors.Is(err, cohort.ErrInvalidRange):
		return &APIError{Code: "INVALID_RANGE", Message: "range start is after its end", RecoveryHint: "Swap from and to"}
	case errors.Is(err, session.ErrInvalidGap), errors.Is(err, session.ErrInvalidTopN):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
