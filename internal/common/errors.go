package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
)

// Degradation taxonomy. None of these reach the caller of the pipeline; every
// stage returns its fallback value together with one of them.
var (
	ErrFormatDetectionAmbiguous  = errors.New("format detection ambiguous")
	ErrExtractionEmpty           = errors.New("extraction produced no rooms")
	ErrClassificationUnavailable = errors.New("room classification unavailable")
	ErrRoomCalculation           = errors.New("room calculation failed")
	ErrNoRooms                   = errors.New("no rooms to transform")
	ErrPipelineTimeout           = errors.New("pipeline timed out")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// StageError tags a degradation with the pipeline stage that produced it.
func StageError(stage string, cause error) error {
	return NewAppError("STAGE_"+stage, "stage degraded to fallback", cause)
}
