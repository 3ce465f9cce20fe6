package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the upload and chat pipelines. Handlers map these to
// HTTP statuses and user-facing copy; services return them (optionally
// wrapped) instead of inventing new categories per call site.

var (
	// ErrMissingFile indicates no file was attached to an upload attempt
	ErrMissingFile = errors.New("no file provided")

	// ErrInvalidFileType indicates the uploaded file is not a PDF
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrFileTooLarge indicates the uploaded file exceeds the size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrRateLimited indicates the backend answered with HTTP 429
	ErrRateLimited = errors.New("rate limited")

	// ErrUploadFailed indicates the document transfer failed for any
	// reason other than rate limiting
	ErrUploadFailed = errors.New("upload failed")

	// ErrQueryFailed indicates the question round trip failed for any
	// reason other than rate limiting
	ErrQueryFailed = errors.New("query failed")

	// ErrEmptyQuestion indicates an empty or whitespace-only question
	ErrEmptyQuestion = errors.New("empty question")

	// ErrRequestPending indicates another question is already in flight
	// for the session
	ErrRequestPending = errors.New("request already pending")

	// ErrNoDocument indicates the session has no active document
	ErrNoDocument = errors.New("no active document")
)

// WrapError wraps an error with a context message
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with a formatted context message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsValidation reports whether the error is one of the local validation
// failures that never reach the network.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrInvalidFileType) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrEmptyQuestion)
}

// IsRateLimited checks if error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
