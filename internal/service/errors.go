// Package service provides application-level services for authentication,
// the syllabus catalog, and the question answering workflow.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. API layer maps this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrChapterMismatch indicates the requested chapter does not belong to
	// the requested subject.
	ErrChapterMismatch = errors.New("chapter does not belong to subject")
)
