// ABOUTME: Error values for the chost client library
// ABOUTME: Sentinel validation errors and the HTTP status error type

package chost

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPost is returned when sending a post with no headline,
	// attachments, or markdown, and no share reference.
	ErrEmptyPost = errors.New("post is empty (no headline, attachments, or markdown)")

	// ErrFailedAttachment is returned when sending a post that contains an
	// attachment whose upload has failed. Failed attachments cannot be
	// recovered; create a new one to retry.
	ErrFailedAttachment = errors.New("attempted to use post with failed attachment")

	// ErrNoProject is returned when a session method is called with an
	// empty project handle.
	ErrNoProject = errors.New("no project specified for post")
)

// StatusError is returned when the server responds with a non-2xx status.
// Status code semantics are not interpreted further; the caller decides
// whether an operation is worth retrying.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}
