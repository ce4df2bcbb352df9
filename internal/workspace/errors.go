package workspace

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing entity. A missing workspace is not an
	// error for Load, which treats it as an empty tree.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks an operation the session's role may not perform.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrUploadRejected marks a file outside the upload allow-list; the
	// upload service is never contacted.
	ErrUploadRejected = errors.New("upload rejected")
	// ErrOperationPending marks a duplicate call while the same logical
	// operation is still in flight. Callers retry after the first resolves.
	ErrOperationPending = errors.New("operation already in flight")
)

// ServerError is any other non-2xx or transport failure. It is retryable:
// local state is left untouched.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}
