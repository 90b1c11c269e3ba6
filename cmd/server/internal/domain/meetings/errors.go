package meetings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrDuplicateMeetingID = errors.New("meeting id already exists in room")
)

// RequiredCreateFields must all be present in a create request body.
var RequiredCreateFields = []string{
	"subject", "organizerName", "startDateUTC", "endDateUTC",
	"creationDateUTC", "isPrivate", "isCancelled",
}

// ValidationError reports a create or update payload that cannot be accepted.
type ValidationError struct {
	Missing []string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required fields: " + strings.Join(e.Missing, ", ")
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// PersistenceError wraps a failed read or write of the store file.
type PersistenceError struct {
	Op   string // "load" or "persist"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
