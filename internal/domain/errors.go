package domain

import (
	"errors"
	"fmt"
)

// ErrFeedUnavailable marks a feed-level failure: the whole adapter run is
// aborted, nothing partial is persisted.
var ErrFeedUnavailable = errors.New("feed unavailable")

// IntegrityKind classifies validation failures.
type IntegrityKind string

const (
	MissingRequiredField IntegrityKind = "missing required field"
	UnacceptableField    IntegrityKind = "unacceptable field"
)

// IntegrityError reports a record that violates the article/author field
// schema. Scope is "article" or "author".
type IntegrityError struct {
	Kind  IntegrityKind
	Scope string
	Field string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Kind, e.Scope, e.Field)
}

// IsIntegrityKind reports whether err is an IntegrityError of the given kind.
func IsIntegrityKind(err error, kind IntegrityKind) bool {
	var ie *IntegrityError
	return errors.As(err, &ie) && ie.Kind == kind
}
