package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is matching. Load returns either a *ParseError
// or a ValidationErrors; both match exactly one of these.
var (
	ErrParse      = errors.New("config parse error")
	ErrValidation = errors.New("config validation error")
)

// ParseError reports an unreadable file, malformed YAML, or a wrong value
// type for a known field. The document is structurally unusable, so no
// validation was attempted.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ValidationError reports a single semantically invalid value or violated
// invariant. Field is the dotted document path of the offending setting
// (e.g. "training.start_epoch"); Reason is human-readable and, for
// enumerated fields, names the allowed set.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// ValidationErrors is the complete list of violations found in one
// validation pass, in document order.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e), strings.Join(msgs, "; "))
}

func (e ValidationErrors) Is(target error) bool { return target == ErrValidation }
