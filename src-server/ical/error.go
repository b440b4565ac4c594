package ical

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrOutOfRange              = errors.New("value out of range")
	ErrMalformedInput          = errors.New("malformed input")
	ErrMissingRequiredProperty = errors.New("missing required property")
	ErrDuplicateUID            = errors.New("duplicate uid")
)

// CustomError carries a message plus the offending values. It unwraps to one
// of the Err* sentinels above so callers can use errors.Is.
type CustomError struct {
	kind error
	msg  string
	args map[string]any
}

// Create a new custom error
func NewCustomError(kind error, msg string, args map[string]any) *CustomError {
	if args == nil {
		args = make(map[string]any)
	}
	return &CustomError{
		kind: kind,
		msg:  msg,
		args: args,
	}
}

// Get the error message
func (e *CustomError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.msg)
	if e.kind != nil {
		sb.WriteString(": ")
		sb.WriteString(e.kind.Error())
	}
	if len(e.args) == 0 {
		return sb.String()
	}
	sb.WriteString(" |")
	keys := make([]string, 0, len(e.args))
	for key := range e.args {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		sb.WriteString(fmt.Sprintf(" %s: %v", key, e.args[key]))
	}
	return sb.String()
}

func (e *CustomError) Unwrap() error {
	return e.kind
}

// Get the value attached to key, if any
func (e *CustomError) Arg(key string) (any, bool) {
	v, ok := e.args[key]
	return v, ok
}
