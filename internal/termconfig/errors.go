package termconfig

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

var (
	// ErrInvalidOptionType is matched by every error reporting a recognized option with a value of the wrong type.
	ErrInvalidOptionType = errors.New("invalid option type")
	// ErrUnrecognizedOption is matched by errors reporting unknown keys in strict mode.
	ErrUnrecognizedOption = errors.New("unrecognized option")
	// ErrMalformedDocument is matched when the raw document cannot be decoded at all.
	ErrMalformedDocument = errors.New("malformed document")
)

// InvalidOptionTypeError reports a recognized option whose value does not satisfy its declared type.
type InvalidOptionTypeError struct {
	// Key is the dotted path of the offending option, e.g. "colors.red".
	Key      string
	Expected string
	Value    any
	// Reason optionally narrows down why the value was rejected.
	Reason string
}

func (e *InvalidOptionTypeError) Error() string {
	msg := fmt.Sprintf("%s: expected %s, got %s", e.Key, e.Expected, describeValue(e.Value))
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Is reports whether target is ErrInvalidOptionType.
func (e *InvalidOptionTypeError) Is(target error) bool {
	return target == ErrInvalidOptionType
}

// UnrecognizedOptionError reports a key that is not part of the schema.
type UnrecognizedOptionError struct {
	Key string
}

func (e *UnrecognizedOptionError) Error() string {
	return fmt.Sprintf("%s: unrecognized option", e.Key)
}

// Is reports whether target is ErrUnrecognizedOption.
func (e *UnrecognizedOptionError) Is(target error) bool {
	return target == ErrUnrecognizedOption
}

// MalformedDocumentError reports a document that could not be decoded into a mapping.
type MalformedDocumentError struct {
	Source string
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("malformed document: %v", e.Err)
	}
	return fmt.Sprintf("malformed document %s: %v", e.Source, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedDocument.
func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// Issues flattens an error returned by Load or Parse into the individual problems it carries.
func Issues(err error) []error {
	return multierr.Errors(err)
}

// report collects validation problems for a single Load call.
type report struct {
	err error
}

func (r *report) invalid(key, expected string, value any, reason string) {
	r.err = multierr.Append(r.err, &InvalidOptionTypeError{
		Key:      key,
		Expected: expected,
		Value:    value,
		Reason:   reason,
	})
}

func (r *report) unrecognized(key string) {
	r.err = multierr.Append(r.err, &UnrecognizedOptionError{Key: key})
}

func (r *report) failed() bool {
	return r.err != nil
}

func describeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q (string)", val)
	case []any:
		return fmt.Sprintf("sequence of %d", len(val))
	case map[string]any:
		return fmt.Sprintf("mapping of %d", len(val))
	default:
		return fmt.Sprintf("%v (%T)", val, val)
	}
}
