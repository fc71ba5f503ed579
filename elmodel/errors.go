package elmodel

import (
	"errors"
	"fmt"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
)

// InvalidObjectError is returned when a JSON document does not represent a valid API object, for
// instance because a required field is missing or a field contains a value of the wrong kind.
type InvalidObjectError struct {
	// ObjectName identifies the kind of object that was being read, e.g. "account" or "job_spec".
	ObjectName string

	// Field is the name of the offending field, if the error concerns a specific field.
	Field string

	// Reason is a human-readable description of the problem.
	Reason string
}

// Error returns the error message in the form "invalid <object>: <reason>".
func (e InvalidObjectError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.ObjectName, e.Reason)
}

func missingFieldError(objectName, field string) InvalidObjectError {
	return InvalidObjectError{
		ObjectName: objectName,
		Field:      field,
		Reason:     fmt.Sprintf("missing field '%s'", field),
	}
}

func badFieldError(objectName, field, problem string) InvalidObjectError {
	return InvalidObjectError{
		ObjectName: objectName,
		Field:      field,
		Reason:     fmt.Sprintf("field '%s' %s", field, problem),
	}
}

// translateReadError converts low-level jreader errors into InvalidObjectError. Errors that are
// already InvalidObjectError pass through unchanged so that nested objects keep their own names.
func translateReadError(objectName string, err error) error {
	if err == nil {
		return nil
	}
	var ioe InvalidObjectError
	if errors.As(err, &ioe) {
		return ioe
	}
	var rpe jreader.RequiredPropertyError
	if errors.As(err, &rpe) {
		return missingFieldError(objectName, rpe.Name)
	}
	return InvalidObjectError{ObjectName: objectName, Reason: err.Error()}
}

func unmarshalObject(objectName string, data []byte, readable jreader.Readable) error {
	if err := jreader.UnmarshalJSONWithReader(data, readable); err != nil {
		return translateReadError(objectName, err)
	}
	return nil
}
