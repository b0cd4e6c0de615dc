// Package errors provides structured error types used across the application.
// We prefer these over raw fmt.Errorf strings to enable reliable checks with
// errors.Is / errors.As and to carry minimal context about the failure.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError indicates invalid input provided by a record: an address
// that cannot be parsed, a designator that makes no sense. These do not
// self-resolve by retrying.
type ValidationError struct {
	Op  string // where it happened (package.Function)
	Msg string // human friendly message
	Err error  // underlying cause (optional)
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("validation: %s: %s", e.Op, e.Msg)
}

func (e *ValidationError) Unwrap() error     { return e.Err }
func (e *ValidationError) Operation() string { return e.Op }

func NewValidation(op, msg string, err error) error {
	return &ValidationError{Op: op, Msg: msg, Err: err}
}

// DatastoreError represents failures talking to the record datastore.
type DatastoreError struct {
	Op  string
	Msg string
	Err error
}

func (e *DatastoreError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("datastore: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("datastore: %s: %s", e.Op, e.Msg)
}

func (e *DatastoreError) Unwrap() error     { return e.Err }
func (e *DatastoreError) Operation() string { return e.Op }

func NewDatastore(op, msg string, err error) error {
	return &DatastoreError{Op: op, Msg: msg, Err: err}
}

// SchemaError indicates the destination datastore rejected a write because a
// column is missing or has an incompatible type. Retrying cannot fix a schema
// mismatch, so these are classified permanent without message sniffing.
type SchemaError struct {
	Op    string
	Field string // destination column, if known
	Msg   string
	Err   error
}

func (e *SchemaError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Field != "" {
		return fmt.Sprintf("schema: %s: field %q: %s", e.Op, e.Field, e.Msg)
	}
	return fmt.Sprintf("schema: %s: %s", e.Op, e.Msg)
}

func (e *SchemaError) Unwrap() error     { return e.Err }
func (e *SchemaError) Operation() string { return e.Op }

func NewSchema(op, field, msg string, err error) error {
	return &SchemaError{Op: op, Field: field, Msg: msg, Err: err}
}

// ExternalAPIError represents failures in external services (registry hub,
// valuation API, code lookup).
type ExternalAPIError struct {
	Op     string
	Msg    string
	Err    error
	System string // e.g. "registry" / "vworld" / "codelookup"
}

func (e *ExternalAPIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	sys := e.System
	if sys == "" {
		sys = "external"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", sys, e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", sys, e.Op, e.Msg)
}

func (e *ExternalAPIError) Unwrap() error     { return e.Err }
func (e *ExternalAPIError) Operation() string { return e.Op }

func NewExternal(op, system, msg string, err error) error {
	return &ExternalAPIError{Op: op, System: system, Msg: msg, Err: err}
}

// BizError is for domain failures that aren't programmer bugs: a merge that
// produced nothing, a record with no building data behind it.
type BizError struct {
	Op  string
	Msg string
	Err error
}

func (e *BizError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("biz: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("biz: %s: %s", e.Op, e.Msg)
}

func (e *BizError) Unwrap() error     { return e.Err }
func (e *BizError) Operation() string { return e.Op }

func NewBiz(op, msg string, err error) error { return &BizError{Op: op, Msg: msg, Err: err} }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsSchema reports whether err is (or wraps) a SchemaError.
func IsSchema(err error) bool {
	var s *SchemaError
	return errors.As(err, &s)
}

// IsExternal reports whether err is (or wraps) an ExternalAPIError.
func IsExternal(err error) bool {
	var x *ExternalAPIError
	return errors.As(err, &x)
}
