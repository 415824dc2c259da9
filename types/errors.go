package types

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure classes the migrator distinguishes
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindAlreadyPresent
	KindMissingRelation
	KindMissingColumn
	KindNonNullableWithoutDefault
	KindMalformed
	KindConnectError
)

// String returns the kind name used in reports
func (k ErrorKind) String() string {
	switch k {
	case KindAlreadyPresent:
		return "AlreadyPresent"
	case KindMissingRelation:
		return "MissingRelation"
	case KindMissingColumn:
		return "MissingColumn"
	case KindNonNullableWithoutDefault:
		return "NonNullableWithoutDefault"
	case KindMalformed:
		return "Malformed"
	case KindConnectError:
		return "ConnectError"
	default:
		return "Other"
	}
}

// SQLError is a classified backend failure
type SQLError struct {
	Kind      ErrorKind
	Code      string // SQLSTATE on the server backend, result code on the embedded one
	Message   string
	Statement string
	Err       error
}

// NewSQLError creates a classified error without an underlying cause
func NewSQLError(kind ErrorKind, format string, args ...any) *SQLError {
	return &SQLError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *SQLError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying driver error
func (e *SQLError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a classified error, or KindOther
func KindOf(err error) ErrorKind {
	var sqlErr *SQLError
	if errors.As(err, &sqlErr) {
		return sqlErr.Kind
	}
	return KindOther
}
