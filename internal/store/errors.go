package store

import "fmt"

// FailureKind classifies a database failure: the database could not be
// reached, or it rejected the statement.
type FailureKind int

const (
	FailureConnection FailureKind = iota
	FailureQuery
)

// DBError wraps a database failure with its classification and the
// operation that hit it. Callers unwrap to the driver error; the web layer
// maps the kind to a user-facing message.
type DBError struct {
	Kind FailureKind
	Op   string
	Err  error
}

func (e *DBError) Error() string {
	switch e.Kind {
	case FailureConnection:
		return fmt.Sprintf("%s: database unreachable: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: query failed: %v", e.Op, e.Err)
	}
}

func (e *DBError) Unwrap() error {
	return e.Err
}

func connectionError(op string, err error) error {
	return &DBError{Kind: FailureConnection, Op: op, Err: err}
}

func queryError(op string, err error) error {
	return &DBError{Kind: FailureQuery, Op: op, Err: err}
}
