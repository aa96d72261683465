package db

import "errors"

// ErrUnsupportedDriver is returned for an engine driver name that is not compiled in.
var ErrUnsupportedDriver = errors.New("db: unsupported driver")

// Op names used for error context.
const (
	OpPing   = "PING"
	OpScan   = "SCAN"
	OpMGet   = "MGET"
	OpSet    = "SET"
	OpSelect = "SELECT"
	OpUpsert = "UPSERT"
	OpDecode = "DECODE"
	OpView   = "VIEW"
	OpUpdate = "UPDATE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
