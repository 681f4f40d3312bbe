package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexExists   = errors.New("db: index already exists")
	ErrInvalidConfig = errors.New("db: invalid connection config")
)

// Op constants name the failing command for error context.
const (
	OpPing          = "ping"
	OpInsertMany    = "insertMany"
	OpAggregate     = "aggregate"
	OpCreateIndexes = "createIndexes"
	OpDropDatabase  = "dropDatabase"
	OpDecode        = "decode"
	OpGet           = "GET"
	OpSet           = "SET"
	OpHIncrBy       = "HINCRBY"
	OpHGetAll       = "HGETALL"
	OpExpire        = "EXPIRE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
