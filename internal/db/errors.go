package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrWrongType   = errors.New("db: key holds a value of another type")
)

// Op constants name the failing operation for error context. The redis
// driver uses the command names; other drivers reuse them.
const (
	OpPing    = "PING"
	OpDel     = "DEL"
	OpHGetAll = "HGETALL"
	OpHSet    = "HSET"
	OpExists  = "EXISTS"
	OpRPush   = "RPUSH"
	OpLRange  = "LRANGE"
	OpMigrate = "MIGRATE"
	OpInsert  = "INSERT"
	OpSelect  = "SELECT"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
