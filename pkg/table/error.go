package table

import (
	"errors"

	"github.com/lib/pq"
)

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

// ErrNotFound is returned when a table does not exist
var ErrNotFound = errors.New("table not found")

// ErrConflict is returned when a table was saved by someone else since it was read
var ErrConflict = errors.New("table was modified concurrently")

// ErrDuplicateKey happens if a table is created with an ID that is taken
var ErrDuplicateKey = errors.New("duplicate key constraint violation")

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqDuplicateKeyErrorCode
}
