package repository

import (
	"errors"

	"github.com/lib/pq"
)

// IsPqError reports whether err wraps a postgres error with the given SQLSTATE code.
func IsPqError(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}

	return false
}
