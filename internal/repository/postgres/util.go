package postgres

import (
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("not found")

func str(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
