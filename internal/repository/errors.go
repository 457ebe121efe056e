// Package repository implements the MySQL data access layer.  It defines
// sentinel error values shared by all repositories so that handlers can
// map failures onto HTTP status codes without inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a record does not exist or does not belong
// to the requesting user.  Handlers translate this into a 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique key, e.g. a
// second tracking entry for the same habit and day or a second sleep
// entry for the same date.  For daily-entry generation this is not a
// failure at all: the caller reclassifies it as "already exists".
var ErrDuplicate = errors.New("duplicate record")

// isDuplicateKey reports whether err is a MySQL unique-key violation
// (error number 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
