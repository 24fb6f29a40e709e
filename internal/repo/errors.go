package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the store layer.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates that a write hit a UNIQUE constraint.
var ErrDuplicate = errors.New("duplicate")

// ErrSchemaDowngrade is returned when the file was written by a newer
// schema than the one requested.
var ErrSchemaDowngrade = errors.New("schema downgrade not supported")

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}

// mapWriteErr converts unique violations into ErrDuplicate and passes
// everything else through.
func mapWriteErr(err error) error {
	if IsDuplicate(err) {
		return ErrDuplicate
	}
	return err
}
