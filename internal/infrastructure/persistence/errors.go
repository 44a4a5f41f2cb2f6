package persistence

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/paragon/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver and ORM errors onto the shared error kinds.
// Errors that already are domain errors pass through untouched.
//
//   - record not found          -> NotFound
//   - UNIQUE, CHECK, FOREIGN KEY -> ConstraintViolation carrying the store's message
//   - anything else             -> ConnectionError
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return shared.NewConstraintViolation(sqliteErr.Error())
	}
	return shared.NewConnectionError(err.Error())
}

// notFound builds the NotFound error for entity id
func notFound(entity string, id int64) error {
	return shared.NewNotFoundError(entity, id)
}

// findError translates a lookup error, naming the missing entity
func findError(err error, entity string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, id)
	}
	return translateError(err)
}
