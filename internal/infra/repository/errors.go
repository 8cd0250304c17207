package repository

import (
	"errors"
	"strings"

	repo "invoicing/internal/repository"

	"gorm.io/gorm"
)

// translate maps driver and gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueFailure(err):
		return errors.Join(repo.ErrConstraintViolation, err)
	default:
		return err
	}
}

// isUniqueFailure catches drivers opened without TranslateError.
func isUniqueFailure(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// affected turns a zero row count into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
