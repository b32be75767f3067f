package postgres

import (
	"strings"

	domainerrors "venuegate/internal/domain/errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Helper functions for PostgreSQL error checking
func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// Without TranslateError the driver error only carries the SQLSTATE in its text.
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "23505")
}

// dbError wraps a driver failure as a DatabaseExecuteError carrying the failed operation.
func dbError(err error, details string) error {
	return domainerrors.NewDatabaseExecuteError(err, details)
}
