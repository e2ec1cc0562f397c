// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"github.com/vincentFaye/dev-social-network/internal/models"
	"github.com/vincentFaye/dev-social-network/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// ErrStaleVersion is returned by conditional writes when the aggregate was
// changed after it was read. Callers reload and retry.
var ErrStaleVersion = errors.New("repository: stale aggregate version")

// translate maps store errors onto the models error taxonomy. notFound is
// the message used when no row matched.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(notFound)
	}
	return models.NewInternalError(err)
}

// checkVersion turns a conditional write that matched no row into ErrStaleVersion.
func checkVersion(res *gorm.DB, aggregate string) error {
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		observability.StaleWrites.WithLabelValues(aggregate).Inc()
		return ErrStaleVersion
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// SQLite reports "UNIQUE constraint failed: ..."
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
