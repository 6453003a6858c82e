// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"blogify/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

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
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, pgUniqueViolation)
}

// dbError maps a storage failure onto the application taxonomy. notFound is
// returned for gorm.ErrRecordNotFound; AppErrors pass through untouched.
func dbError(err error, notFound *models.AppError) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if notFound != nil && errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return models.NewUpstreamError("Database operation failed", err)
}

// writeError is dbError for inserts and updates guarded by unique indexes.
func writeError(err error, duplicate string) error {
	if isUniqueConstraintError(err) {
		return models.NewDuplicateKeyError(duplicate)
	}
	return dbError(err, nil)
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

const (
	// DefaultLimit applies when a list call passes no limit.
	DefaultLimit = 100
	// MaxLimit caps any single list call.
	MaxLimit = 500
)
