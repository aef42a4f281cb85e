// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// storeErr returns the context error unchanged when the context ended
// during a round-trip, otherwise err.
func storeErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isUniqueViolation reports duplicate-key failures from either the GORM
// translator or a raw Postgres error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// exists reports whether a row with id is present in model's table.
func exists(ctx context.Context, db *gorm.DB, model any, id any) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, storeErr(ctx, err)
	}
	return count > 0, nil
}
