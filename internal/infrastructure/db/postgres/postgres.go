// Package postgres stores users and notes in PostgreSQL through GORM.
//
// Uniqueness of user names and note titles is backed by unique indexes, and the
// note -> user reference by a foreign key with ON DELETE RESTRICT, so the
// database rejects the same writes the constraint engine does even when two
// processes share one schema. Ids come from one sequence per resource.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

// Open connects with error translation on, so unique and foreign key
// violations surface as gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates the tables, indexes and id sequences.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&userModel{}, &noteModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, resource := range []string{domain.ResourceUser, domain.ResourceNote} {
		if err := db.WithContext(ctx).Exec("CREATE SEQUENCE IF NOT EXISTS " + sequenceName(resource)).Error; err != nil {
			return fmt.Errorf("create %s sequence: %w", resource, err)
		}
	}
	return nil
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// scanRows streams query rows in id order. The query runs when iteration starts.
func scanRows[M any, T any](ctx context.Context, db *gorm.DB, convert func(*M) *T) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		var model M
		tx := db.WithContext(ctx).Model(&model).Order("id")
		rows, err := tx.Rows()
		if err != nil {
			yield(nil, fmt.Errorf("scan: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var m M
			if err := tx.ScanRows(rows, &m); err != nil {
				yield(nil, fmt.Errorf("scan row: %w", err))
				return
			}
			if !yield(convert(&m), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("scan: %w", err))
		}
	}
}

func exists(ctx context.Context, db *gorm.DB, model any, column string, value any) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(model).Where(column+" = ?", value).Limit(1).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// translate maps constraint errors from the database onto domain violations.
func translate(err error, resource, field string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &domain.Violation{
			Outcome:  domain.Conflict,
			Resource: resource,
			Field:    field,
			Err:      domain.ErrDuplicateValue,
		}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		if resource == domain.ResourceUser {
			return &domain.Violation{Outcome: domain.ReferentialBlock, Resource: resource, Err: domain.ErrStillReferenced}
		}
		return &domain.Violation{
			Outcome:  domain.ReferentialBlock,
			Resource: resource,
			Field:    "createdBy",
			Err:      domain.ErrUnresolvedReference,
		}
	default:
		return err
	}
}
