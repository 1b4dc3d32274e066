package persistence

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/partshop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the repositories care about
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgAdminShutdown        = "57P01"
	pgCannotConnectNow     = "57P03"
)

// translateError maps driver errors onto domain error kinds. notFound is
// returned for gorm.ErrRecordNotFound; nil keeps the shared sentinel.
func translateError(err error, notFound *shared.DomainError) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notFound != nil {
			return notFound
		}
		return shared.ErrNotFound
	}
	if IsUniqueViolation(err) {
		return shared.ErrDuplicateKey.WithDetail("cause", err.Error())
	}
	if IsTransient(err) {
		return shared.NewTransientStorageError("Storage temporarily unavailable", err)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsTransient reports whether err is safe to retry: serialization and
// deadlock aborts, lock timeouts, and dropped connections.
func IsTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable, pgAdminShutdown, pgCannotConnectNow:
			return true
		}
		return false
	}
	if pgconn.Timeout(err) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
