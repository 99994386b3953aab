package storage

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	gomysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
)

// --- Retry Logic Configuration ---
const (
	defaultRetryInitialInterval = 50 * time.Millisecond
	defaultRetryMaxInterval     = 2 * time.Second
	readRetryMaxElapsedTime     = 5 * time.Second  // More aggressive for reads
	commitRetryMaxElapsedTime   = 15 * time.Second // More tolerant for commits
)

// MySQLRepo is the MySQL-backed implementation of the dashboard stores.
type MySQLRepo struct {
	db *gorm.DB
}

// NewMySQLRepo connects to MySQL with connection retries and, when requested,
// migrates the dashboard schema.
func NewMySQLRepo(dsn string, autoMigrate bool) (*MySQLRepo, error) {
	operationConnect := func() (*gorm.DB, error) {
		db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			if isTransientError(err) {
				logger.Log.Warn("Failed to connect to MySQL (transient), retrying...", zap.Error(err))
				return nil, err
			}
			return nil, backoff.Permanent(fmt.Errorf("failed to connect to MySQL: %w", err))
		}
		return db, nil
	}

	notify := func(err error, d time.Duration) {
		logger.Log.Warn("Retrying MySQL connection", zap.Error(err), zap.Duration("after", d))
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = 1 * time.Minute

	db, err := backoff.RetryNotifyWithData(operationConnect, b, notify)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL after retries: %w", err)
	}

	if autoMigrate {
		logger.Log.Info("Running schema auto-migration")
		if err := db.AutoMigrate(
			&model.User{},
			&model.Conversation{},
			&model.Message{},
			&model.BufferMessage{},
			&model.AgentStatus{},
		); err != nil {
			return nil, fmt.Errorf("failed to auto-migrate schema: %w", err)
		}
	}

	return &MySQLRepo{db: db}, nil
}

// Ping verifies the database connection is still alive.
func (r *MySQLRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *MySQLRepo) Close(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to get underlying SQL DB for closing", zap.Error(err))
		return nil
	}

	if closeErr := sqlDB.Close(); closeErr != nil {
		logger.FromContext(ctx).Error("Failed to close database connection", zap.Error(closeErr))
		return fmt.Errorf("failed to close SQL DB: %w", closeErr)
	}

	logger.FromContext(ctx).Info("Database connection closed successfully")
	return nil
}

// newRetryPolicy creates a new exponential backoff policy with context awareness.
func newRetryPolicy(ctx context.Context, maxElapsedTime time.Duration) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultRetryInitialInterval
	b.MaxInterval = defaultRetryMaxInterval
	b.MaxElapsedTime = maxElapsedTime
	b.Reset() // Important: Reset before first use
	return backoff.WithContext(b, ctx)
}

// retryableOperation wraps a database operation with retry logic.
func retryableOperation(ctx context.Context, policy backoff.BackOffContext, opName string, operation func() error) error {
	notify := func(err error, d time.Duration) {
		logger.FromContext(ctx).Warn("Retrying DB operation",
			zap.String("operation", opName),
			zap.Error(err),
			zap.Duration("after", d),
		)
	}

	err := backoff.RetryNotify(func() error {
		err := operation()
		if err != nil {
			// Check for non-retryable errors first
			if errors.Is(err, gorm.ErrRecordNotFound) ||
				errors.Is(err, gorm.ErrInvalidTransaction) ||
				errors.Is(err, apperrors.ErrNotFound) ||
				errors.Is(err, apperrors.ErrDuplicate) ||
				errors.Is(err, apperrors.ErrBadRequest) {
				return backoff.Permanent(err)
			}
			if isTransientError(err) {
				return err // Retry transient errors
			}
			// Treat other errors as permanent by default
			return backoff.Permanent(err)
		}
		return nil
	}, policy, notify)

	return err
}

// isTransientError checks if the error suggests a temporary issue like a
// network problem or a lock conflict worth retrying.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, gomysql.ErrInvalidConn) {
		return true
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		// See https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
		switch myErr.Number {
		case 1205, // ER_LOCK_WAIT_TIMEOUT
			1213, // ER_LOCK_DEADLOCK
			1040, // ER_CON_COUNT_ERROR
			1053, // ER_SERVER_SHUTDOWN
			1317: // ER_QUERY_INTERRUPTED
			return true
		}
		return false
	}

	// Fallback to string matching for common network-related errors
	errStr := strings.ToLower(err.Error())
	transientIndicators := []string{
		"connection refused",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"connection reset by peer",
		"no route to host",
		"invalid connection",
		"connection timed out",
	}
	for _, indicator := range transientIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// checkConstraintViolation inspects database errors and maps them to standard apperrors.
func checkConstraintViolation(err error) error {
	if err == nil {
		return nil
	}

	// Check for specific GORM errors first
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", apperrors.ErrNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", apperrors.ErrDuplicate, err)
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062: // ER_DUP_ENTRY
			return fmt.Errorf("%w: %w", apperrors.ErrDuplicate, err)
		case 1452: // ER_NO_REFERENCED_ROW_2
			return fmt.Errorf("%w: foreign key violation: %w", apperrors.ErrBadRequest, err)
		case 1048: // ER_BAD_NULL_ERROR
			return fmt.Errorf("%w: null value in non-null column: %w", apperrors.ErrBadRequest, err)
		case 1406: // ER_DATA_TOO_LONG
			return fmt.Errorf("%w: value too long for column: %w", apperrors.ErrBadRequest, err)
		case 1205, 1213: // lock wait timeout / deadlock
			return fmt.Errorf("%w: transaction rollback (%d): %w", apperrors.ErrDatabase, myErr.Number, err)
		default:
			return fmt.Errorf("%w: unhandled mysql error %d: %w", apperrors.ErrDatabase, myErr.Number, err)
		}
	}

	// Assume other GORM or generic errors are general database errors
	return fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)
}
