package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/observer"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

// FindUserByEmail looks up an operator account by email.
func (r *MySQLRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	operation := func() error {
		result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindUserByEmail", operation)
	observer.ObserveDbOperationDuration("find", "user", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to find user by email after retries",
			zap.String("email", email),
			zap.Error(findErr))
		return nil, findErr
	}

	return &user, nil
}

// FindUserByID looks up an operator account by primary key.
func (r *MySQLRepo) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	operation := func() error {
		result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "FindUserByID", operation)
	observer.ObserveDbOperationDuration("find", "user", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to find user by id after retries",
			zap.Int64("user_id", id),
			zap.Error(findErr))
		return nil, findErr
	}

	return &user, nil
}
