package storage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/observer"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

// GetAgentStatus reads the auto-reply flag for one (user, platform) pair.
// Absence is reported as ErrNotFound; callers treat it as inactive.
func (r *MySQLRepo) GetAgentStatus(ctx context.Context, userID int64, platform model.Platform) (*model.AgentStatus, error) {
	var status model.AgentStatus
	operation := func() error {
		result := r.db.WithContext(ctx).
			Where("user_id = ? AND platform = ?", userID, platform).
			First(&status)
		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	readPolicy := newRetryPolicy(ctx, readRetryMaxElapsedTime)
	startTime := utils.Now()
	findErr := retryableOperation(ctx, readPolicy, "GetAgentStatus", operation)
	observer.ObserveDbOperationDuration("find", "agent_status", time.Since(startTime), findErr)

	if findErr != nil {
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.FromContext(ctx).Error("Failed to read agent status after retries",
			zap.Int64("user_id", userID),
			zap.String("platform", platform.String()),
			zap.Error(findErr))
		return nil, findErr
	}

	return &status, nil
}

// UpsertAgentStatus writes the flag atomically, keyed on the unique
// (user_id, platform) index. One statement, no check-then-act window.
func (r *MySQLRepo) UpsertAgentStatus(ctx context.Context, status model.AgentStatus) error {
	status.UpdatedAt = utils.Now()

	operation := func() error {
		result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).Create(&status)

		if result.Error != nil {
			return checkConstraintViolation(result.Error)
		}
		return nil
	}

	commitPolicy := newRetryPolicy(ctx, commitRetryMaxElapsedTime)
	startTime := utils.Now()
	commitErr := retryableOperation(ctx, commitPolicy, "UpsertAgentStatus", operation)
	observer.ObserveDbOperationDuration("upsert", "agent_status", time.Since(startTime), commitErr)

	if commitErr != nil {
		logger.FromContext(ctx).Error("Failed to upsert agent status after retries",
			zap.Int64("user_id", status.UserID),
			zap.String("platform", status.Platform.String()),
			zap.Error(commitErr))
		return commitErr
	}

	return nil
}
