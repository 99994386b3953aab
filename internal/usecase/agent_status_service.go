package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
)

// GetAgentStatus reports whether AI auto-reply is enabled for the operator on
// one platform. A row that was never written reads as inactive.
func (s *DashboardService) GetAgentStatus(ctx context.Context, userID int64, platform model.Platform) (bool, error) {
	if !platform.Valid() {
		return false, apperrors.NewFatal(apperrors.ErrBadRequest, "get agent status failed: unknown platform %q", platform)
	}

	status, err := s.agentStatusRepo.Get(ctx, userID, platform)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, handleRepositoryError(ctx, err, "GetAgentStatus", platform.String())
	}
	return status.Active(), nil
}

// SetAgentStatus toggles AI auto-reply for the operator on one platform via
// an atomic upsert on the (user, platform) unique index.
func (s *DashboardService) SetAgentStatus(ctx context.Context, userID int64, platform model.Platform, active bool) error {
	if !platform.Valid() {
		return apperrors.NewFatal(apperrors.ErrBadRequest, "set agent status failed: unknown platform %q", platform)
	}

	status := model.AgentStatus{
		UserID:   userID,
		Platform: platform,
		Status:   model.StatusString(active),
	}
	if err := s.agentStatusRepo.Upsert(ctx, status); err != nil {
		return handleRepositoryError(ctx, err, "UpsertAgentStatus", platform.String())
	}

	logger.FromContext(ctx).Info("Agent status updated",
		zap.Int64("user_id", userID),
		zap.String("platform", platform.String()),
		zap.String("status", status.Status),
	)
	return nil
}
