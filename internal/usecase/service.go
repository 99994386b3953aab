package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/storage"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
)

// DashboardService implements the conversation, ingestion, auth and
// agent-status flows behind the HTTP layer.
type DashboardService struct {
	userRepo         storage.UserRepo
	conversationRepo storage.ConversationRepo
	messageRepo      storage.MessageRepo
	bufferRepo       storage.BufferRepo
	agentStatusRepo  storage.AgentStatusRepo
	bufferWorker     IBufferWorker
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	userRepo storage.UserRepo,
	conversationRepo storage.ConversationRepo,
	messageRepo storage.MessageRepo,
	bufferRepo storage.BufferRepo,
	agentStatusRepo storage.AgentStatusRepo,
	bufferWorker IBufferWorker,
) *DashboardService {
	return &DashboardService{
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		bufferRepo:       bufferRepo,
		agentStatusRepo:  agentStatusRepo,
		bufferWorker:     bufferWorker,
	}
}

// handleRepositoryError maps standard apperrors from the repository layer
// to FatalError or RetryableError for the use case layer.
func handleRepositoryError(ctx context.Context, err error, operation string, entityID string) error {
	if err == nil {
		return nil
	}

	log := logger.FromContext(ctx)

	logFields := []zap.Field{
		zap.String("operation", operation),
		zap.Error(err),
	}
	if entityID != "" {
		logFields = append(logFields, zap.String("entity_id", entityID))
	}

	// Specific fatal errors (cannot be resolved by retry)
	if errors.Is(err, apperrors.ErrNotFound) {
		log.Warn("Repository operation failed: Not found", logFields...)
		return apperrors.NewFatal(err, "%s failed: resource not found", operation)
	}
	if errors.Is(err, apperrors.ErrDuplicate) {
		log.Warn("Repository operation failed: Duplicate resource", logFields...)
		return apperrors.NewFatal(err, "%s failed: duplicate resource", operation)
	}
	if errors.Is(err, apperrors.ErrBadRequest) {
		log.Warn("Repository operation failed: Bad request", logFields...)
		return apperrors.NewFatal(err, "%s failed: bad request data", operation)
	}
	if errors.Is(err, apperrors.ErrUnauthorized) {
		log.Error("Repository operation failed: Unauthorized", logFields...)
		return apperrors.NewFatal(err, "%s failed: unauthorized", operation)
	}
	if errors.Is(err, apperrors.ErrConflict) {
		log.Warn("Repository operation failed: Conflict", logFields...)
		return apperrors.NewFatal(err, "%s failed: resource conflict", operation)
	}

	// General database errors (potentially transient)
	if errors.Is(err, apperrors.ErrDatabase) {
		log.Error("Repository operation failed: Database error", logFields...)
		return apperrors.NewRetryable(err, "%s failed: database error", operation)
	}

	if errors.Is(err, apperrors.ErrTimeout) {
		log.Warn("Repository operation failed: Timeout", logFields...)
		return apperrors.NewRetryable(err, "%s failed: operation timeout", operation)
	}

	if errors.Is(err, apperrors.ErrNATS) {
		log.Error("Repository operation failed: NATS error", logFields...)
		return apperrors.NewRetryable(err, "%s failed: NATS communication error", operation)
	}

	// Wrap other unexpected errors as fatal by default.
	log.Error("Repository operation failed: Unexpected error", logFields...)
	return apperrors.NewFatal(err, "%s failed: unexpected repository error", operation)
}
