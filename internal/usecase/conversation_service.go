package usecase

import (
	"context"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
)

// ListConversations returns the operator's conversations ordered by most
// recent activity. platform may be empty to list every platform.
func (s *DashboardService) ListConversations(ctx context.Context, userID int64, platform model.Platform) ([]model.Conversation, error) {
	if platform != "" && !platform.Valid() {
		return nil, apperrors.NewFatal(apperrors.ErrBadRequest, "list conversations failed: unknown platform %q", platform)
	}

	conversations, err := s.conversationRepo.ListByUserID(ctx, userID, platform)
	if err != nil {
		return nil, handleRepositoryError(ctx, err, "ListConversationsByUserID", "")
	}
	return conversations, nil
}

// ConversationCounts returns the per-platform conversation tally for the
// operator. Platforms without conversations are absent from the result.
func (s *DashboardService) ConversationCounts(ctx context.Context, userID int64) ([]model.ConversationCount, error) {
	counts, err := s.conversationRepo.CountsByUserID(ctx, userID)
	if err != nil {
		return nil, handleRepositoryError(ctx, err, "ConversationCountsByUserID", "")
	}
	return counts, nil
}

// ListMessages returns one conversation's thread, oldest first. The
// conversation must belong to the operator; a foreign or unknown id reads as
// not found.
func (s *DashboardService) ListMessages(ctx context.Context, userID int64, platform model.Platform, conversationID string) ([]model.Message, error) {
	if !platform.Valid() {
		return nil, apperrors.NewFatal(apperrors.ErrBadRequest, "list messages failed: unknown platform %q", platform)
	}

	conversation, err := s.conversationRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, handleRepositoryError(ctx, err, "FindConversationByID", conversationID)
	}
	if conversation.UserID != userID {
		return nil, apperrors.NewFatal(apperrors.ErrNotFound, "list messages failed: conversation %s not found", conversationID)
	}

	messages, err := s.messageRepo.ListByConversationID(ctx, conversationID, platform)
	if err != nil {
		return nil, handleRepositoryError(ctx, err, "ListMessagesByConversationID", conversationID)
	}
	return messages, nil
}
