package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
)

func TestMySQLRepo_GetAgentStatus_Found(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "user_id", "platform", "status", "updated_at"}).
		AddRow(7, testUserID, "whatsapp", "active", time.Now())

	mock.ExpectQuery("SELECT \\* FROM `agent_statuses` WHERE user_id = \\? AND platform = \\?").
		WithArgs(testUserID, "whatsapp", 1).
		WillReturnRows(rows)

	status, err := repo.GetAgentStatus(ctx, testUserID, model.PlatformWhatsApp)

	assert.NoError(t, err)
	assert.True(t, status.Active())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_GetAgentStatus_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT \\* FROM `agent_statuses` WHERE user_id = \\? AND platform = \\?").
		WithArgs(testUserID, "instagram", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	status, err := repo.GetAgentStatus(ctx, testUserID, model.PlatformInstagram)

	assert.Nil(t, status)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_UpsertAgentStatus(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO `agent_statuses` (.+) ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(7, 1))

	err := repo.UpsertAgentStatus(ctx, model.AgentStatus{
		UserID:   testUserID,
		Platform: model.PlatformWhatsApp,
		Status:   model.AgentStatusActive,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
