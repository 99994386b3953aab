package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
)

func TestMySQLRepo_CreateConversation_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	conv := model.NewConversation(&model.Conversation{
		ID:       testConversationID,
		UserID:   testUserID,
		Platform: model.PlatformWhatsApp,
	})

	mock.ExpectExec("INSERT INTO `conversations`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateConversation(ctx, *conv)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_CreateConversation_Duplicate(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	conv := model.NewConversation(&model.Conversation{
		ID:     testConversationID,
		UserID: testUserID,
	})

	mock.ExpectExec("INSERT INTO `conversations`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.CreateConversation(ctx, *conv)

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_FindConversationByContact_Found(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "user_id", "platform", "contact_key", "contact_name", "unread_count"}).
		AddRow(testConversationID, testUserID, "whatsapp", "+90555", "Ali", 3)

	mock.ExpectQuery("SELECT \\* FROM `conversations` WHERE user_id = \\? AND platform = \\? AND contact_key = \\?").
		WithArgs(testUserID, "whatsapp", "+90555", 1).
		WillReturnRows(rows)

	conv, err := repo.FindConversationByContact(ctx, testUserID, model.PlatformWhatsApp, "+90555")

	assert.NoError(t, err)
	assert.Equal(t, testConversationID, conv.ID)
	assert.Equal(t, int32(3), conv.UnreadCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_FindConversationByContact_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT \\* FROM `conversations` WHERE user_id = \\? AND platform = \\? AND contact_key = \\?").
		WithArgs(testUserID, "whatsapp", "+90555", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	conv, err := repo.FindConversationByContact(ctx, testUserID, model.PlatformWhatsApp, "+90555")

	assert.Nil(t, conv)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_ListConversationsByUserID_PlatformFilter(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "user_id", "platform", "contact_name", "updated_at"}).
		AddRow("conv-1", testUserID, "whatsapp", "Ali", time.Now()).
		AddRow("conv-2", testUserID, "whatsapp", "Veli", time.Now().Add(-time.Hour))

	mock.ExpectQuery("SELECT \\* FROM `conversations` WHERE user_id = \\? AND platform = \\? ORDER BY updated_at DESC").
		WithArgs(testUserID, "whatsapp").
		WillReturnRows(rows)

	conversations, err := repo.ListConversationsByUserID(ctx, testUserID, model.PlatformWhatsApp)

	assert.NoError(t, err)
	assert.Len(t, conversations, 2)
	assert.Equal(t, "conv-1", conversations[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_ListConversationsByUserID_AllPlatforms(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT \\* FROM `conversations` WHERE user_id = \\? ORDER BY updated_at DESC").
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	conversations, err := repo.ListConversationsByUserID(ctx, testUserID, "")

	assert.NoError(t, err)
	assert.Empty(t, conversations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_ConversationCountsByUserID(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"platform", "count"}).
		AddRow("whatsapp", 5).
		AddRow("instagram", 2)

	mock.ExpectQuery("SELECT platform, COUNT\\(id\\) AS count FROM `conversations` WHERE user_id = \\? GROUP BY `platform`").
		WithArgs(testUserID).
		WillReturnRows(rows)

	counts, err := repo.ConversationCountsByUserID(ctx, testUserID)

	assert.NoError(t, err)
	assert.Len(t, counts, 2)
	assert.Equal(t, model.PlatformWhatsApp, counts[0].Platform)
	assert.Equal(t, int64(5), counts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_TouchConversationLastMessage_Increment(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectExec("UPDATE `conversations` SET").
		WithArgs("hello", AnyTime{}, AnyTime{}, testConversationID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.TouchConversationLastMessage(ctx, testConversationID, "hello", now, true)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_TouchConversationLastMessage_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE `conversations` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.TouchConversationLastMessage(ctx, testConversationID, "hello", time.Now(), false)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
