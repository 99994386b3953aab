package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
)

func TestMySQLRepo_FindUnprocessedBuffer(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "session_id", "message_type", "message_text", "is_processed", "timestamp"}).
		AddRow("buf-1", testConversationID, "text", "hello", false, time.Now().Add(-time.Minute)).
		AddRow("buf-2", testConversationID, "text", "again", false, time.Now())

	mock.ExpectQuery("SELECT \\* FROM `message_buffer` WHERE is_processed = \\? ORDER BY timestamp ASC LIMIT").
		WithArgs(false, 100).
		WillReturnRows(rows)

	result, err := repo.FindUnprocessedBuffer(ctx, 100)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "buf-1", result[0].ID)
	assert.False(t, result[0].IsProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_MarkBufferProcessed_Success(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE `message_buffer` SET `is_processed`=\\? WHERE id = \\?").
		WithArgs(true, "buf-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkBufferProcessed(ctx, "buf-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRepo_MarkBufferProcessed_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)
	ctx := context.Background()

	mock.ExpectExec("UPDATE `message_buffer` SET `is_processed`=\\? WHERE id = \\?").
		WithArgs(true, "buf-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkBufferProcessed(ctx, "buf-missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
