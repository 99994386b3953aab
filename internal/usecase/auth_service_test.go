package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
)

func TestLogin_Success(t *testing.T) {
	service, mocks := newTestService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("sifre123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.NewUser(&model.User{
		ID:           42,
		Email:        "operator@cebimedya.com",
		PasswordHash: string(hash),
	})
	mocks.userRepo.On("FindByEmail", mock.Anything, "operator@cebimedya.com").Return(user, nil)

	result, err := service.Login(ctx, "operator@cebimedya.com", "sifre123")

	require.NoError(t, err)
	assert.Equal(t, int64(42), result.ID)
	assert.Equal(t, "operator@cebimedya.com", result.Email)
	assert.Empty(t, result.PasswordHash)
	mocks.assertExpectations(t)
}

func TestLogin_UnknownEmail(t *testing.T) {
	service, mocks := newTestService(t)
	ctx := context.Background()

	mocks.userRepo.On("FindByEmail", mock.Anything, "nobody@cebimedya.com").
		Return(nil, apperrors.ErrNotFound)

	result, err := service.Login(ctx, "nobody@cebimedya.com", "whatever")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	mocks.assertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	service, mocks := newTestService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.NewUser(&model.User{Email: "operator@cebimedya.com", PasswordHash: string(hash)})
	mocks.userRepo.On("FindByEmail", mock.Anything, "operator@cebimedya.com").Return(user, nil)

	result, err := service.Login(ctx, "operator@cebimedya.com", "wrong")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	mocks.assertExpectations(t)
}

// Wrong password and unknown email must be the same error from the outside.
func TestLogin_FailureModesIndistinguishable(t *testing.T) {
	service, mocks := newTestService(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)

	mocks.userRepo.On("FindByEmail", mock.Anything, "known@cebimedya.com").
		Return(model.NewUser(&model.User{Email: "known@cebimedya.com", PasswordHash: string(hash)}), nil)
	mocks.userRepo.On("FindByEmail", mock.Anything, "unknown@cebimedya.com").
		Return(nil, apperrors.ErrNotFound)

	_, errWrongPassword := service.Login(ctx, "known@cebimedya.com", "wrong")
	_, errUnknownEmail := service.Login(ctx, "unknown@cebimedya.com", "wrong")

	require.Error(t, errWrongPassword)
	require.Error(t, errUnknownEmail)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestLogin_MissingCredentials(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Login(ctx, "", "pass")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = service.Login(ctx, "a@b.com", "")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
