package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
)

// Login verifies an operator's credentials and returns the sanitized account.
// A missing account and a wrong password both come back as ErrUnauthorized so
// the two failure modes cannot be told apart from the outside.
func (s *DashboardService) Login(ctx context.Context, email, password string) (*model.User, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		return nil, apperrors.NewFatal(apperrors.ErrBadRequest, "login failed: email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Info("Login attempt for unknown email", zap.String("email", email))
			return nil, apperrors.NewFatal(apperrors.ErrUnauthorized, "login failed: invalid credentials")
		}
		return nil, handleRepositoryError(ctx, err, "FindUserByEmail", email)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Info("Login attempt with wrong password", zap.Int64("user_id", user.ID))
		return nil, apperrors.NewFatal(apperrors.ErrUnauthorized, "login failed: invalid credentials")
	}

	sanitized := user.Sanitized()
	log.Info("Operator logged in", zap.Int64("user_id", sanitized.ID))
	return &sanitized, nil
}
