package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Message string `json:"message"`
}

// statusForError maps apperrors sentinel kinds onto HTTP statuses. Anything
// unclassified is a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrTimeout):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// respondError writes the error body for err. Server-side failures get a
// generic message so internals never leak to the client.
func respondError(c *gin.Context, err error) {
	status := statusForError(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("Request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, errorResponse{Message: message})
}
