package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

// handleLogin verifies operator credentials. The response never carries the
// password hash.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewFatal(apperrors.ErrBadRequest, "email and password are required"))
		return
	}

	user, err := s.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Message: "login successful", User: *user})
}
