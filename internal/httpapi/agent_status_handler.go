package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cebimedya/messaging-dashboard/internal/apperrors"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/principal"
)

type agentStatusRequest struct {
	Status *bool `json:"status" binding:"required"`
}

type agentStatusResponse struct {
	Status bool `json:"status"`
}

// handleGetAgentStatus reads the auto-reply flag for one platform. A flag
// that was never written reads as false.
func (s *Server) handleGetAgentStatus(c *gin.Context) {
	userID := principal.MustFromContext(c.Request.Context())
	platform := model.Platform(c.Param("platform"))

	active, err := s.service.GetAgentStatus(c.Request.Context(), userID, platform)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agentStatusResponse{Status: active})
}

// handleSetAgentStatus toggles the auto-reply flag for one platform.
func (s *Server) handleSetAgentStatus(c *gin.Context) {
	userID := principal.MustFromContext(c.Request.Context())
	platform := model.Platform(c.Param("platform"))

	var req agentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		respondError(c, apperrors.NewFatal(apperrors.ErrBadRequest, "status boolean is required"))
		return
	}

	if err := s.service.SetAgentStatus(c.Request.Context(), userID, platform, *req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, agentStatusResponse{Status: *req.Status})
}
