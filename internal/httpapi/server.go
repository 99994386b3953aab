// Package httpapi exposes the dashboard REST API over gin: auth, conversation
// reads, outbound sends, the Meta webhook endpoints and the agent-status
// toggle, plus health and metrics surfaces.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/config"
	"github.com/cebimedya/messaging-dashboard/internal/model"
	"github.com/cebimedya/messaging-dashboard/internal/usecase"
	"github.com/cebimedya/messaging-dashboard/internal/webhook"
)

// Service is the slice of the dashboard service the HTTP layer depends on.
type Service interface {
	Login(ctx context.Context, email, password string) (*model.User, error)
	ListConversations(ctx context.Context, userID int64, platform model.Platform) ([]model.Conversation, error)
	ConversationCounts(ctx context.Context, userID int64) ([]model.ConversationCount, error)
	ListMessages(ctx context.Context, userID int64, platform model.Platform, conversationID string) ([]model.Message, error)
	SendMessage(ctx context.Context, userID int64, in usecase.SendMessageInput) (*model.Message, error)
	RecordInbound(ctx context.Context, userID int64, in *webhook.Inbound) (*model.Message, error)
	GetAgentStatus(ctx context.Context, userID int64, platform model.Platform) (bool, error)
	SetAgentStatus(ctx context.Context, userID int64, platform model.Platform, active bool) error
}

// Pinger reports backing-store liveness for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP front of the dashboard.
type Server struct {
	server  *http.Server
	service Service
	pinger  Pinger
	cfg     *config.Config
	logger  *zap.Logger
}

// NewServer wires the gin engine, middleware and routes.
func NewServer(cfg *config.Config, service Service, pinger Pinger, baseLogger *zap.Logger) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		service: service,
		pinger:  pinger,
		cfg:     cfg,
		logger:  baseLogger.Named("http"),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware())

	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(router *gin.Engine) {
	router.GET("/health", s.handleHealth)
	router.GET("/ready", s.handleReady)
	if s.cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api")
	api.Use(principalMiddleware(s.cfg.Auth.DefaultUserID))
	{
		api.POST("/auth/login", s.handleLogin)

		conversations := api.Group("/conversations")
		{
			conversations.GET("", s.handleListConversations)
			conversations.GET("/counts", s.handleConversationCounts)
			conversations.GET("/:platform/:conversationId/messages", s.handleListMessages)
			conversations.POST("/messages", s.handleSendMessage)
			conversations.POST("/:conversationId/messages", s.handleSendMessage)
			conversations.POST("/whatsapp-incoming", s.handleWhatsAppIncoming)
			conversations.GET("/whatsapp-incoming", s.handleWhatsAppIncoming)
			conversations.POST("/instagram-incoming", s.handleInstagramIncoming)
			conversations.GET("/instagram-incoming", s.handleInstagramIncoming)
		}

		api.GET("/agent-status/:platform", s.handleGetAgentStatus)
		api.POST("/agent-status/:platform", s.handleSetAgentStatus)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Start begins serving in the background. Fatal listen errors surface on the
// returned channel.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)
	s.logger.Info("Starting HTTP server", zap.String("address", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}
