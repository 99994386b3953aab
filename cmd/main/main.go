package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/cebimedya/messaging-dashboard/internal/config"
	"github.com/cebimedya/messaging-dashboard/internal/httpapi"
	"github.com/cebimedya/messaging-dashboard/internal/jetstream"
	"github.com/cebimedya/messaging-dashboard/internal/observer"
	"github.com/cebimedya/messaging-dashboard/internal/storage"
	"github.com/cebimedya/messaging-dashboard/internal/usecase"
	"github.com/cebimedya/messaging-dashboard/pkg/logger"
	"github.com/cebimedya/messaging-dashboard/pkg/utils"
)

func main() {
	// Set timezone to UTC
	time.Local = time.UTC

	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	observer.InitMetrics(cfg.Metrics.Enabled)

	logger.Log.Info("Starting messaging dashboard API",
		zap.String("environment", cfg.Environment),
		zap.Int("port", cfg.Server.Port),
		zap.String("nats_url", cfg.NATS.URL),
	)

	// Initialize MySQL repository
	mysqlRepo, err := storage.NewMySQLRepo(cfg.Database.MysqlDSN, cfg.Database.AutoMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize MySQL repository", zap.Error(err))
	}

	// Create repository adapters for the service
	userRepo := storage.NewUserRepoAdapter(mysqlRepo)
	conversationRepo := storage.NewConversationRepoAdapter(mysqlRepo)
	messageRepo := storage.NewMessageRepoAdapter(mysqlRepo)
	bufferRepo := storage.NewBufferRepoAdapter(mysqlRepo)
	agentStatusRepo := storage.NewAgentStatusRepoAdapter(mysqlRepo)

	// The buffer hand-off is optional: without a NATS URL the rows simply stay
	// unprocessed in message_buffer for an external consumer.
	var (
		jsClient     *jetstream.Client
		bufferWorker *usecase.BufferWorker
	)
	if cfg.NATS.URL != "" {
		jsClient, err = jetstream.NewClient(cfg.NATS.URL)
		if err != nil {
			logger.Log.Fatal("Failed to initialize JetStream client", zap.Error(err))
		}

		setupCtx, setupCancel := context.WithTimeout(context.Background(), 15*time.Second)
		err = jsClient.SetupStream(setupCtx, &nats.StreamConfig{
			Name:     cfg.NATS.BufferStream,
			Subjects: []string{cfg.NATS.BufferSubject + ".>"},
			Storage:  nats.FileStorage,
		})
		setupCancel()
		if err != nil {
			logger.Log.Fatal("Failed to set up buffer stream", zap.Error(err))
		}

		bufferWorker, err = usecase.NewBufferWorker(
			cfg.WorkerPools.Buffer,
			bufferRepo,
			jsClient,
			cfg.NATS.BufferSubject,
			logger.Log,
		)
		if err != nil {
			logger.Log.Fatal("Failed to initialize buffer worker pool", zap.Error(err))
		}
	} else {
		logger.Log.Warn("NATS URL not configured, buffer publishing disabled")
	}

	// Create the service. A nil *BufferWorker must not end up inside the
	// interface value or the nil checks downstream stop working.
	var worker usecase.IBufferWorker
	if bufferWorker != nil {
		worker = bufferWorker
	}
	service := usecase.NewDashboardService(userRepo, conversationRepo, messageRepo, bufferRepo, agentStatusRepo, worker)

	// Create and start the HTTP server
	server := httpapi.NewServer(cfg, service, mysqlRepo, logger.Log)
	serverErr := server.Start()

	logger.Log.Info("API endpoints available",
		zap.String("health", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.String("readiness", fmt.Sprintf("http://localhost:%d/ready", cfg.Server.Port)),
	)

	// Wait for termination signal or a fatal server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Log.Info("Received termination signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Log.Error("HTTP server failed, initiating shutdown", zap.Error(err))
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Log.Info("Starting graceful shutdown", zap.Duration("timeout", 30*time.Second))

	var wg sync.WaitGroup
	wg.Add(1)

	// Shutdown HTTP server first so no new work arrives
	utils.SafeGo(func() {
		defer wg.Done()
		logger.Log.Info("[shutdown] Stopping HTTP server")
		start := time.Now()
		if err := server.Stop(shutdownCtx); err != nil {
			logger.Log.Error("[shutdown] HTTP server shutdown error", zap.Error(err))
		}
		logger.Log.Info("[shutdown] HTTP server stopped",
			zap.Duration("duration", time.Since(start)))
	}, func(r interface{}, stack []byte) {
		logger.Log.Error("[shutdown] Panic while stopping HTTP server",
			zap.Any("panic", r),
			zap.ByteString("stack", stack),
		)
		wg.Done()
	})

	if bufferWorker != nil {
		wg.Add(1)
		utils.SafeGo(func() {
			defer wg.Done()
			logger.Log.Info("[shutdown] Stopping buffer worker pool")
			start := time.Now()
			bufferWorker.Stop()
			logger.Log.Info("[shutdown] Buffer worker pool stopped",
				zap.Duration("duration", time.Since(start)))
		}, func(r interface{}, stack []byte) {
			logger.Log.Error("[shutdown] Panic while stopping buffer worker pool",
				zap.Any("panic", r),
				zap.ByteString("stack", stack),
			)
			wg.Done()
		})
	}

	// Wait for components, then close the external connections they use
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Log.Warn("Graceful shutdown timed out")
	}

	if jsClient != nil {
		jsClient.Close()
	}
	if err := mysqlRepo.Close(shutdownCtx); err != nil {
		logger.Log.Error("[shutdown] Failed to close MySQL connection", zap.Error(err))
	}

	logger.Log.Info("Shutdown complete")
}
