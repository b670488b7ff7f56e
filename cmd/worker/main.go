// Command worker boots the admin HTTP surface and the demo control channel
// around the Peer core, wiring config, logging, metrics, and tracing the
// same way cmd/signal did in the original codebase.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"peercore/internal/core/peer"
	"peercore/internal/infrastructure/adminhttp"
	"peercore/internal/infrastructure/channel"
	"peercore/internal/infrastructure/metrics"
	"peercore/internal/infrastructure/room"
	"peercore/pkg/config"
	"peercore/pkg/logger"
	"peercore/pkg/tracing"
)

func main() {
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/peercore/config.yaml",
	}

	var cfg *config.Config
	var err error
	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	log := logger.New(cfg.Logging.Level)
	defer log.Sync()

	tp, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	collector := metrics.NewCollector()
	listener := room.NewLoggingListener(log)
	auth := channel.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	channelServer := channel.NewServer(cfg, auth, listener, log, peer.WithMetrics(collector))

	gin.SetMode(gin.ReleaseMode)
	adminRouter := gin.New()
	adminRouter.Use(gin.Recovery())
	adminRouter.Use(adminhttp.ErrorHandlerMiddleware(log))
	adminhttp.NewHandler(channelServer).SetupRoutes(adminRouter)
	adminRouter.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	adminHTTP := &http.Server{
		Addr:         cfg.Admin.Address,
		Handler:      adminRouter,
		ReadTimeout:  cfg.Admin.ReadTimeout,
		WriteTimeout: cfg.Admin.WriteTimeout,
	}

	channelMux := http.NewServeMux()
	channelMux.HandleFunc("/ws", channelServer.HandleWebSocket)
	channelHTTP := &http.Server{
		Addr:    cfg.Channel.Address,
		Handler: channelMux,
	}

	go func() {
		log.Info("admin http listening", zap.String("address", cfg.Admin.Address))
		if err := adminHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("admin http server failed", zap.Error(err))
		}
	}()

	go func() {
		log.Info("control channel listening", zap.String("address", cfg.Channel.Address))
		if err := channelHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("channel server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Admin.ShutdownTimeout)
	defer cancel()
	if err := adminHTTP.Shutdown(ctx); err != nil {
		log.Warn("admin http shutdown error", zap.Error(err))
	}

	chCtx, chCancel := context.WithTimeout(context.Background(), cfg.Channel.ShutdownTimeout)
	defer chCancel()
	if err := channelHTTP.Shutdown(chCtx); err != nil {
		log.Warn("channel shutdown error", zap.Error(err))
	}
}
