package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "conselhoreal/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"conselhoreal/internal/auth"
	"conselhoreal/internal/cache"
	"conselhoreal/internal/config"
	"conselhoreal/internal/handler"
	"conselhoreal/internal/logging"
	"conselhoreal/internal/metrics"
	"conselhoreal/internal/repository"
	"conselhoreal/internal/router"
	"conselhoreal/internal/service"
	"conselhoreal/internal/storage"
)

// @title Conselho Real API
// @version 1.0
// @description Community API of the Conselho Real: agenda, notices, prayers, gallery, members, diary, recados and the house catalog of entities.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	repo, err := repository.New(ctx, cfg, logger, m)
	if err != nil {
		logger.Fatal("repository init", zap.Error(err))
	}
	defer func() { _ = repo.Close() }()

	store := newStore(ctx, cfg, logger)

	jwtService := auth.NewJWTService(cfg.SessionSecret(repo.Mode() == repository.ModeRemote))
	tokenStore := auth.NewTokenStore(store)

	uploader, opener := newUploader(ctx, cfg, store, logger)

	// Initialize services
	authService := service.NewAuthService(repo, jwtService, tokenStore, m, logger)
	userService := service.NewUserService(repo, store)
	eventService := service.NewEventService(repo)
	announcementService := service.NewAnnouncementService(repo)
	prayerService := service.NewPrayerService(repo)
	galleryService := service.NewGalleryService(repo, uploader, logger)
	diaryService := service.NewDiaryService(repo)
	messageService := service.NewMessageService(repo)
	memberEntityService := service.NewMemberEntityService(repo)
	spiritualService := service.NewSpiritualService(repo, store)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, router.Deps{
		Logger:     logger,
		Metrics:    m,
		JWT:        jwtService,
		TokenStore: tokenStore,
		Mode:       repo.Mode(),
	}, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Users:    handler.NewUserHandler(userService),
		Events:   handler.NewEventHandler(eventService),
		Notices:  handler.NewNoticeHandler(announcementService, prayerService),
		Gallery:  handler.NewGalleryHandler(galleryService, opener),
		Diary:    handler.NewDiaryHandler(diaryService),
		Recados:  handler.NewMessageHandler(messageService),
		Entities: handler.NewEntityHandler(memberEntityService, spiritualService),
	})

	logger.Info("swagger documentation available", zap.String("url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort)))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

// newStore returns redis when configured and reachable, an in-process cache otherwise.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) cache.Store {
	if cfg.RedisAddr == "" {
		logger.Info("redis not configured, using in-process cache")
		return cache.NewMemory(10 * time.Minute)
	}
	client := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, logger)
	if err := client.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, using in-process cache", zap.Error(err))
		_ = client.Close()
		return cache.NewMemory(10 * time.Minute)
	}
	return client
}

// newUploader picks S3 when object storage is configured. The in-process
// uploader also serves its images back, so it is returned as the opener.
func newUploader(ctx context.Context, cfg *config.Config, store cache.Store, logger *zap.Logger) (storage.Uploader, handler.UploadOpener) {
	if cfg.ObjectStorageConfigured() {
		s3Uploader, err := storage.NewS3Uploader(ctx, cfg)
		if err == nil {
			return s3Uploader, nil
		}
		logger.Warn("object storage init failed, keeping uploads in process", zap.Error(err))
	}
	local := storage.NewLocalUploader(store)
	return local, local
}

func swaggerURL(host, port string) string {
	switch {
	case host == "":
		return "http://localhost:" + port + "/swagger/index.html"
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host + "/swagger/index.html"
	default:
		return "http://" + host + "/swagger/index.html"
	}
}
