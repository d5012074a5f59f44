package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"webcarros/internal/adapter/api"
	"webcarros/internal/adapter/api/handler"
	apimiddleware "webcarros/internal/adapter/api/middleware"
	"webcarros/internal/adapter/api/router"
	"webcarros/internal/adapter/repository"
	"webcarros/internal/domain/service"
	"webcarros/internal/infrastructure/events"
	"webcarros/internal/infrastructure/firebase"
	"webcarros/internal/infrastructure/metrics"
	"webcarros/internal/infrastructure/storage"
	"webcarros/internal/infrastructure/websocket"
	"webcarros/internal/session"
	"webcarros/internal/usecase"
	"webcarros/pkg/config"
	"webcarros/pkg/logger"
	"webcarros/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.LogLevel, cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt, err := credentials(cfg)
	if err != nil {
		logger.Fatal("%v", err)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		StorageBucket: cfg.StorageBucket,
	}, opt)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		logger.Fatal("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	objectStore, err := newObjectStore(ctx, cfg, opt)
	if err != nil {
		logger.Fatal("Failed to initialize object store: %v", err)
	}
	defer objectStore.Close()

	var publisher service.EventPublisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			logger.Fatal("Failed to connect to NATS: %v", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("Publishing listing events to %s", cfg.NATSURL)
	}

	metricsManager := metrics.NewMetricsManager("webcarros")

	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	mediaObjectRepo := repository.NewFirestoreMediaObjectRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	registry := session.NewRegistry(firebaseAuthClient, cfg.SessionIdleTimeout)
	defer registry.Close()
	go registry.Run(ctx, time.Minute)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(firebaseAuthClient)
	listingUseCase := usecase.NewListingUseCase(listingRepo, mediaObjectRepo, objectStore, publisher, metricsManager)
	composerUseCase := usecase.NewComposerUseCase(listingRepo, publisher, metricsManager)
	mediaUseCase := usecase.NewMediaUseCase(objectStore, mediaObjectRepo, metricsManager, cfg.MaxUploadBytes)

	handler.Setup(authUseCase, listingUseCase, composerUseCase, mediaUseCase, wsManager)
	handler.SetupHealthHandler(registry.Len)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(apimiddleware.Metrics(metricsManager))

	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if err := response.Error(c, err); err != nil {
			logger.Error("Failed to write error response: %v", err)
		}
	}

	sessionMiddleware := apimiddleware.NewSessionMiddleware(registry, cfg.SessionCookieName, cfg.IsProduction())
	router.Setup(e, sessionMiddleware, metricsManager.Handler())

	e.Server.ReadTimeout = 30 * time.Second
	e.Server.WriteTimeout = 60 * time.Second

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}

func credentials(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON)), nil
	}

	if _, err := os.Stat(cfg.FirebaseServiceAccountPath); err != nil {
		return nil, errors.New("service account file does not exist: " + cfg.FirebaseServiceAccountPath)
	}

	logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
	return option.WithCredentialsFile(cfg.FirebaseServiceAccountPath), nil
}

func newObjectStore(ctx context.Context, cfg *config.Config, opt option.ClientOption) (service.ObjectStore, error) {
	if cfg.StorageDriver == "minio" {
		logger.Info("Storing images in MinIO at %s", cfg.MinIOEndpoint)
		return storage.NewMinIOClient(ctx, storage.MinIOOptions{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.StorageBucket,
			UseSSL:    cfg.MinIOUseSSL,
			PublicURL: cfg.MinIOPublicURL,
		})
	}

	logger.Info("Storing images in Cloud Storage bucket %s", cfg.StorageBucket)
	return storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
}
