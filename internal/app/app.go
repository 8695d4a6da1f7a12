// Package app wires configuration, persistence and the HTTP layer into a
// runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/franciscosanchezn/docky-api/internal/auth"
	"github.com/franciscosanchezn/docky-api/internal/config"
	"github.com/franciscosanchezn/docky-api/internal/controllers"
	"github.com/franciscosanchezn/docky-api/internal/metrics"
	"github.com/franciscosanchezn/docky-api/internal/repository"
	"github.com/franciscosanchezn/docky-api/internal/routes"
	"github.com/franciscosanchezn/docky-api/internal/services"
	"github.com/franciscosanchezn/docky-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App is the application context handed to every layer at startup.
type App struct {
	Config  *config.Config
	DB      *gorm.DB
	Storage storage.Storage
	Metrics *metrics.Metrics
	Router  *gin.Engine
	log     logrus.FieldLogger
}

// New builds repositories, services and controllers on top of db and files
// and registers the routes.
func New(cfg *config.Config, db *gorm.DB, files storage.Storage, log logrus.FieldLogger) *App {
	m := metrics.New()

	users := repository.NewUserRepository(db)
	documents := repository.NewDocumentRepository(db)
	settings := repository.NewSettingsRepository(db)

	issuer := auth.NewTokenIssuer(db, users, cfg.JWTSecret)
	verifier := auth.NewTokenVerifier(cfg.JWTSecret)

	authService := services.NewAuthService(users, issuer, cfg.AdminEmail, log)
	documentService := services.NewDocumentService(documents, settings, files, log)
	adminService := services.NewAdminService(users, documents, log)
	settingsService := services.NewSettingsService(settings, log)

	router := gin.New()
	routes.Setup(router, routes.Controllers{
		Auth:      controllers.NewAuthController(authService, m, log),
		Documents: controllers.NewDocumentController(documentService, cfg.MaxUploadBytes(), m, log),
		Admin:     controllers.NewAdminController(adminService, log),
		Settings:  controllers.NewSettingsController(settingsService, log),
		Health:    controllers.NewHealthController(db),
	}, verifier, m, log, routes.Options{
		CORSOrigins: cfg.CORSOrigins,
		Swagger:     cfg.Swagger,
		SwaggerHost: fmt.Sprintf("localhost:%d", cfg.Port),
	})

	return &App{
		Config:  cfg,
		DB:      db,
		Storage: files,
		Metrics: m,
		Router:  router,
		log:     log,
	}
}

// NewStorage opens the document store selected by STORAGE_DRIVER.
func NewStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		s3, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	case config.StorageLocal, "":
		local, err := storage.NewLocalStorage(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.Config.Host, a.Config.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
