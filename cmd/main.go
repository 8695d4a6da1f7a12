package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/franciscosanchezn/docky-api/internal/app"
	"github.com/franciscosanchezn/docky-api/internal/config"
	"github.com/franciscosanchezn/docky-api/internal/database"
	"github.com/franciscosanchezn/docky-api/internal/repository"
	"github.com/franciscosanchezn/docky-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// @title Docky API
// @version 1.0
// @description Document submission portal: users upload files before a deadline, admins review them.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log := logrus.New()

	// Load environment variables
	loadDotenvFile(log)

	// Initialize logger
	setUpLogger(log)

	// Load configuration
	conf, err := config.LoadConfig()
	checkFatalErr(log, err, "Failed to load configuration")
	if conf.LogLevel != "" {
		if level, err := logrus.ParseLevel(conf.LogLevel); err == nil {
			log.SetLevel(level)
		} else {
			log.WithField("log_level", conf.LogLevel).Warn("Unknown LOG_LEVEL, keeping the environment default")
		}
	}
	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	dbConfig := database.DatabaseConfig{
		Driver:         conf.DBDriver,
		URL:            conf.DatabaseURL,
		Path:           conf.DBPath,
		ConnectRetries: conf.DBConnectRetries,
	}
	log.Infof("Connecting with %s", dbConfig.String())
	db, err := database.InitDatabase(dbConfig)
	checkFatalErr(log, err, "Failed to connect to database")
	checkFatalErr(log, database.Migrate(db), "Failed to migrate database")

	// Provision the sanctioned admin account
	if conf.AdminPassword != "" {
		admin, created, err := services.BootstrapAdmin(ctx, repository.NewUserRepository(db), conf.AdminName, conf.AdminEmail, conf.AdminPassword)
		checkFatalErr(log, err, "Failed to provision admin account")
		log.WithFields(logrus.Fields{"user_id": admin.ID, "created": created}).Info("Admin account ready")
	} else {
		log.Info("ADMIN_PASSWORD not set, skipping admin provisioning")
	}

	files, err := app.NewStorage(ctx, conf)
	checkFatalErr(log, err, "Failed to open document storage")

	// Start the server
	if err := app.New(conf, db, files, log).Run(ctx); err != nil {
		log.WithError(err).Fatal("Server stopped with an error")
	}
	log.Info("Server stopped")
}

// checkFatalErr logs err and exits when it is not nil
func checkFatalErr(log *logrus.Logger, err error, message string) {
	if err != nil {
		log.WithError(err).Fatal(message)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile(log *logrus.Logger) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger(log *logrus.Logger) {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(config.LevelForEnvironment(config.GetEnvWithDefault("APP_ENV", "development")))
}
