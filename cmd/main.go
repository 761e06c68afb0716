package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/auth"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/config"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/controllers"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/database"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/middleware"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/router"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/services"
	"github.com/franciscosanchezn/gin-fastfood-api/internal/storage"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

// @title Fast Food API
// @version 1.0
// @description Menu, combo and order service for a fast food restaurant
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	app := &cli.App{
		Name:  "fastfood-api",
		Usage: "fast food ordering and pricing service",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "migrate, seed and start the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: migrate,
			},
			{
				Name:   "seed",
				Usage:  "insert the admin account and the starter menu into empty tables",
				Action: seed,
			},
			{
				Name:  "create-client",
				Usage: "register an OAuth2 client_credentials client for an existing user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "email of the owning user", Required: true},
					&cli.StringFlag{Name: "name", Usage: "display name of the client", Value: "dev-client"},
					&cli.StringFlag{Name: "scopes", Usage: "space separated scopes"},
				},
				Action: createClient,
			},
			{
				Name:   "purge-tokens",
				Usage:  "delete expired OAuth2 access tokens",
				Action: purgeTokens,
			},
		},
		// serve is the default command
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("Command failed")
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// loadConfig loads the application configuration and applies its log level
// to every package logger
func loadConfig() (*config.Config, error) {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	setUpLogger(conf)
	log.Infof("Configuration loaded: %s", conf)
	return conf, nil
}

// setUpLogger initializes the loggers with the configured level
func setUpLogger(conf *config.Config) {
	level := config.LevelForEnvironment(conf.Environment)
	if conf.LogLevel != "" {
		if parsed, err := log.ParseLevel(conf.LogLevel); err == nil {
			level = parsed
		} else {
			log.WithField("log_level", conf.LogLevel).Warn("Unknown LOG_LEVEL, using environment default")
		}
	}

	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(level)
	database.SetLogLevel(level)
	services.SetLogLevel(level)
	auth.SetLogLevel(level)
	middleware.SetLogLevel(level)
	controllers.SetLogLevel(level)
	storage.SetLogLevel(level)
}

// openDatabase connects using the DB_* environment variables
func openDatabase(ctx context.Context) (*gorm.DB, error) {
	dbConf, err := database.LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	log.Infof("Database configuration: %s", dbConf.String())
	return database.InitDatabase(ctx, dbConf)
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func serve(c *cli.Context) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDatabase(c.Context)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.Seed(db, seedOptions(conf)); err != nil {
		return err
	}
	if err := os.MkdirAll(conf.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	srv := &http.Server{
		Addr:              conf.Addr(),
		Handler:           router.NewRouter(conf, db),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", conf.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exited properly")
	return nil
}

func migrate(c *cli.Context) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	db, err := openDatabase(c.Context)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Info("Schema migrated")
	return nil
}

func seed(c *cli.Context) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDatabase(c.Context)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	return database.Seed(db, seedOptions(conf))
}

func seedOptions(conf *config.Config) database.SeedOptions {
	return database.SeedOptions{
		AdminEmail:    conf.SeedAdminEmail,
		AdminPassword: conf.SeedAdminPassword,
	}
}

// createClient prints the credentials of a new client. The secret is shown only once.
func createClient(c *cli.Context) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	db, err := openDatabase(c.Context)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	sanitizer := services.NewSanitizer()
	owner, err := services.NewUserService(db, sanitizer).GetUserByEmail(c.Context, c.String("owner"))
	if err != nil {
		return err
	}

	client, secret, err := services.NewClientService(db).RegisterClient(c.Context, owner.ID, models.ClientInput{
		Name:   c.String("name"),
		Scopes: c.String("scopes"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Client ID: %s\nClient Secret: %s\nOwner: %s (%s)\n",
		client.ID, secret, owner.Email, owner.Role)
	return nil
}

func purgeTokens(c *cli.Context) error {
	if _, err := loadConfig(); err != nil {
		return err
	}
	db, err := openDatabase(c.Context)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	purged, err := auth.NewGormTokenStore(db).PurgeExpired(c.Context, time.Now())
	if err != nil {
		return err
	}
	log.WithField("purged", purged).Info("Expired tokens removed")
	return nil
}
