package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ahb-manager/core/config"
	"ahb-manager/core/database"
	"ahb-manager/core/diff"
	"ahb-manager/core/loader"
	"ahb-manager/core/logger"
	"ahb-manager/core/middleware/auth"
	"ahb-manager/core/middleware/rayid"
	"ahb-manager/core/storage"
	"ahb-manager/core/store"

	difffeature "ahb-manager/feature/diff"
	"ahb-manager/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "ahb-manager/docs/swagger"
)

// @title AHB Manager API
// @version 1.0
// @description API for comparing EDIFACT MIG and AHB versions.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the AHB manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Row Store (Optional; the diff feature stays disabled without it)
		var db *gorm.DB
		var st *store.Store
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			st = store.New(conn, cfg.Ingest.BatchSize)
			if err := st.Migrate(context.Background()); err != nil {
				logg.Fatal("Failed to migrate row store", zap.Error(err))
			}
			db = conn
			logg = logg.With(zap.String("database", cfg.Database.Driver))
			logg.Info("Connected to row store")
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 4. Initialize Storage
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 5. Initialize Feature Loader
		mgr := loader.NewManager()
		cache := diff.NewCache(cfg.Server.CacheTTL())
		mgr.Register(integrity.NewFeature(client, cfg.Storage.Bucket, logg, db))
		mgr.Register(difffeature.NewFeature(st, cache, client, cfg.Storage.Bucket, logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger stays public
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/swagger"}}))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
