package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/mirefly/paperdiary/internal/config"
	"github.com/mirefly/paperdiary/internal/db"
	"github.com/mirefly/paperdiary/internal/export"
	"github.com/mirefly/paperdiary/internal/filestore"
	"github.com/mirefly/paperdiary/internal/handler"
	"github.com/mirefly/paperdiary/internal/job"
	"github.com/mirefly/paperdiary/internal/middleware"
	"github.com/mirefly/paperdiary/internal/render"
	"github.com/mirefly/paperdiary/internal/repo"
	"github.com/mirefly/paperdiary/internal/schedule"
	"github.com/mirefly/paperdiary/internal/service"
	"github.com/mirefly/paperdiary/internal/store"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "paperdiary",
		Short: "paperdiary backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run paperdiary server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("file_store", cfg.FileStore.Type),
	)

	entryRepo := repo.NewEntryRepo(database)
	artifactRepo := repo.NewExportArtifactRepo(database)

	opTimeout := time.Duration(cfg.Export.OpTimeoutSeconds) * time.Second
	entryStore := store.NewEntryStore(entryRepo, opTimeout)
	if err := entryStore.Load(context.Background()); err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	fonts, err := render.LoadFonts()
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}
	images, err := render.NewImageDecoder(cfg.Export.ImageCacheSize)
	if err != nil {
		return fmt.Errorf("init image decoder: %w", err)
	}
	page := render.NewPage(fonts, images)
	pipeline := export.NewPipeline(page, render.NewSurface())

	files, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	exportService := service.NewExportService(entryStore, pipeline, files, artifactRepo)
	entryExportService := service.NewEntryExportService(entryStore)

	jwtTTL := time.Hour * time.Duration(cfg.JWTTTLHours)
	deps := handler.RouterDeps{
		Session:         handler.NewSessionHandler([]byte(cfg.JWTSecret), jwtTTL),
		Entries:         handler.NewEntryHandler(entryStore, entryExportService),
		Export:          handler.NewExportHandler(exportService),
		JWTSecret:       []byte(cfg.JWTSecret),
		ExportRateLimit: time.Duration(cfg.Export.RateLimitSeconds) * time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSOrigins),
			middleware.RequestID(),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	cleanup := job.NewExportCleanupJob(exportService, time.Duration(cfg.Export.ArtifactMaxAgeHours)*time.Hour)
	if err := scheduler.AddJob(cleanup, cfg.Export.CleanupSpec); err != nil {
		return fmt.Errorf("schedule cleanup: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
