package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	_ "portfolio-service/docs"
	"portfolio-service/internal/config"
	"portfolio-service/internal/handlers"
	"portfolio-service/internal/logging"
	"portfolio-service/internal/metrics"
	"portfolio-service/internal/repository"
	"portfolio-service/internal/services"
	"portfolio-service/internal/storage"
)

func main() {
	cfg := InitConfig()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	db := ConnectDatabase(cfg, log)
	MigrateDatabase(db, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	projectRepo := repository.NewProjectRepository(db)
	projectService := services.NewProjectService(projectRepo, log, m)

	var uploader services.ObjectUploader
	if cfg.MinioEnabled() {
		uploader = InitMinIOClient(cfg, log)
	} else {
		log.Info("MINIO_ENDPOINT not set, snapshot backups disabled")
	}
	snapshotService := services.NewSnapshotService(projectService, uploader, cfg.MinioBucket, log, m)

	app := handlers.NewApp(handlers.AppOptions{
		BodyLimit: cfg.BodyLimit(),
		Logger:    log,
		Metrics:   m,
		Gatherer:  registry,
	})
	handlers.SetupRoutes(app,
		handlers.NewProjectHandler(projectService, log),
		handlers.NewSnapshotHandler(snapshotService, log))

	log.Info("Registered routes:")
	for _, r := range app.GetRoutes(true) {
		log.Infof("  %s %s", r.Method, r.Path)
	}

	go func() {
		log.Infof("Server listening on port %s", cfg.AppPort)
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Shutdown failed: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Config error: %v", err)
	}
	return cfg
}

func ConnectDatabase(cfg *config.Config, log *logrus.Logger) *gorm.DB {
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.WithField("driver", cfg.DBDriver).Info("Connected to database")
	return db
}

func MigrateDatabase(db *gorm.DB, log *logrus.Logger) {
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}
}

func InitMinIOClient(cfg *config.Config, log *logrus.Logger) *minio.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	minioClient, err := storage.NewMinioClient(ctx, cfg, log)
	if err != nil {
		log.Fatalf("MinIO client initialization failed: %v", err)
	}
	return minioClient
}
