package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio-service/internal/client"
	"portfolio-service/internal/config"
	"portfolio-service/internal/logging"
	"portfolio-service/internal/ui"
	"portfolio-service/internal/web"
)

func main() {
	cfg, err := config.LoadWebConfig()
	if err != nil {
		logrus.Fatalf("Config error: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	api := client.New(cfg.APIURL, cfg.APITimeout)
	app := web.NewApp(ui.NewController(api, log), web.Options{
		BodyLimit: cfg.BodyLimit(),
		Logger:    log,
	})

	go func() {
		log.WithField("api_url", cfg.APIURL).Infof("UI listening on port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
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
}
