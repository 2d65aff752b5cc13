package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"algogrid/config"
	"algogrid/internal/bridge"
	"algogrid/internal/functions"
	"algogrid/internal/grid"
	"algogrid/internal/openalgo"
	"algogrid/logger"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(config.ResolveConfigPath(*configPath))
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Algogrid.Name,
		"version": cfg.Algogrid.Version,
	}).Info("starting algogrid")

	format, _ := grid.ParseFormat(cfg.API.Format)
	store := openalgo.NewStore(openalgo.Settings{
		APIKey:  cfg.API.Key,
		Version: cfg.API.Version,
		HostURL: cfg.API.HostURL,
		Format:  format,
	})

	client := openalgo.NewClient(cfg.Client.Timeout, openalgo.NewDebugLog())
	svc := functions.NewService(store, client)
	server := bridge.NewServer(cfg.Server, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")
		cancel()
		if err := <-errCh; err != nil {
			log.WithError(err).Error("bridge server shutdown failed")
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("bridge server failed")
			os.Exit(1)
		}
	}

	log.Info("algogrid stopped")
}
