// @title Frame Label API
// @version 1.0
// @description Balanced and rejection frame sampling over annotated videos, frame serving and label collection.
// @host localhost:8080
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"framelabel/internal/annotation"
	"framelabel/internal/config"
	"framelabel/internal/daemon"
	_ "framelabel/internal/docs"
	"framelabel/internal/labelstore"
	"framelabel/internal/logging"
	"framelabel/internal/sampler"
	"framelabel/internal/vocab"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("daemon failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	labels, err := vocab.LoadFile(cfg.ClassList)
	if err != nil {
		return err
	}
	raw, err := annotation.LoadJSONFile(cfg.AnnotationsJSON)
	if err != nil {
		return err
	}
	frames, err := annotation.LoadFrameInfoFile(cfg.FrameInfoCSV)
	if err != nil {
		return err
	}
	loader, err := sampler.New(raw, frames, labels, sampler.Options{
		FrameRate:       cfg.FrameRate,
		DropEmptyVideos: cfg.DropEmptyVideos,
		Seed:            cfg.LoaderSeed,
		Logger:          logger.Named("sampler"),
	})
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	// Keys labelled in an earlier session stay known across restarts.
	var keys []string
	if _, err := os.Stat(cfg.LabelsOutput); err == nil {
		f, err := labelstore.ReadFile(cfg.LabelsOutput)
		if err != nil {
			return err
		}
		keys = f.Keys()
	}
	store, err := labelstore.Open(cfg.LabelsOutput, keys, labels.Names(), labelstore.Options{
		ExtraFields:   cfg.ExtraFields,
		Seed:          cfg.StoreSeed,
		InitialLabels: cfg.InitialLabels,
		Logger:        logger.Named("labelstore"),
	})
	if err != nil {
		return fmt.Errorf("open label store: %w", err)
	}

	server := daemon.NewServer(cfg, loader, store, logger.Named("http"))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr))
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

	logger.Info("shutting down")
	server.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
