package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"killprocess/internal/config"
	"killprocess/internal/logging"
	"killprocess/internal/models"
	"killprocess/internal/routes"
	"killprocess/internal/services"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q: %v\n", cfg.Logging.Level, err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lister := services.NewLister(cfg.Listing)

	if cfg.HTTPMode() {
		if err := serve(ctx, cfg, lister, logger); err != nil {
			logger.Error("server stopped", zap.Error(err))
			return 1
		}
		return 0
	}

	svc := services.NewProcessService(lister, cfg.Icons.DefaultIcon, services.PlistManifestReader{}, logger, nil)
	if err := writeResults(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		logger.Error("search failed", zap.Error(err))
		return 1
	}
	return 0
}

// writeResults runs one search for the first argument and writes the
// pretty-printed document to w. Without arguments the document is empty and
// no processes are listed. Nothing is written on failure.
func writeResults(ctx context.Context, svc *services.ProcessService, args []string, w io.Writer) error {
	list := models.NewResultList()
	if len(args) > 0 {
		var err error
		if list, err = svc.Search(ctx, args[0]); err != nil {
			return err
		}
	}

	data, err := sonic.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func serve(ctx context.Context, cfg *config.Config, lister services.Lister, logger *logging.Logger) error {
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := services.NewMetrics()
	router, err := routes.NewRouter(routes.Dependencies{
		Service: services.NewProcessService(lister, cfg.Icons.DefaultIcon, services.PlistManifestReader{}, logger, metrics),
		Metrics: metrics,
		Logger:  logger,
		Server:  cfg.Server,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("source", cfg.Listing.Source))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
