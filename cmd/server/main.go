package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/boolchand/esl-sync/internal/config"
	"github.com/boolchand/esl-sync/internal/convert"
	"github.com/boolchand/esl-sync/internal/esl"
	"github.com/boolchand/esl-sync/internal/httpapi"
	"github.com/boolchand/esl-sync/internal/pricing"
	"github.com/boolchand/esl-sync/internal/sheet"
	"github.com/boolchand/esl-sync/internal/version"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	outputPath, err := sheet.ResolveOutputPath(cfg.OutputDir, cfg.OutputFile)
	if err != nil {
		logger.Fatal("resolve output path", zap.Error(err))
	}

	eslClient := esl.NewClient(esl.Config{
		BaseURL:       cfg.ESLBaseURL,
		Username:      cfg.ESLUsername,
		Password:      cfg.ESLPassword,
		CustomerCode:  cfg.CustomerCode,
		StoreCode:     cfg.StoreCode,
		BatchSize:     cfg.BatchSize,
		Timeout:       cfg.RequestTimeout,
		TLSSkipVerify: cfg.TLSSkipVerify,
	}, logger)

	mapper := pricing.NewMapper(pricing.NewTaxTable(cfg.NinePercentClasses))
	svc := convert.NewService(mapper, eslClient, outputPath, logger)

	handler := httpapi.NewHandler(svc, logger, cfg.MaxUploadBytes, cfg.CSVEncoding)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		APIKey:    cfg.APIKey,
		RateLimit: cfg.RateLimit,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Addr),
			zap.String("version", version.String()),
			zap.String("store", cfg.StoreCode))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-sigChan
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "pretty" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
