package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/otiai10/gosseract/v2"
	"github.com/sgdemo/nric-verify/internal/verification/handler"
	"github.com/sgdemo/nric-verify/internal/verification/ocr"
	"github.com/sgdemo/nric-verify/internal/verification/ocr/rekognition"
	"github.com/sgdemo/nric-verify/internal/verification/ocr/tesseract"
	"github.com/sgdemo/nric-verify/internal/verification/service"
	"github.com/sgdemo/nric-verify/pkg/config"
	"github.com/sgdemo/nric-verify/pkg/httputil"
	"github.com/sgdemo/nric-verify/pkg/logger"
)

const serviceName = "verify-service"

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Msg("starting NRIC Verification Service")

	engine, err := newEngine(&cfg.OCR, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize OCR engine")
	}

	svc, err := service.NewService(engine, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create verification service")
	}
	verifyHandler := handler.NewHandler(svc, cfg.Upload.MaxBytes, serviceName, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	verifyHandler.RegisterRoutes(r)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newEngine builds the configured OCR backend. Tessdata discovery happens
// here, once, and the result is passed to the engine explicitly.
func newEngine(cfg *config.OCRConfig, log *logger.Logger) (ocr.Engine, error) {
	switch cfg.Engine {
	case config.EngineRekognition:
		engine, err := rekognition.New(cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ocr.ErrEngineUnavailable, err)
		}
		log.Info().Str("engine", engine.Name()).Str("region", cfg.AWSRegion).Msg("OCR engine ready")
		return engine, nil

	case config.EngineTesseract:
		tcfg := tesseractConfig(cfg)
		engine := tesseract.New(tcfg)
		log.Info().
			Str("engine", engine.Name()).
			Str("version", engine.Version()).
			Str("tessdata_prefix", tcfg.TessdataPrefix).
			Strs("languages", tcfg.Languages).
			Int("page_seg_mode", int(tcfg.PageSegMode)).
			Msg("OCR engine ready")
		return engine, nil
	}
	return nil, fmt.Errorf("%w: unknown engine %q", ocr.ErrEngineUnavailable, cfg.Engine)
}

func tesseractConfig(cfg *config.OCRConfig) tesseract.Config {
	return tesseract.Config{
		Languages:      cfg.Languages,
		TessdataPrefix: cfg.ResolveTessdataPrefix(),
		PageSegMode:    gosseract.PageSegMode(cfg.PageSegMode),
	}
}
