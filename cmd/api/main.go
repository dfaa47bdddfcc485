package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/SaganOrg/candidate-finder/docs" // Swagger docs
	"github.com/SaganOrg/candidate-finder/internal/airtable"
	"github.com/SaganOrg/candidate-finder/internal/api"
	"github.com/SaganOrg/candidate-finder/internal/config"
	"github.com/SaganOrg/candidate-finder/internal/embedding"
	"github.com/SaganOrg/candidate-finder/internal/extraction"
	"github.com/SaganOrg/candidate-finder/internal/ingest"
	"github.com/SaganOrg/candidate-finder/internal/llm"
	"github.com/SaganOrg/candidate-finder/internal/logger"
	"github.com/SaganOrg/candidate-finder/internal/resume"
	"github.com/SaganOrg/candidate-finder/internal/search"
	"github.com/SaganOrg/candidate-finder/internal/storage"
	"github.com/SaganOrg/candidate-finder/internal/storage/redis"
)

// @title Candidate Finder API
// @version 1.0
// @description Candidate search, status management and Airtable ingestion backend

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

// @securityDefinitions.apikey AdminToken
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("config:", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer zl.Sync()

	store, err := storage.New(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db open", zap.Error(err))
	}
	defer store.Close()
	zl.Info("database connected")

	var cache api.OptionsCache = redis.NewDisabled()
	if cfg.RedisAddr != "" {
		rc, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, zl)
		if err != nil {
			zl.Fatal("redis connect", zap.Error(err))
		}
		defer rc.Close()
		zl.Info("redis connected", zap.String("addr", cfg.RedisAddr))
		cache = rc
	} else {
		zl.Info("no redis address configured, filter-options cache disabled")
	}

	embedder := embedding.NewClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimensions, zl)
	llmClient := llm.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, zl)
	extractor := extraction.NewExtractor(llmClient, zl)

	source := airtable.New(cfg.AirtableBaseURL, cfg.AirtableAPIKey, cfg.AirtableBaseID, cfg.AirtableTable, zl)
	pipeline, err := ingest.NewPipeline(cfg, store, source, extractor, embedder, zl)
	if err != nil {
		zl.Fatal("pipeline init", zap.Error(err))
	}

	engine := search.NewEngine(store, embedder, zl)

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "./uploads"
	}
	parser := resume.NewParser(uploadsDir)

	apiSrv := api.NewAPI(store, engine, pipeline, parser, cache, cfg.AdminToken, zl)
	router := api.NewRouter(apiSrv)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,  // file uploads
		WriteTimeout: 15 * time.Minute,  // streamed migration runs
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			zl.Error("server shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	zl.Info("API server listening", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zl.Fatal("listen", zap.Error(err))
	}

	<-idleConnsClosed
}
