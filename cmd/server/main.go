package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ivlev/script2video/internal/api"
	"github.com/ivlev/script2video/internal/asset"
	"github.com/ivlev/script2video/internal/composer"
	"github.com/ivlev/script2video/internal/config"
	"github.com/ivlev/script2video/internal/logging"
	"github.com/ivlev/script2video/internal/motion"
	"github.com/ivlev/script2video/internal/profile"
	"github.com/ivlev/script2video/internal/scorer"
	"github.com/ivlev/script2video/internal/transition"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logging.Init(false, "")
		l := logging.WithComponent("server")
		l.Fatal().Err(err).Msg("configuration error")
	}
	if err := logging.Init(cfg.Verbose, cfg.LogFile); err != nil {
		l := logging.WithComponent("server")
		l.Fatal().Err(err).Msg("logging setup failed")
	}
	logger := logging.WithComponent("server")

	c, err := buildComposer(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialization failed")
	}

	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(c, logging.NewLogger())

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}

func buildComposer(cfg config.Config) (*composer.Composer, error) {
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	profOpts := rules.ProfilerOptions()
	if cfg.SemanticURL != "" {
		profOpts = append(profOpts, profile.WithAnalyzer(
			profile.NewHTTPAnalyzer(cfg.SemanticURL, cfg.SemanticAPIKey)))
	}
	profiler := profile.NewProfiler(logging.NewLogger(), profOpts...)

	providers := []asset.Provider{}
	catalog, err := asset.NewCatalog(cfg.MaterialsDir, logging.NewLogger())
	if err != nil {
		return nil, err
	}
	providers = append(providers, catalog)
	if cfg.StockAPIKey != "" {
		providers = append(providers, asset.NewStockClient(cfg.StockAPIKey, logging.NewLogger()))
	}
	pool, err := asset.NewPool(providers...)
	if err != nil {
		return nil, err
	}

	pairs, durations := rules.TransitionTables()
	return composer.New(
		profiler,
		scorer.New(rules.ScorerWeights()),
		transition.NewResolver(pairs, durations),
		motion.NewGenerator(motion.DefaultBands()),
		pool,
		logging.NewLogger(),
	)
}
