// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/pcrawfurd/metasearch/cache"
	"github.com/pcrawfurd/metasearch/internal/config"
	"github.com/pcrawfurd/metasearch/internal/http/routes"
	"github.com/pcrawfurd/metasearch/providers"
	"github.com/pcrawfurd/metasearch/ratelimit"
	"github.com/pcrawfurd/metasearch/search"
)

func main() {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	log.Printf("starting metasearch on %s", cfg.Addr)

	// Providers share one HTTP client with the configured timeout.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	registry := search.NewRegistry()
	registry.Register(providers.NewDuckDuckGo(providers.WithHTTPClient(httpClient), providers.WithLogger(logger)))
	registry.Register(providers.NewBing(providers.WithHTTPClient(httpClient), providers.WithLogger(logger)))
	registry.Register(providers.NewGoogle(providers.WithHTTPClient(httpClient), providers.WithLogger(logger)))
	registry.Register(providers.NewBaidu(providers.WithHTTPClient(httpClient), providers.WithLogger(logger)))

	manager := search.NewManager(search.ManagerOptions{
		Cache:    cache.New[search.Result](cfg.CacheTTL, cfg.CacheSize, logger),
		Limiter:  ratelimit.New(cfg.RateMax, cfg.RateWindow, logger),
		Registry: registry,
		Logger:   logger,
	})

	// Router / server
	s := routes.New(routes.ServerOptions{
		Manager:          manager,
		DefaultProviders: cfg.DefaultProviders,
		Logger:           logger,
	})
	h := hlog.NewHandler(logger)(s.Router)

	srv := &http.Server{Addr: cfg.Addr, Handler: h}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
