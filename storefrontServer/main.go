package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"gitlab.connectwisedev.com/storefront-service/pkg/api"
	"gitlab.connectwisedev.com/storefront-service/pkg/appcontext"
	"gitlab.connectwisedev.com/storefront-service/pkg/config"
	"gitlab.connectwisedev.com/storefront-service/pkg/logger"
)

// storefrontServer runs a single shopper session behind the JSON API.
func main() {
	config.LoadEnv()

	cf, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cf.LogLevel, cf.AppEnv)

	app, err := appcontext.NewApplicationContext(cf, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application context")
	}
	defer app.Close()

	// The catalog is loaded once at start. A failure leaves the API up and
	// answering 503 for catalog reads, like the storefront's error banner.
	loadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := app.Storefront.Load(loadCtx); err != nil {
		log.Error().Err(err).Msg("starting without a catalog")
	}
	cancel()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cf.ServerPort),
		Handler:           api.NewRouter(api.NewServer(app.Storefront, log), log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	shutdownCompleted := make(chan struct{})
	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
		close(shutdownCompleted)
	}()

	log.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
	<-shutdownCompleted
	log.Info().Msg("shutdown completed")
}
