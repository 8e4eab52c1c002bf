package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SuperFreelas/google-ads-gateway/internal/ads"
	"github.com/SuperFreelas/google-ads-gateway/internal/api"
	"github.com/SuperFreelas/google-ads-gateway/internal/config"
	"github.com/SuperFreelas/google-ads-gateway/internal/upstream"
)

func Run(cfg config.Config) {
	if err := cfg.GoogleAds.Validate(); err != nil {
		log.Fatal().Err(err).Msg("google ads credentials")
	}

	// Upstream client + operations
	client := upstream.New(cfg.GoogleAds)
	svc := ads.NewService(client, cfg.GoogleAds.LoginCustomerID)

	// HTTP
	h := api.NewHandler(svc)
	r := api.Router(h)

	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     r,
		ReadTimeout: 5 * time.Second,
		// write timeout must outlast the upstream call deadline
		WriteTimeout: upstream.CallTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Server goroutine
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server crashed")
		}
	}()

	// Wait for signal
	waitForSignal()
	log.Info().Msg("shutdown...")

	// Graceful shutdown
	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
}

func waitForSignal() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
