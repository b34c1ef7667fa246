package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"stayledger/internal/config"
	"stayledger/internal/db"
	"stayledger/internal/handlers"
	"stayledger/internal/logger"
	"stayledger/internal/services"
	"stayledger/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	bookings := store.NewBookingStore(database)
	ledger := store.NewLedgerStore(database)
	invoices := store.NewInvoiceStore(database)
	payouts := store.NewPayoutStore(database)
	fingerprints := store.NewImportStore(database)
	txRunner := db.NewRunner(database)

	bookingService := services.NewBookingService(txRunner, bookings, ledger, invoices)
	importService := services.NewImportService(txRunner, fingerprints, ledger, payouts)
	reconcileService := services.NewReconcileService(txRunner, payouts, ledger)
	digestService := services.NewDigestService(payouts, ledger, invoices)

	handler := handlers.New(cfg, bookingService, importService, reconcileService, digestService)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("stayledger API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("shutdown error")
	}
}
