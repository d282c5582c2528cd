package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"getmeachai/internal/adapter/repo"
	"getmeachai/internal/http/handlers"
	"getmeachai/internal/http/httpapi"
	"getmeachai/internal/identity"
	"getmeachai/internal/infra"
	"getmeachai/internal/infra/geoip"
	"getmeachai/internal/middleware"
	"getmeachai/internal/payments"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	geoResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.GeoIPDBPath).Msg("failed to open geoip database")
	}
	var countryLookup middleware.CountryLookup
	if geoResolver != nil {
		defer geoResolver.Close()
		countryLookup = geoResolver.CountryCode
	}

	runner := infra.NewSQLRunner(dbpool, logger)
	accounts := repo.NewAccountRepository(runner)
	contributions := repo.NewContributionRepository(runner)

	paymentsSvc := payments.NewService(payments.Options{
		Accounts:          accounts,
		Contributions:     contributions,
		Logger:            logger,
		MinAmount:         cfg.MinAmount,
		Currency:          cfg.Currency,
		PlatformKeyID:     cfg.RazorpayKeyID,
		PlatformKeySecret: cfg.RazorpayKeySecret,
		GatewayBaseURL:    cfg.RazorpayBaseURL,
		WriteTimeout:      cfg.LedgerWriteTimeout,
	})

	app := &handlers.App{
		Logger:        logger,
		Config:        cfg,
		Accounts:      accounts,
		Contributions: contributions,
		Payments:      paymentsSvc,
		Identity:      identity.NewResolver(accounts, logger),
		OAuth:         handlers.NewOAuthProviders(cfg),
	}

	router := httpapi.NewRouter(app, countryLookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
