package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cloudvault/internal/adapter/repo"
	"cloudvault/internal/auth"
	"cloudvault/internal/billing"
	"cloudvault/internal/http/handlers"
	httpapi "cloudvault/internal/http/httpapi"
	"cloudvault/internal/infra"
	"cloudvault/internal/infra/geoip"
	"cloudvault/internal/mail"
	"cloudvault/internal/middleware"
	"cloudvault/internal/subscription"
	"cloudvault/internal/token"
)

func main() {
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

	runner := infra.NewSQLRunner(dbpool, logger)
	users := repo.NewUserRepository(runner)
	codes := repo.NewCodeRepository(runner)
	subs := repo.NewSubscriptionRepository(runner)

	tokens, err := token.NewManager(token.Config{
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid token config")
	}

	mailer, err := mail.NewSMTPMailer(mail.SMTPOptions{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid mail config")
	}

	billingClient, err := billing.NewClient(billing.ClientOptions{
		APIKey:  cfg.BillingAPIKey,
		BaseURL: cfg.BillingBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid billing config")
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable")
	} else if resolver != nil {
		defer resolver.Close()
		countryLookup = resolver.CountryCode
	}

	app := &handlers.App{
		Auth:   auth.NewService(users, codes, tokens, mailer, logger, cfg.AppBaseURL),
		Subs: subscription.NewService(users, subs, billingClient, subscription.PriceTable{
			Standard: cfg.BillingPriceStandard,
			Pro:      cfg.BillingPricePro,
		}, logger, cfg.AppBaseURL),
		Users:         users,
		Tokens:        tokens,
		DB:            dbpool,
		Logger:        logger,
		WebhookSecret: cfg.BillingWebhookSecret,
		SecureCookies: cfg.IsProduction(),
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
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
