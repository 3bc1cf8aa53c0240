package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"marketbot/internal/adapters"
	"marketbot/internal/adapters/alphavantage"
	"marketbot/internal/adapters/coingecko"
	"marketbot/internal/adapters/httpclient"
	"marketbot/internal/adapters/postgres"
	"marketbot/internal/adapters/sessioncache"
	"marketbot/internal/api"
	"marketbot/internal/config"
	"marketbot/internal/convert"
	"marketbot/internal/market"
	"marketbot/internal/market/handler"
	"marketbot/internal/platform/db"
	httpserver "marketbot/internal/platform/http"
	"marketbot/internal/telegram"

	"github.com/sirupsen/logrus"
)

const maxSessions = 10_000

// Run wires the application components, then starts the bot loop, the warm
// refresher and the ops HTTP server.
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	if appCfg.Telegram.Token == "" {
		return fmt.Errorf("telegram bot token is required")
	}
	if appCfg.ExchangeRateAPI.APIKey == "" {
		return fmt.Errorf("exchange rate api key is required")
	}

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, initial reads)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	contentRepo := postgres.NewContentRepository(pool)

	// Load supported currencies codes
	supportedCodes, err := contentRepo.SupportedCodes(startupCtx)
	if err != nil || len(supportedCodes) == 0 {
		if err == nil {
			err = errors.New("no supported currencies available")
		}
		logrus.WithError(err).Error("Failed to load supported currencies")
		return err
	}
	logrus.Info("✅ Supported currencies loaded")

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout}

	// External clients
	exchangeAPIBaseURL := strings.TrimSuffix(appCfg.ExchangeRateAPI.BaseURL, "/")
	rateClient := httpclient.NewExchangeRateClient(
		baseHTTPClient,
		fmt.Sprintf("%s/%s/latest", exchangeAPIBaseURL, appCfg.ExchangeRateAPI.APIKey),
	)
	quoteClient := alphavantage.NewClient(
		appCfg.AlphaVantage.BaseURL, appCfg.AlphaVantage.APIKey,
		httpTimeout, alphavantage.FreeTierLimiter(),
	)
	coinClient := coingecko.NewClient(appCfg.CoinGecko.BaseURL, httpTimeout)

	// Market core
	fetchers := []adapters.SnapshotFetcher{
		market.NewEquityIndexFetcher(quoteClient),
		market.NewCryptoFetcher(coinClient),
		market.NewCommodityFetcher(quoteClient),
		market.NewCurrencyPairsFetcher(rateClient),
		market.NewUZSBasketFetcher(rateClient),
	}
	snapshotCache := market.NewSnapshotCache(fetchers, time.Duration(appCfg.Market.FreshWindowSec)*time.Second)
	marketService := market.NewService(snapshotCache, time.Duration(appCfg.Market.CommodityTimeoutSec)*time.Second)

	refresher := market.NewRefresher(snapshotCache, time.Duration(appCfg.Market.RefreshIntervalSec)*time.Second)
	// Ensure refresher stops before DB pool closes
	defer func() {
		if shutDownErr := refresher.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Refresher shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := refresher.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start refresher")
		return startErr
	}
	logrus.Info("✅ Refresher activation successful")

	// Conversion dialogue
	sessionStore, err := sessioncache.NewSessionStore(maxSessions, time.Duration(appCfg.Session.TTLSeconds)*time.Second)
	if err != nil {
		logrus.WithError(err).Error("Failed to create session store")
		return err
	}
	validator := convert.NewValidator(supportedCodes)
	dialogue := convert.NewDialogue(sessionStore, rateClient, validator)

	// Telegram bot
	tgClient := telegram.NewClient(
		&http.Client{Timeout: time.Duration(appCfg.Telegram.PollTimeoutSec+5) * time.Second},
		appCfg.Telegram.APIBaseURL, appCfg.Telegram.Token,
	)
	bot := telegram.NewBot(tgClient, marketService, dialogue, contentRepo, validator.SupportedCodes(), appCfg.Telegram.Channel)

	botErrCh := make(chan error, 1)
	go func() {
		botErrCh <- bot.Run(ctx)
	}()
	logrus.Info("✅ Bot polling started")

	// Handlers and router
	marketHandler := handler.NewMarketHandler(marketService)
	router := api.NewRouter(marketHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	stop()
	if botErr := <-botErrCh; botErr != nil {
		logrus.Errorf("Bot loop error: %v", botErr)
		return botErr
	}
	return nil
}
