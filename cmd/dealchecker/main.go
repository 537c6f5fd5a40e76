package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"flightdeal-service/internal/domain/repository"
	"flightdeal-service/internal/infrastructure/config"
	"flightdeal-service/internal/infrastructure/oauth"
	"flightdeal-service/internal/infrastructure/persistence"
	"flightdeal-service/internal/interface/gmail"
	repo "flightdeal-service/internal/interface/repository"
	"flightdeal-service/internal/usecase"
	"flightdeal-service/pkg/logger"
	"flightdeal-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/api/option"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger("info").Fatal("Failed to load config", "error", err)
	}

	// Create logger
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()
	log.Info("Starting Flight Deal Checker", "version", cfg.AppVersion, "store", cfg.StoreBackend)

	// Set up context cancelled on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	appMetrics := metrics.NewMetrics("flightdeal", prometheus.DefaultRegisterer)

	// Google OAuth, shared by Gmail and Sheets
	if cfg.GoogleRefreshToken == "" {
		log.Fatal("GOOGLE_REFRESH_TOKEN is required, run cmd/utils/get_token.go to obtain one")
	}
	googleOAuth := oauth.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken, "", log)
	tokenSource := googleOAuth.GetTokenSource(ctx)

	// Spreadsheet store
	var destinationRepo repository.DestinationRepository
	switch cfg.StoreBackend {
	case config.StoreSheets:
		destinationRepo, err = repo.NewSheetsDestinationRepository(ctx, cfg.SpreadsheetID, cfg.DealsRange, cfg.UsersRange, log,
			option.WithTokenSource(tokenSource))
		if err != nil {
			log.Fatal("Failed to create Sheets store", "error", err)
		}
	default:
		destinationRepo = repo.NewSheetyDestinationRepository(
			&http.Client{Timeout: cfg.HTTPClientTimeout},
			cfg.SheetyDealsURL,
			cfg.SheetyUsersURL,
			cfg.SheetyBearerToken,
			log,
		)
	}

	// Amadeus flight search and city lookup
	amadeusClient := oauth.NewAmadeusClient(ctx, cfg.AmadeusBaseURL, cfg.AmadeusAPIKey, cfg.AmadeusAPISecret, cfg.HTTPClientTimeout)
	amadeusRepo := repo.NewAmadeusRepository(amadeusClient, cfg.AmadeusBaseURL, cfg.MaxOffers, cfg.AmadeusRateLimit, log)

	var cityCodeRepo repository.CityCodeRepository = amadeusRepo
	if cfg.PostgresURI != "" {
		log.Info("Connecting to PostgreSQL")
		gormDB, err := persistence.NewPostgresDB(cfg.PostgresURI, &repo.CityCodeModel{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		cityCodeRepo = repo.NewCachedCityCodeRepository(amadeusRepo, repo.NewGormCityCodeRepository(gormDB), log)
	}

	// Deal check history
	var dealCheckRepo repository.DealCheckRepository
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client

		history := repo.NewMongoDealCheckRepository(db)
		if err := history.EnsureIndexes(ctx); err != nil {
			log.Warn("Failed to create deal check indexes", "error", err)
		}
		dealCheckRepo = history
	}

	// Gmail notifier
	notifier, err := gmail.NewNotifier(ctx, cfg.GmailSender, log, option.WithTokenSource(tokenSource))
	if err != nil {
		log.Fatal("Failed to create Gmail notifier", "error", err)
	}

	evaluator := usecase.NewDealEvaluator(
		destinationRepo,
		cityCodeRepo,
		usecase.NewFlightResolver(amadeusRepo, log),
		notifier,
		dealCheckRepo,
		appMetrics,
		log,
		usecase.EvaluatorSettings{
			HomeIata:    cfg.HomeIata,
			HomeCity:    cfg.HomeCity,
			HomeCountry: cfg.HomeCountry,
			Adults:      cfg.Adults,
			Currency:    cfg.Currency,
			WindowDays:  cfg.WindowDays,
		},
	)

	defer func() {
		if mongoClient == nil {
			return
		}
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}()

	if cfg.CheckInterval <= 0 {
		runOnce(ctx, evaluator, log)
		log.Info("Flight Deal Checker finished")
		return
	}

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	// Checks run back to back on the ticker, never overlapping
	runOnce(ctx, evaluator, log)
	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for running := true; running; {
		select {
		case <-ctx.Done():
			log.Info("Received shutdown signal")
			running = false
		case <-ticker.C:
			runOnce(ctx, evaluator, log)
		}
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	log.Info("Flight Deal Checker stopped")
}

func runOnce(ctx context.Context, evaluator *usecase.DealEvaluator, log logger.Logger) {
	summary, err := evaluator.Run(ctx)
	if err != nil {
		log.Error("Deal check failed", "runID", summary.RunID, "error", err)
		return
	}
	log.Info("Deal check summary", "runID", summary.RunID, "checked", summary.Checked, "notified", summary.Notified)
}

