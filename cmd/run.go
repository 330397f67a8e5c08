package cmd

import (
	"context"
	"fmt"
	"time"

	"sweeps/api"
	"sweeps/config"
	"sweeps/database"
	"sweeps/events"
	"sweeps/identity"
	"sweeps/paymentrail"
	"sweeps/repository"
	"sweeps/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting sweeps ledger service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Run pending migrations
	if err := database.MigrateUp(); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize external collaborators
	identityClient := identity.NewClient(cfg.IdentityProviderURL, cfg.IdentityServiceKey)
	railClient := paymentrail.NewClient(cfg.PaymentRailURL)

	// Initialize services
	log.Info("Initializing services...")
	depositService := service.NewDepositService(uowFactory)
	predictionService := service.NewPredictionService(uowFactory)
	withdrawalService := service.NewWithdrawalService(uowFactory)
	subscriptionService := service.NewSubscriptionService(uowFactory)
	closureService := service.NewClosureService(uowFactory, railClient, identityClient)
	metricsService := service.NewMetricsService(uowFactory)
	log.Info("Services initialized successfully")

	// Read-only endpoints query outside the unit of work
	balanceRepo := repository.NewBalanceRepository(db)
	ledgerRepo := repository.NewLedgerEntryRepository(db)

	server := api.NewServer(
		cfg,
		depositService,
		predictionService,
		withdrawalService,
		subscriptionService,
		closureService,
		metricsService,
		balanceRepo,
		ledgerRepo,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Grant due subscriber bonuses periodically
	go runBonusGrantLoop(ctx, subscriptionService)

	log.Infof("Service is running in %s mode", cfg.Environment)

	select {
	case err := <-serverErr:
		db.Close()
		return err
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Error shutting down HTTP server")
	}

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}

// runBonusGrantLoop periodically credits bonus bets to annual
// subscribers whose grant interval has elapsed
func runBonusGrantLoop(ctx context.Context, subscriptions service.SubscriptionService) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			granted, err := subscriptions.GrantDueBonuses(ctx)
			if err != nil {
				log.WithError(err).Error("Bonus grant sweep failed")
				continue
			}
			if granted > 0 {
				log.WithField("granted", granted).Info("Credited subscriber bonus bets")
			}
		}
	}
}
