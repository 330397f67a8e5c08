package api

import (
	"context"
	"net/http"
	"time"

	"sweeps/config"
	"sweeps/service"

	log "github.com/sirupsen/logrus"
)

// Server hosts the HTTP API over the domain services
type Server struct {
	cfg           *config.Config
	deposits      service.DepositService
	predictions   service.PredictionService
	withdrawals   service.WithdrawalService
	subscriptions service.SubscriptionService
	closures      service.ClosureService
	metrics       service.MetricsService
	balances      service.BalanceRepository
	ledger        service.LedgerEntryRepository

	httpServer *http.Server
}

// NewServer wires the API over the given services. The balance and
// ledger repositories serve the read-only endpoints directly.
func NewServer(
	cfg *config.Config,
	deposits service.DepositService,
	predictions service.PredictionService,
	withdrawals service.WithdrawalService,
	subscriptions service.SubscriptionService,
	closures service.ClosureService,
	metrics service.MetricsService,
	balances service.BalanceRepository,
	ledger service.LedgerEntryRepository,
) *Server {
	return &Server{
		cfg:           cfg,
		deposits:      deposits,
		predictions:   predictions,
		withdrawals:   withdrawals,
		subscriptions: subscriptions,
		closures:      closures,
		metrics:       metrics,
		balances:      balances,
		ledger:        ledger,
	}
}

// Start begins serving and blocks until the listener fails or the
// server is shut down
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.WithField("addr", s.cfg.ListenAddr).Info("HTTP server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
