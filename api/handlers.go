package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sweeps/models"

	"github.com/shopspring/decimal"
)

const defaultListLimit = 50

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	balance, err := s.deposits.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse(balance))
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	balance, err := s.balances.GetByUserID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if balance == nil {
		respondError(w, models.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, balanceResponse(balance))
}

// balanceResponse flattens a balance record for the wire
func balanceResponse(b *models.BalanceRecord) map[string]any {
	return map[string]any{
		"user_id":            b.UserID,
		"spendable":          b.Spendable,
		"portfolio":          b.Portfolio,
		"growth_cash":        b.GrowthCash,
		"pending_withdrawal": b.PendingWithdrawal,
		"bonus_bets":         b.BonusBets,
		"opened_at":          b.OpenedAt,
	}
}

func (s *Server) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := s.ledger.GetByUser(r.Context(), userID, listLimit(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

type placePredictionRequest struct {
	BetType    models.BetType  `json:"bet_type"`
	Stake      decimal.Decimal `json:"stake"`
	Odds       string          `json:"odds"`
	Selections []string        `json:"selections"`
}

func (s *Server) handlePlacePrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req placePredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	prediction, err := s.predictions.PlacePrediction(r.Context(), userID, req.BetType, req.Stake, req.Odds, req.Selections)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, prediction)
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	predictions, err := s.predictions.GetUserPredictions(r.Context(), userID, listLimit(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, predictions)
}

type withdrawalRequest struct {
	BalanceKind models.BalanceKind `json:"balance_kind"`
	Amount      decimal.Decimal    `json:"amount"`
}

func (s *Server) handlePreviewWithdrawalFee(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	breakdown, err := s.withdrawals.PreviewFee(r.Context(), userID, req.BalanceKind, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"fee_rate":   breakdown.FeeRate,
		"fee_amount": breakdown.FeeAmount,
		"net_amount": breakdown.NetAmount,
	})
}

func (s *Server) handleRequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	request, err := s.withdrawals.RequestWithdrawal(r.Context(), userID, req.BalanceKind, req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

func (s *Server) handleGetTier(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tier, err := s.subscriptions.GetTier(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tier": tier})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	subscription, err := s.subscriptions.Subscribe(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, subscription)
}

type closeAccountRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleCloseAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req closeAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.closures.CloseAccount(r.Context(), userID, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}

	// A parked closure is accepted, not completed
	status := http.StatusOK
	message := "account closed"
	if result.Status == models.DeletionStatusPendingWithdrawal {
		status = http.StatusAccepted
		message = "withdrawal pending manual processing"
	}
	respondJSON(w, status, map[string]any{
		"success":           result.Status == models.DeletionStatusCompleted,
		"status":            result.Status,
		"withdrawal_amount": result.WithdrawalAmount,
		"fees_applied":      result.FeesApplied,
		"message":           message,
	})
}

func listLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			return parsed
		}
	}
	return defaultListLimit
}
