package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sweeps/models"

	"github.com/go-chi/chi/v5"
)

type settleRequest struct {
	Result models.PredictionResult `json:"result"`
}

func (s *Server) handleSettlePrediction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid prediction id"})
		return
	}

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := s.predictions.SettlePrediction(r.Context(), id, req.Result)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type resolveRequest struct {
	Status models.WithdrawalStatus `json:"status"`
}

func (s *Server) handleResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid withdrawal id"})
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	request, err := s.withdrawals.ResolveRequest(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.metrics.GetPlatformMetrics(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleGrantBonuses(w http.ResponseWriter, r *http.Request) {
	granted, err := s.subscriptions.GrantDueBonuses(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"granted": granted})
}
