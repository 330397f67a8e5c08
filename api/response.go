package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"sweeps/models"

	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// respondError maps the domain's typed errors onto HTTP statuses
func respondError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var insufficientErr *models.InsufficientFundsError
	var ineligibleErr *models.IneligibleWithdrawalError
	var transferErr *models.ExternalTransferError

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: validationErr.Message})
	case errors.As(err, &insufficientErr):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: insufficientErr.Error()})
	case errors.As(err, &ineligibleErr):
		respondJSON(w, http.StatusForbidden, errorResponse{
			Error:  ineligibleErr.Message,
			Reason: string(ineligibleErr.Reason),
		})
	case errors.Is(err, models.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, models.ErrWriteConflict):
		respondJSON(w, http.StatusConflict, errorResponse{Error: "concurrent update, please retry"})
	case errors.As(err, &transferErr):
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: "external transfer failed"})
	default:
		log.WithError(err).Error("Unhandled error")
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
