package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/roadies/roadies-backend/internal/application/services"
	"github.com/roadies/roadies-backend/internal/domain/entities"
	apperrors "github.com/roadies/roadies-backend/pkg/errors"
)

const maxMessageLength = 500

// ChatOrchestrator defines the chat operation used by the handler.
type ChatOrchestrator interface {
	Chat(ctx context.Context, message, sessionID string, hints services.ChatHints) (*entities.ChatResponse, error)
}

// ChatHandler handles conversational gear requests.
type ChatHandler struct {
	service ChatOrchestrator
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service ChatOrchestrator) *ChatHandler {
	return &ChatHandler{service: service}
}

type chatRequest struct {
	Message   string  `json:"message"`
	SessionID string  `json:"session_id"`
	Vehicle   string  `json:"vehicle,omitempty"`
	MaxBudget float64 `json:"max_budget,omitempty"`
}

// HandleChat handles POST /api/chat
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.Message = strings.TrimSpace(payload.Message)
	if payload.Message == "" {
		respondWithError(w, http.StatusBadRequest, "message is required")
		return
	}
	if len(payload.Message) > maxMessageLength {
		respondWithError(w, http.StatusBadRequest, "message is too long")
		return
	}
	if payload.MaxBudget < 0 {
		respondWithError(w, http.StatusBadRequest, "max_budget must be positive")
		return
	}

	hints := services.ChatHints{
		Vehicle:   strings.TrimSpace(payload.Vehicle),
		MaxBudget: payload.MaxBudget,
	}

	resp, err := h.service.Chat(r.Context(), payload.Message, payload.SessionID, hints)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			switch appErr.Type {
			case apperrors.ErrorTypeValidation:
				respondWithError(w, http.StatusBadRequest, appErr.Message)
			case apperrors.ErrorTypeNotFound:
				respondWithError(w, http.StatusNotFound, appErr.Message)
			case apperrors.ErrorTypeUnavailable:
				respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
			default:
				respondWithError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
