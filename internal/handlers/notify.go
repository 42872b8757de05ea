package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"push-notify-go/internal/models"
)

// NotifyHandler is the trigger-source entry point: deliver one message to
// every device registered by one user. Zero subscriptions is a normal
// completion, not an error.
func (h *Handler) NotifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.UserID == "" || req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id and title are required"})
		return
	}

	result, err := h.Notifier.NotifyUser(r.Context(), req)
	if err != nil {
		log.Printf("Failed to notify user %s: %v", req.UserID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
