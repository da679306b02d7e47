package handler

import (
	"net/http"
	"time"
)

func (h *Handler) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	health := envelope{
		"status":      "OK",
		"message":     "Library API is running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.config.Env,
	}
	err := h.encodeJSON(w, http.StatusOK, health, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
