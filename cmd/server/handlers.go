package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/casegraph/casegraph"
)

// maxHistoryTurns bounds how much conversation a single request may carry.
const maxHistoryTurns = 40

type handler struct {
	engine casegraph.Engine
}

func newHandler(e casegraph.Engine) *handler {
	return &handler{engine: e}
}

// POST /ask
func (h *handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		Question string           `json:"question"`
		History  []casegraph.Turn `json:"history,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(req.History) > maxHistoryTurns {
		req.History = req.History[len(req.History)-maxHistoryTurns:]
	}

	answer, err := h.engine.Ask(ctx, req.Question, req.History)
	if err != nil {
		if errors.Is(err, casegraph.ErrEmptyQuestion) {
			writeError(w, http.StatusBadRequest, "question is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "ask failed")
		slog.Error("ask error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("%s", msg)})
}
