package http

import (
	"encoding/json"
	"net/http"

	"github.com/Wyydra/callstate/internal/core/domain"
	"github.com/Wyydra/callstate/internal/core/port"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type CallControl interface {
	Join(channelID domain.ChannelID) (port.CallClient, error)
	Leave() error
}

type Handler struct {
	Store port.StateStore
	Calls CallControl
}

func NewHandler(store port.StateStore, calls CallControl) *Handler {
	return &Handler{
		Store: store,
		Calls: calls,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/incoming", h.ListIncoming)
		r.Get("/calls", h.ListCalls)
		r.Post("/calls/leave", h.LeaveCall)
		r.Route("/calls/{channelID}", func(r chi.Router) {
			r.Get("/", h.GetCall)
			r.Get("/reactions", h.ListReactions)
			r.Get("/captions", h.ListCaptions)
			r.Post("/join", h.JoinCall)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error while writing response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
