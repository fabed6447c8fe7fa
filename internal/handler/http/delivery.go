package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rankline/live-poll-service/internal/domain/model"
	"github.com/rankline/live-poll-service/internal/handler/ws"
	"github.com/rankline/live-poll-service/internal/service"
)

const minTitleLength = 1

type Handler struct {
	logger     *slog.Logger
	poller     service.Poller
	ws         *ws.Handler
	identifier *Identifier
	gatherer   prometheus.Gatherer
}

func NewHandler(logger *slog.Logger, poller service.Poller, wsHandler *ws.Handler, identifier *Identifier, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		logger:     logger,
		poller:     poller,
		ws:         wsHandler,
		identifier: identifier,
		gatherer:   gatherer,
	}
}

func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.identifier.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/poll", h.createPoll)
		r.Get("/poll/{id}", h.joinPoll)
		r.Get("/stats", h.stats)
	})
	r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))

	return r
}

type createPollRequest struct {
	Title        string `json:"title"`
	IdentityMode string `json:"identity_mode"`
	ItemPolicy   string `json:"item_policy"`
}

type createPollResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (h *Handler) createPoll(w http.ResponseWriter, r *http.Request) {
	var body createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	title := strings.TrimSpace(body.Title)
	if len(title) < minTitleLength {
		h.respondError(w, http.StatusBadRequest, "poll title must not be empty")
		return
	}

	settings := model.Settings{Title: title}
	switch body.IdentityMode {
	case "", "session":
		settings.IdentityMode = model.IdentityBySession
	case "address":
		settings.IdentityMode = model.IdentityByAddress
	default:
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown identity_mode %q", body.IdentityMode))
		return
	}
	switch body.ItemPolicy {
	case "", "anyone":
		settings.ItemPolicy = model.ItemsByAnyone
	case "owner_only":
		settings.ItemPolicy = model.ItemsByOwnerOnly
	default:
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown item_policy %q", body.ItemPolicy))
		return
	}

	req, ok := RequesterFrom(r.Context())
	if !ok {
		h.respondError(w, http.StatusInternalServerError, "")
		return
	}

	id, err := h.poller.Create(r.Context(), req, settings)
	if err != nil {
		h.logger.Error("failed to create poll", "error", err)
		h.respondError(w, http.StatusInternalServerError, "")
		return
	}

	h.respondJSON(w, http.StatusOK, createPollResponse{ID: id, Title: title})
}

func (h *Handler) joinPoll(w http.ResponseWriter, r *http.Request) {
	req, ok := RequesterFrom(r.Context())
	if !ok {
		h.respondError(w, http.StatusInternalServerError, "")
		return
	}
	h.ws.Serve(w, r, chi.URLParam(r, "id"), req)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.poller.Stats(r.Context()))
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg string) {
	if msg == "" {
		msg = http.StatusText(code)
	}
	h.respondJSON(w, code, map[string]string{"error": msg})
}
