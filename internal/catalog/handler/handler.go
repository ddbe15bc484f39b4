// Package handler is the thin HTTP layer over the retrieval controller. It
// delegates to the controller without embedding catalog logic so transport
// concerns remain isolated.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"atlas/internal/catalog/models"
	"atlas/internal/catalog/service"
	"atlas/internal/platform/middleware"
	"atlas/pkg/platform/sentinel"
)

// Catalog is the controller surface the handler consumes.
type Catalog interface {
	Load()
	SetSearchText(q string)
	PickRandom(ctx context.Context) (models.Country, error)
	ResetFilter()
	Snapshot(ctx context.Context) service.Snapshot
	Subscribe(ctx context.Context) (<-chan service.Event, func())
}

// Handler handles catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	catalog Catalog
}

// New creates a catalog Handler.
func New(catalog Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		catalog: catalog,
	}
}

// Register mounts the catalog routes on the chi router. The events route is
// registered outside the timeout chain because it streams.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/countries", h.handleList)
		r.Post("/countries/load", h.handleLoad)
		r.Get("/countries/random", h.handleRandom)
		r.Put("/countries/search", h.handleSearch)
		r.Post("/countries/search/reset", h.handleResetFilter)
	})
	r.Get("/countries/events", h.handleEvents)
}

// handleList returns the current filtered view with load status.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Snapshot(r.Context()))
}

// handleLoad triggers an asynchronous refresh. The outcome arrives through
// the events stream or a later snapshot.
func (h *Handler) handleLoad(w http.ResponseWriter, r *http.Request) {
	h.catalog.Load()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "loading"})
}

// handleRandom translates the controller's sentinel errors into status codes.
func (h *Handler) handleRandom(w http.ResponseWriter, r *http.Request) {
	country, err := h.catalog.PickRandom(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, country)
	case errors.Is(err, sentinel.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no countries loaded"})
	default:
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "catalog unavailable"})
	}
}

type searchRequest struct {
	Q string `json:"q"`
}

// handleSearch schedules a debounced filter. 202 because the view updates
// after the quiet period, not within this request.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "invalid search request",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	h.catalog.SetSearchText(req.Q)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (h *Handler) handleResetFilter(w http.ResponseWriter, r *http.Request) {
	h.catalog.ResetFilter()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handleEvents streams controller notifications as Server-Sent Events until
// the client disconnects.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	events, cancel := h.catalog.Subscribe(r.Context())
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := writeSSE(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev service.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("event: " + string(ev.Kind) + "\n")); err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
