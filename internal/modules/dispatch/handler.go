package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/comandero/pos-core/internal/modules/table"
)

// Handler exposes dispatch HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/tables/{number}/dispatch", func(r chi.Router) {
		r.Get("/", h.preview)                        // GET  /api/v1/tables/{number}/dispatch?waiter=
		r.Post("/", h.send)                          // POST /api/v1/tables/{number}/dispatch
		r.Post("/cancel/{item_id}", h.cancelItem)    // POST /api/v1/tables/{number}/dispatch/cancel/{item_id}
	})
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	d, err := h.service.Preview(r.Context(), number, r.URL.Query().Get("waiter"))
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req struct {
		Waiter string `json:"waiter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	d, err := h.service.Send(r.Context(), number, req.Waiter)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, d)
}

func (h *Handler) cancelItem(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req struct {
		Waiter string `json:"waiter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	d, err := h.service.CancelItem(r.Context(), number, chi.URLParam(r, "item_id"), req.Waiter)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, d)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, table.ErrTableNotFound), errors.Is(err, table.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, table.ErrEmptyDraft), errors.Is(err, table.ErrNothingToDispatch),
		errors.Is(err, table.ErrNotEditable), errors.Is(err, table.ErrItemCancelled),
		errors.Is(err, table.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
