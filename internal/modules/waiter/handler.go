package waiter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes waiter assignment HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/waiters", func(r chi.Router) {
		r.Get("/", h.all)          // GET    /api/v1/waiters
		r.Post("/", h.assign)      // POST   /api/v1/waiters
		r.Delete("/", h.unassign)  // DELETE /api/v1/waiters
	})
}

type assignmentRequest struct {
	Waiter string `json:"waiter"`
	Table  int    `json:"table"`
}

func (h *Handler) all(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.All(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a, err := h.service.Assign(r.Context(), req.Waiter, req.Table)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, a)
}

func (h *Handler) unassign(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a, err := h.service.Unassign(r.Context(), req.Waiter, req.Table)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, a)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrTableTaken):
		return http.StatusConflict
	case errors.Is(err, ErrNotAssigned), errors.Is(err, ErrWaiterUnknown):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
