package sales

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes sales history HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/sales", func(r chi.Router) {
		r.Get("/", h.list)                     // GET  /api/v1/sales?date=2006-01-02
		r.Get("/total", h.totalForDay)         // GET  /api/v1/sales/total?date=2006-01-02
		r.Post("/{id}/refund", h.refund)       // POST /api/v1/sales/{id}/refund
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, records)
}

func (h *Handler) totalForDay(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		respond(w, http.StatusBadRequest, map[string]string{"error": "date is required"})
		return
	}
	total, err := h.service.TotalForDay(r.Context(), date)
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]float64{"total": total})
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	rec, err := h.service.Refund(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrRecordNotFound) {
			code = http.StatusNotFound
		} else if errors.Is(err, ErrAlreadyRefunded) {
			code = http.StatusUnprocessableEntity
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, rec)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
