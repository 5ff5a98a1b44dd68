package table

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Handler exposes table HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/tables", func(r chi.Router) {
		r.Get("/", h.listTables)                             // GET    /api/v1/tables
		r.Post("/takeout", h.createTakeout)                  // POST   /api/v1/tables/takeout
		r.Get("/{number}", h.getTable)                       // GET    /api/v1/tables/{number}
		r.Post("/{number}/items", h.addItem)                 // POST   /api/v1/tables/{number}/items
		r.Patch("/{number}/items/{item_id}", h.updateQty)    // PATCH  /api/v1/tables/{number}/items/{item_id}
		r.Delete("/{number}/items/{item_id}", h.removeItem)  // DELETE /api/v1/tables/{number}/items/{item_id}
		r.Patch("/{number}/details", h.updateDetails)        // PATCH  /api/v1/tables/{number}/details
		r.Post("/{number}/pay", h.pay)                       // POST   /api/v1/tables/{number}/pay
		r.Post("/{number}/free", h.free)                     // POST   /api/v1/tables/{number}/free
		r.Post("/{number}/move/{dst}", h.move)               // POST   /api/v1/tables/{number}/move/{dst}
		r.Post("/{number}/combine/{dst}", h.combine)         // POST   /api/v1/tables/{number}/combine/{dst}
	})
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.List(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, tables)
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	number, err := tableNumber(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.Get(r.Context(), number)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) createTakeout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName string `json:"customer_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.CreateTakeout(r.Context(), req.CustomerName)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, t)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	number, err := tableNumber(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.AddItem(r.Context(), number, req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) updateQty(w http.ResponseWriter, r *http.Request) {
	number, err := tableNumber(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.UpdateQuantity(r.Context(), number, chi.URLParam(r, "item_id"), req.Quantity)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	number, err := tableNumber(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.RemoveItem(r.Context(), number, chi.URLParam(r, "item_id"))
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) updateDetails(w http.ResponseWriter, r *http.Request) {
	number, err := tableNumber(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req struct {
		CustomerName string `json:"customer_name"`
		Observations string `json:"observations"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.UpdateDetails(r.Context(), number, req.CustomerName, req.Observations)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	number, err := tableNumber(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	var req struct {
		Method string `json:"method"`
		Waiter string `json:"waiter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	t, err := h.service.Pay(r.Context(), number, req.Method, req.Waiter)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) free(w http.ResponseWriter, r *http.Request) {
	number, err := tableNumber(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.Free(r.Context(), number); err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "table freed"})
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request) {
	h.reassign(w, r, h.service.Move, "table moved")
}

func (h *Handler) combine(w http.ResponseWriter, r *http.Request) {
	h.reassign(w, r, h.service.Combine, "tables combined")
}

func (h *Handler) reassign(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, src, dst int) error, okMsg string) {
	src, err := tableNumber(r)
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	dst, err := strconv.Atoi(chi.URLParam(r, "dst"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := op(r.Context(), src, dst); err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": okMsg})
}

func tableNumber(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "number"))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrTableNotFound), errors.Is(err, ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotEditable), errors.Is(err, ErrLineLocked),
		errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrEmptyDraft),
		errors.Is(err, ErrNothingToDispatch), errors.Is(err, ErrNoActiveItems),
		errors.Is(err, ErrDestinationBusy), errors.Is(err, ErrCannotCombine),
		errors.Is(err, ErrItemCancelled):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
